package snapshot

// Customer is a captured source customer account.
type Customer struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Billing   *Address    `json:"billing,omitempty"`
	Shipping  *Address    `json:"shipping,omitempty"`
	MetaData  []MetaEntry `json:"meta_data,omitempty"`
}

// Address is a billing or shipping address block.
type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// IsEmpty reports whether every field of the address is blank.
func (a *Address) IsEmpty() bool {
	if a == nil {
		return true
	}
	return a.FirstName == "" && a.LastName == "" && a.Company == "" &&
		a.Address1 == "" && a.Address2 == "" && a.City == "" &&
		a.State == "" && a.Postcode == "" && a.Country == "" &&
		a.Email == "" && a.Phone == ""
}

// MetaEntry is a free-form key/value pair attached to an entity.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
