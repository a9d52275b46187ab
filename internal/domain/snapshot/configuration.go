package snapshot

// StoreConfiguration is the captured target-applicable store configuration.
// All references inside it (setting ids, zone ids, gateway ids, method
// instance ids) are stable strings/ids known up front, so applying it
// requires no identity mapping.
type StoreConfiguration struct {
	// SettingGroups maps a settings group id (e.g. "general", "tax") to
	// the individual settings captured for that group.
	SettingGroups map[string][]Setting `json:"setting_groups,omitempty"`

	ShippingZones   []ShippingZone   `json:"shipping_zones,omitempty"`
	PaymentGateways []PaymentGateway `json:"payment_gateways,omitempty"`
}

// Setting is one captured option inside a settings group.
type Setting struct {
	ID    string       `json:"id"`
	Value SettingValue `json:"value"`
}

// ShippingZone is a captured shipping zone with its locations and methods.
type ShippingZone struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Order     int            `json:"order"`
	Locations []ZoneLocation `json:"locations,omitempty"`
	Methods   []ZoneMethod   `json:"methods,omitempty"`
}

// ZoneLocation restricts a shipping zone to a geographic area.
type ZoneLocation struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

// ZoneMethod is a shipping method instance configured inside a zone.
type ZoneMethod struct {
	InstanceID int64              `json:"instance_id"`
	MethodID   string             `json:"method_id"`
	Enabled    bool               `json:"enabled"`
	Order      int                `json:"order"`
	Settings   map[string]Setting `json:"settings,omitempty"`
}

// PaymentGateway is a captured payment gateway configuration.
type PaymentGateway struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Enabled     bool               `json:"enabled"`
	Settings    map[string]Setting `json:"settings,omitempty"`
}
