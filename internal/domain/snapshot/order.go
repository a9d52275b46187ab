package snapshot

// Order is a captured source order with its line items and auxiliary lines.
type Order struct {
	ID            int64          `json:"id"`
	Number        string         `json:"number"`
	OrderKey      string         `json:"order_key"`
	Status        string         `json:"status"`
	Currency      string         `json:"currency"`
	CustomerID    int64          `json:"customer_id"`
	DatePaid      string         `json:"date_paid,omitempty"`
	DateCreated   string         `json:"date_created,omitempty"`
	CustomerNote  string         `json:"customer_note,omitempty"`
	Billing       *Address       `json:"billing,omitempty"`
	Shipping      *Address       `json:"shipping,omitempty"`
	LineItems     []LineItem     `json:"line_items,omitempty"`
	ShippingLines []ShippingLine `json:"shipping_lines,omitempty"`
	CouponLines   []CouponLine   `json:"coupon_lines,omitempty"`
	FeeLines      []FeeLine      `json:"fee_lines,omitempty"`
	TaxLines      []TaxLine      `json:"tax_lines,omitempty"`
	MetaData      []MetaEntry    `json:"meta_data,omitempty"`
}

// LineItem is one purchased product line on an order.
type LineItem struct {
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku,omitempty"`
	Name        string `json:"name,omitempty"`
	Subtotal    string `json:"subtotal,omitempty"`
	Total       string `json:"total,omitempty"`
}

// ShippingLine carries a shipping charge on an order.
type ShippingLine struct {
	MethodID    string `json:"method_id,omitempty"`
	MethodTitle string `json:"method_title,omitempty"`
	Total       string `json:"total,omitempty"`
}

// CouponLine records an applied coupon by its code.
type CouponLine struct {
	Code     string `json:"code"`
	Discount string `json:"discount,omitempty"`
}

// FeeLine carries an arbitrary fee on an order.
type FeeLine struct {
	Name      string `json:"name,omitempty"`
	Total     string `json:"total,omitempty"`
	TaxStatus string `json:"tax_status,omitempty"`
}

// TaxLine carries a tax amount on an order.
type TaxLine struct {
	RateCode string `json:"rate_code,omitempty"`
	Label    string `json:"label,omitempty"`
	TaxTotal string `json:"tax_total,omitempty"`
}

// HasPaidMarker reports whether the order should be replicated as paid:
// either a paid timestamp is present or the status implies payment.
func (o *Order) HasPaidMarker() bool {
	if o.DatePaid != "" {
		return true
	}
	switch o.Status {
	case "completed", "processing", "on-hold":
		return true
	}
	return false
}
