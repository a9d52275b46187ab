package target

// Wire types for the target store's REST API. Request structs use
// pointer/omitempty fields so that a reference with no known target id is
// omitted from the payload entirely, never sent as a zero sentinel.

// ---------------------------------------------------------------------------
// Taxonomy
// ---------------------------------------------------------------------------

// TermResource addresses one of the term collections under the commerce API.
type TermResource string

const (
	// TermCategories is the product category collection.
	TermCategories TermResource = "products/categories"
	// TermTags is the product tag collection.
	TermTags TermResource = "products/tags"
)

// Term is a category, tag or attribute term on the target store.
type Term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TermRequest creates or updates a term.
type TermRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Attribute is a product attribute definition on the target store.
type Attribute struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AttributeRequest creates a product attribute definition.
type AttributeRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
	Type string `json:"type,omitempty"`
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// Product is the subset of a target product the engine reads back.
type Product struct {
	ID   int64  `json:"id"`
	SKU  string `json:"sku"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// TermID references an already-resolved target term by id.
type TermID struct {
	ID int64 `json:"id"`
}

// ProductAttribute is one resolved attribute group on a product payload.
type ProductAttribute struct {
	ID      int64    `json:"id"`
	Visible bool     `json:"visible"`
	Options []string `json:"options"`
}

// ImageRequest attaches an image to a product, either by uploaded media id
// or by remote source URL.
type ImageRequest struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// ProductRequest creates or updates a product.
type ProductRequest struct {
	Name             string             `json:"name,omitempty"`
	Slug             string             `json:"slug,omitempty"`
	Type             string             `json:"type,omitempty"`
	SKU              string             `json:"sku,omitempty"`
	Description      string             `json:"description,omitempty"`
	ShortDescription string             `json:"short_description,omitempty"`
	RegularPrice     string             `json:"regular_price,omitempty"`
	SalePrice        string             `json:"sale_price,omitempty"`
	StockStatus      string             `json:"stock_status,omitempty"`
	ManageStock      *bool              `json:"manage_stock,omitempty"`
	StockQuantity    *int               `json:"stock_quantity,omitempty"`
	Categories       []TermID           `json:"categories,omitempty"`
	Tags             []TermID           `json:"tags,omitempty"`
	Attributes       []ProductAttribute `json:"attributes,omitempty"`
	Images           []ImageRequest     `json:"images,omitempty"`
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// Media is an uploaded media item on the target store.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

// Customer is the subset of a target customer the engine reads back.
type Customer struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// AddressRequest is a billing or shipping address payload.
type AddressRequest struct {
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

// MetaData is a free-form key/value pair on a target entity.
type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CustomerRequest creates or updates a customer.
type CustomerRequest struct {
	Email     string          `json:"email,omitempty"`
	Username  string          `json:"username,omitempty"`
	FirstName string          `json:"first_name,omitempty"`
	LastName  string          `json:"last_name,omitempty"`
	Billing   *AddressRequest `json:"billing,omitempty"`
	Shipping  *AddressRequest `json:"shipping,omitempty"`
	MetaData  []MetaData      `json:"meta_data,omitempty"`
}

// ---------------------------------------------------------------------------
// Coupons
// ---------------------------------------------------------------------------

// Coupon is the subset of a target coupon the engine reads back.
type Coupon struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// CouponRequest creates or updates a coupon. The id lists carry target-space
// ids; any source id without a correspondence has already been dropped.
type CouponRequest struct {
	Code                      string     `json:"code,omitempty"`
	Amount                    string     `json:"amount,omitempty"`
	DiscountType              string     `json:"discount_type,omitempty"`
	Description               string     `json:"description,omitempty"`
	DateExpires               string     `json:"date_expires,omitempty"`
	IndividualUse             bool       `json:"individual_use"`
	FreeShipping              bool       `json:"free_shipping"`
	ExcludeSaleItems          bool       `json:"exclude_sale_items"`
	MinimumAmount             string     `json:"minimum_amount,omitempty"`
	MaximumAmount             string     `json:"maximum_amount,omitempty"`
	UsageLimit                *int       `json:"usage_limit,omitempty"`
	UsageLimitPerUser         *int       `json:"usage_limit_per_user,omitempty"`
	ProductIDs                []int64    `json:"product_ids,omitempty"`
	ExcludedProductIDs        []int64    `json:"excluded_product_ids,omitempty"`
	ProductCategories         []int64    `json:"product_categories,omitempty"`
	ExcludedProductCategories []int64    `json:"excluded_product_categories,omitempty"`
	EmailRestrictions         []string   `json:"email_restrictions,omitempty"`
	MetaData                  []MetaData `json:"meta_data,omitempty"`
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// Order is the subset of a target order the engine reads back.
type Order struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	OrderKey string `json:"order_key"`
	Status   string `json:"status"`
}

// LineItemRequest is one product line on an order payload.
type LineItemRequest struct {
	ProductID   int64  `json:"product_id"`
	VariationID *int64 `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal,omitempty"`
	Total       string `json:"total,omitempty"`
}

// ShippingLineRequest carries a shipping charge through verbatim.
type ShippingLineRequest struct {
	MethodID    string `json:"method_id,omitempty"`
	MethodTitle string `json:"method_title,omitempty"`
	Total       string `json:"total,omitempty"`
}

// CouponLineRequest references an applied coupon by code.
type CouponLineRequest struct {
	Code string `json:"code"`
}

// FeeLineRequest carries a fee line through verbatim.
type FeeLineRequest struct {
	Name      string `json:"name,omitempty"`
	Total     string `json:"total,omitempty"`
	TaxStatus string `json:"tax_status,omitempty"`
}

// TaxLineRequest carries a tax line through verbatim.
type TaxLineRequest struct {
	RateCode string `json:"rate_code,omitempty"`
	Label    string `json:"label,omitempty"`
	TaxTotal string `json:"tax_total,omitempty"`
}

// OrderRequest creates an order. Orders are create-only: there is no
// corresponding update payload.
type OrderRequest struct {
	Status        string                `json:"status,omitempty"`
	Currency      string                `json:"currency,omitempty"`
	CustomerID    *int64                `json:"customer_id,omitempty"`
	CustomerNote  string                `json:"customer_note,omitempty"`
	Billing       *AddressRequest       `json:"billing,omitempty"`
	Shipping      *AddressRequest       `json:"shipping,omitempty"`
	LineItems     []LineItemRequest     `json:"line_items,omitempty"`
	ShippingLines []ShippingLineRequest `json:"shipping_lines,omitempty"`
	CouponLines   []CouponLineRequest   `json:"coupon_lines,omitempty"`
	FeeLines      []FeeLineRequest      `json:"fee_lines,omitempty"`
	TaxLines      []TaxLineRequest      `json:"tax_lines,omitempty"`
	SetPaid       bool                  `json:"set_paid"`
	MetaData      []MetaData            `json:"meta_data,omitempty"`
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// SettingUpdate updates one option inside a settings group.
type SettingUpdate struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// ShippingZone is a shipping zone on the target store.
type ShippingZone struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShippingZoneRequest updates a zone's scalar fields.
type ShippingZoneRequest struct {
	Name  string `json:"name,omitempty"`
	Order *int   `json:"order,omitempty"`
}

// ZoneLocationRequest is one entry of a zone's bulk-replaced location list.
type ZoneLocationRequest struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

// ZoneMethod is a shipping method instance on the target store.
type ZoneMethod struct {
	InstanceID int64  `json:"instance_id"`
	MethodID   string `json:"method_id"`
}

// ZoneMethodRequest updates or creates a shipping method inside a zone.
type ZoneMethodRequest struct {
	MethodID string         `json:"method_id,omitempty"`
	Enabled  *bool          `json:"enabled,omitempty"`
	Order    *int           `json:"order,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// PaymentGatewayRequest updates a payment gateway by its id.
type PaymentGatewayRequest struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Enabled     *bool          `json:"enabled,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}
