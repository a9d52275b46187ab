package snapshot

// Product is a captured source product, including the raw pricing block and
// the taxonomy/attribute references still expressed in source-store terms.
type Product struct {
	ID               int64            `json:"id"`
	SKU              string           `json:"sku"`
	Slug             string           `json:"slug"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Prices           Prices           `json:"prices"`
	StockStatus      string           `json:"stock_status"`
	InStock          *bool            `json:"in_stock,omitempty"`
	StockQuantity    *int             `json:"stock_quantity,omitempty"`
	ParentID         int64            `json:"parent_id"`
	Categories       []TermRef        `json:"categories,omitempty"`
	Tags             []TermRef        `json:"tags,omitempty"`
	Attributes       []AttributeValue `json:"attributes,omitempty"`
	Images           []Image          `json:"images,omitempty"`

	// LocalImages holds paths to image files already downloaded by the
	// capture tool. When present they take priority over remote Images.
	LocalImages []string `json:"local_images,omitempty"`
}

// Prices is the raw pricing block as captured. Amounts may be minor-unit
// integers (e.g. "1999" with CurrencyMinorUnit 2) or literal decimals.
type Prices struct {
	RegularPrice      string `json:"regular_price"`
	SalePrice         string `json:"sale_price"`
	Price             string `json:"price"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int    `json:"currency_minor_unit"`
}

// TermRef references a source category or tag.
type TermRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AttributeValue is one observed attribute value on a product. The textual
// value lives in one of Option, Value, Term or Slug depending on how the
// source store exposed it.
type AttributeValue struct {
	Name         string `json:"name"`
	Taxonomy     string `json:"taxonomy,omitempty"`
	AttributeKey string `json:"attribute_key,omitempty"`
	Option       string `json:"option,omitempty"`
	Value        string `json:"value,omitempty"`
	Term         string `json:"term,omitempty"`
	Slug         string `json:"slug,omitempty"`
}

// Image is a remote product image reference.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}
