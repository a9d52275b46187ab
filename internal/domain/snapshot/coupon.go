package snapshot

// Coupon is a captured source coupon. Product and category references are
// source-space numeric ids and must be remapped before replication.
type Coupon struct {
	ID                        int64       `json:"id"`
	Code                      string      `json:"code"`
	Amount                    string      `json:"amount"`
	DiscountType              string      `json:"discount_type"`
	Description               string      `json:"description,omitempty"`
	DateExpires               string      `json:"date_expires,omitempty"`
	IndividualUse             bool        `json:"individual_use"`
	FreeShipping              bool        `json:"free_shipping"`
	ExcludeSaleItems          bool        `json:"exclude_sale_items"`
	MinimumAmount             string      `json:"minimum_amount,omitempty"`
	MaximumAmount             string      `json:"maximum_amount,omitempty"`
	UsageLimit                *int        `json:"usage_limit,omitempty"`
	UsageLimitPerUser         *int        `json:"usage_limit_per_user,omitempty"`
	ProductIDs                []int64     `json:"product_ids,omitempty"`
	ExcludedProductIDs        []int64     `json:"excluded_product_ids,omitempty"`
	ProductCategories         []int64     `json:"product_categories,omitempty"`
	ExcludedProductCategories []int64     `json:"excluded_product_categories,omitempty"`
	EmailRestrictions         []string    `json:"email_restrictions,omitempty"`
	MetaData                  []MetaEntry `json:"meta_data,omitempty"`
}
