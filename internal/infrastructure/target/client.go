package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the target API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the typed REST client for the target commerce store. All
// commerce resources live under /wp-json/wc/v3/; media uploads go to the
// core /wp-json/wp/v2/media endpoint with the credentials repeated as
// query parameters.
type Client struct {
	creds  Credentials
	sender *Sender
	log    *zap.Logger
}

// NewClient creates a client after validating the credentials.
func NewClient(creds Credentials, sender *Sender, log *zap.Logger) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if sender == nil {
		sender = NewSender(DefaultSenderConfig())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{creds: creds, sender: sender, log: log}, nil
}

// BaseURL returns the normalized store base URL.
func (c *Client) BaseURL() string {
	return c.creds.BaseURL
}

func (c *Client) commerceURL(path string, query url.Values) string {
	u := c.creds.BaseURL + "/wp-json/wc/v3/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// withQueryAuth embeds the consumer key/secret as query parameters for the
// endpoints that require them in addition to Basic auth.
func (c *Client) withQueryAuth(query url.Values) url.Values {
	if query == nil {
		query = url.Values{}
	}
	query.Set("consumer_key", c.creds.ConsumerKey)
	query.Set("consumer_secret", c.creds.ConsumerSecret)
	return query
}

func (c *Client) logRetry(attempt int, wait time.Duration, status int) {
	c.log.Warn("target API asked to back off",
		zap.Int("attempt", attempt),
		zap.Int("status", status),
		zap.Duration("wait", wait),
	)
}

// do sends one JSON request and decodes a 2xx response into out. Non-2xx
// responses come back as *APIError carrying the status and raw body.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("target: encode request: %w", err)
		}
	}

	build := func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, rawURL, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.creds.ConsumerKey, c.creds.ConsumerSecret)
		return req, nil
	}

	resp, err := c.sender.Send(ctx, build, c.logRetry)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("target: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("target: decode response: %w", err)
		}
	}
	return nil
}

// list performs a lookup GET, translating a 404 into an empty result:
// on a lookup, "not found" is an answer, not an error.
func (c *Client) list(ctx context.Context, rawURL string, out any) error {
	err := c.do(ctx, http.MethodGet, rawURL, nil, out)
	if IsNotFound(err) {
		return nil
	}
	return err
}

// ---------------------------------------------------------------------------
// Taxonomy terms
// ---------------------------------------------------------------------------

// FindTermBySlug searches a term collection for an exact slug match.
// Returns (nil, nil) when no term matches.
func (c *Client) FindTermBySlug(ctx context.Context, resource TermResource, slug string) (*Term, error) {
	query := url.Values{"slug": {slug}}
	var terms []Term
	if err := c.list(ctx, c.commerceURL(string(resource), query), &terms); err != nil {
		return nil, err
	}
	for i := range terms {
		if terms[i].Slug == slug {
			return &terms[i], nil
		}
	}
	return nil, nil
}

// CreateTerm creates a term in the given collection.
func (c *Client) CreateTerm(ctx context.Context, resource TermResource, req TermRequest) (*Term, error) {
	var term Term
	if err := c.do(ctx, http.MethodPost, c.commerceURL(string(resource), nil), req, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// FindAttributeBySlug scans the attribute definitions for an exact slug
// match. The attribute collection has no server-side slug filter.
func (c *Client) FindAttributeBySlug(ctx context.Context, slug string) (*Attribute, error) {
	var attrs []Attribute
	if err := c.list(ctx, c.commerceURL("products/attributes", nil), &attrs); err != nil {
		return nil, err
	}
	for i := range attrs {
		if attrs[i].Slug == slug {
			return &attrs[i], nil
		}
	}
	return nil, nil
}

// CreateAttribute creates a product attribute definition.
func (c *Client) CreateAttribute(ctx context.Context, req AttributeRequest) (*Attribute, error) {
	var attr Attribute
	if err := c.do(ctx, http.MethodPost, c.commerceURL("products/attributes", nil), req, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}

// CreateAttributeTerm creates a child term under an attribute definition.
func (c *Client) CreateAttributeTerm(ctx context.Context, attributeID int64, req TermRequest) (*Term, error) {
	path := fmt.Sprintf("products/attributes/%d/terms", attributeID)
	var term Term
	if err := c.do(ctx, http.MethodPost, c.commerceURL(path, nil), req, &term); err != nil {
		return nil, err
	}
	return &term, nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// FindProductBySKU looks a product up by exact SKU. Returns (nil, nil)
// when no product matches.
func (c *Client) FindProductBySKU(ctx context.Context, sku string) (*Product, error) {
	query := url.Values{"sku": {sku}}
	var products []Product
	if err := c.list(ctx, c.commerceURL("products", query), &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].SKU == sku {
			return &products[i], nil
		}
	}
	return nil, nil
}

// FindProductBySlug looks a product up by exact slug. Returns (nil, nil)
// when no product matches.
func (c *Client) FindProductBySlug(ctx context.Context, slug string) (*Product, error) {
	query := url.Values{"slug": {slug}}
	var products []Product
	if err := c.list(ctx, c.commerceURL("products", query), &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Slug == slug {
			return &products[i], nil
		}
	}
	return nil, nil
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, c.commerceURL("products", nil), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates an existing product by target id.
func (c *Client) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	path := "products/" + strconv.FormatInt(id, 10)
	var product Product
	if err := c.do(ctx, http.MethodPut, c.commerceURL(path, nil), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

// FindCustomerByEmail looks a customer up by exact email. Returns
// (nil, nil) when no customer matches.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	query := url.Values{"email": {email}}
	var customers []Customer
	if err := c.list(ctx, c.commerceURL("customers", query), &customers); err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].Email == email {
			return &customers[i], nil
		}
	}
	return nil, nil
}

// SearchCustomers runs a free-text customer search.
func (c *Client) SearchCustomers(ctx context.Context, term string) ([]Customer, error) {
	query := url.Values{"search": {term}, "role": {"all"}}
	var customers []Customer
	if err := c.list(ctx, c.commerceURL("customers", query), &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer creates a customer.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, c.commerceURL("customers", nil), req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer updates an existing customer by target id.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, req CustomerRequest) (*Customer, error) {
	path := "customers/" + strconv.FormatInt(id, 10)
	var customer Customer
	if err := c.do(ctx, http.MethodPut, c.commerceURL(path, nil), req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ---------------------------------------------------------------------------
// Coupons
// ---------------------------------------------------------------------------

// FindCouponByCode looks a coupon up by exact code. Returns (nil, nil)
// when no coupon matches.
func (c *Client) FindCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	query := url.Values{"code": {code}}
	var coupons []Coupon
	if err := c.list(ctx, c.commerceURL("coupons", query), &coupons); err != nil {
		return nil, err
	}
	for i := range coupons {
		if coupons[i].Code == code {
			return &coupons[i], nil
		}
	}
	return nil, nil
}

// CreateCoupon creates a coupon.
func (c *Client) CreateCoupon(ctx context.Context, req CouponRequest) (*Coupon, error) {
	var coupon Coupon
	if err := c.do(ctx, http.MethodPost, c.commerceURL("coupons", nil), req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// UpdateCoupon updates an existing coupon by target id.
func (c *Client) UpdateCoupon(ctx context.Context, id int64, req CouponRequest) (*Coupon, error) {
	path := "coupons/" + strconv.FormatInt(id, 10)
	var coupon Coupon
	if err := c.do(ctx, http.MethodPut, c.commerceURL(path, nil), req, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateOrder creates an order. Orders are never updated by the engine.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, c.commerceURL("orders", nil), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SearchOrders runs a free-text order search, used to locate an already
// present order by its number or order key after a create conflict.
func (c *Client) SearchOrders(ctx context.Context, term string) ([]Order, error) {
	query := url.Values{"search": {term}}
	var orders []Order
	if err := c.list(ctx, c.commerceURL("orders", query), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ---------------------------------------------------------------------------
// Store configuration
// ---------------------------------------------------------------------------

// UpdateSettingsGroup applies a batch of option updates to one settings group.
func (c *Client) UpdateSettingsGroup(ctx context.Context, group string, updates []SettingUpdate) error {
	body := map[string][]SettingUpdate{"update": updates}
	return c.do(ctx, http.MethodPost, c.commerceURL("settings/"+group+"/batch", nil), body, nil)
}

// UpdateShippingZone updates a zone's scalar fields by its stable id.
func (c *Client) UpdateShippingZone(ctx context.Context, zoneID int64, req ShippingZoneRequest) error {
	path := "shipping/zones/" + strconv.FormatInt(zoneID, 10)
	return c.do(ctx, http.MethodPut, c.commerceURL(path, nil), req, nil)
}

// ReplaceZoneLocations bulk-replaces a zone's location list.
func (c *Client) ReplaceZoneLocations(ctx context.Context, zoneID int64, locations []ZoneLocationRequest) error {
	path := fmt.Sprintf("shipping/zones/%d/locations", zoneID)
	return c.do(ctx, http.MethodPut, c.commerceURL(path, nil), locations, nil)
}

// UpdateZoneMethod updates a shipping method instance inside a zone.
func (c *Client) UpdateZoneMethod(ctx context.Context, zoneID, instanceID int64, req ZoneMethodRequest) error {
	path := fmt.Sprintf("shipping/zones/%d/methods/%d", zoneID, instanceID)
	return c.do(ctx, http.MethodPut, c.commerceURL(path, nil), req, nil)
}

// CreateZoneMethod creates a shipping method inside a zone by method id,
// the fallback when the captured instance id no longer exists.
func (c *Client) CreateZoneMethod(ctx context.Context, zoneID int64, req ZoneMethodRequest) error {
	path := fmt.Sprintf("shipping/zones/%d/methods", zoneID)
	return c.do(ctx, http.MethodPost, c.commerceURL(path, nil), req, nil)
}

// UpdatePaymentGateway updates a payment gateway by its stable string id.
func (c *Client) UpdatePaymentGateway(ctx context.Context, gatewayID string, req PaymentGatewayRequest) error {
	return c.do(ctx, http.MethodPut, c.commerceURL("payment_gateways/"+gatewayID, nil), req, nil)
}
