package migration

import (
	"context"

	"github.com/storesync/migrator/internal/infrastructure/target"
)

// stubAPI implements the full target port surface through optional function
// hooks; unset hooks return empty results. Tests set only what they need.
type stubAPI struct {
	findTermBySlug      func(resource target.TermResource, slug string) (*target.Term, error)
	createTerm          func(resource target.TermResource, req target.TermRequest) (*target.Term, error)
	findAttributeBySlug func(slug string) (*target.Attribute, error)
	createAttribute     func(req target.AttributeRequest) (*target.Attribute, error)
	createAttributeTerm func(attributeID int64, req target.TermRequest) (*target.Term, error)
	findProductBySKU    func(sku string) (*target.Product, error)
	findProductBySlug   func(slug string) (*target.Product, error)
	createProduct       func(req target.ProductRequest) (*target.Product, error)
	updateProduct       func(id int64, req target.ProductRequest) (*target.Product, error)
	uploadMedia         func(path string) (*target.Media, error)
	findCustomerByEmail func(email string) (*target.Customer, error)
	searchCustomers     func(term string) ([]target.Customer, error)
	createCustomer      func(req target.CustomerRequest) (*target.Customer, error)
	updateCustomer      func(id int64, req target.CustomerRequest) (*target.Customer, error)
	findCouponByCode    func(code string) (*target.Coupon, error)
	createCoupon        func(req target.CouponRequest) (*target.Coupon, error)
	updateCoupon        func(id int64, req target.CouponRequest) (*target.Coupon, error)
	createOrder         func(req target.OrderRequest) (*target.Order, error)
	searchOrders        func(term string) ([]target.Order, error)
	updateSettingsGroup func(group string, updates []target.SettingUpdate) error
	updateShippingZone  func(zoneID int64, req target.ShippingZoneRequest) error
	replaceLocations    func(zoneID int64, locations []target.ZoneLocationRequest) error
	updateZoneMethod    func(zoneID, instanceID int64, req target.ZoneMethodRequest) error
	createZoneMethod    func(zoneID int64, req target.ZoneMethodRequest) error
	updateGateway       func(gatewayID string, req target.PaymentGatewayRequest) error
	installBundle       func(kind target.BundleKind, files map[string]string) error

	calls int
}

var _ TargetAPI = (*stubAPI)(nil)

func (s *stubAPI) FindTermBySlug(_ context.Context, resource target.TermResource, slug string) (*target.Term, error) {
	s.calls++
	if s.findTermBySlug == nil {
		return nil, nil
	}
	return s.findTermBySlug(resource, slug)
}

func (s *stubAPI) CreateTerm(_ context.Context, resource target.TermResource, req target.TermRequest) (*target.Term, error) {
	s.calls++
	if s.createTerm == nil {
		return &target.Term{ID: 1, Name: req.Name, Slug: req.Slug}, nil
	}
	return s.createTerm(resource, req)
}

func (s *stubAPI) FindAttributeBySlug(_ context.Context, slug string) (*target.Attribute, error) {
	s.calls++
	if s.findAttributeBySlug == nil {
		return nil, nil
	}
	return s.findAttributeBySlug(slug)
}

func (s *stubAPI) CreateAttribute(_ context.Context, req target.AttributeRequest) (*target.Attribute, error) {
	s.calls++
	if s.createAttribute == nil {
		return &target.Attribute{ID: 1, Name: req.Name, Slug: req.Slug}, nil
	}
	return s.createAttribute(req)
}

func (s *stubAPI) CreateAttributeTerm(_ context.Context, attributeID int64, req target.TermRequest) (*target.Term, error) {
	s.calls++
	if s.createAttributeTerm == nil {
		return &target.Term{ID: 1, Name: req.Name}, nil
	}
	return s.createAttributeTerm(attributeID, req)
}

func (s *stubAPI) FindProductBySKU(_ context.Context, sku string) (*target.Product, error) {
	s.calls++
	if s.findProductBySKU == nil {
		return nil, nil
	}
	return s.findProductBySKU(sku)
}

func (s *stubAPI) FindProductBySlug(_ context.Context, slug string) (*target.Product, error) {
	s.calls++
	if s.findProductBySlug == nil {
		return nil, nil
	}
	return s.findProductBySlug(slug)
}

func (s *stubAPI) CreateProduct(_ context.Context, req target.ProductRequest) (*target.Product, error) {
	s.calls++
	if s.createProduct == nil {
		return &target.Product{ID: 1, SKU: req.SKU, Slug: req.Slug, Name: req.Name}, nil
	}
	return s.createProduct(req)
}

func (s *stubAPI) UpdateProduct(_ context.Context, id int64, req target.ProductRequest) (*target.Product, error) {
	s.calls++
	if s.updateProduct == nil {
		return &target.Product{ID: id, SKU: req.SKU, Slug: req.Slug, Name: req.Name}, nil
	}
	return s.updateProduct(id, req)
}

func (s *stubAPI) UploadMedia(_ context.Context, path string) (*target.Media, error) {
	s.calls++
	if s.uploadMedia == nil {
		return &target.Media{ID: 1}, nil
	}
	return s.uploadMedia(path)
}

func (s *stubAPI) FindCustomerByEmail(_ context.Context, email string) (*target.Customer, error) {
	s.calls++
	if s.findCustomerByEmail == nil {
		return nil, nil
	}
	return s.findCustomerByEmail(email)
}

func (s *stubAPI) SearchCustomers(_ context.Context, term string) ([]target.Customer, error) {
	s.calls++
	if s.searchCustomers == nil {
		return nil, nil
	}
	return s.searchCustomers(term)
}

func (s *stubAPI) CreateCustomer(_ context.Context, req target.CustomerRequest) (*target.Customer, error) {
	s.calls++
	if s.createCustomer == nil {
		return &target.Customer{ID: 1, Email: req.Email, Username: req.Username}, nil
	}
	return s.createCustomer(req)
}

func (s *stubAPI) UpdateCustomer(_ context.Context, id int64, req target.CustomerRequest) (*target.Customer, error) {
	s.calls++
	if s.updateCustomer == nil {
		return &target.Customer{ID: id, Email: req.Email, Username: req.Username}, nil
	}
	return s.updateCustomer(id, req)
}

func (s *stubAPI) FindCouponByCode(_ context.Context, code string) (*target.Coupon, error) {
	s.calls++
	if s.findCouponByCode == nil {
		return nil, nil
	}
	return s.findCouponByCode(code)
}

func (s *stubAPI) CreateCoupon(_ context.Context, req target.CouponRequest) (*target.Coupon, error) {
	s.calls++
	if s.createCoupon == nil {
		return &target.Coupon{ID: 1, Code: req.Code}, nil
	}
	return s.createCoupon(req)
}

func (s *stubAPI) UpdateCoupon(_ context.Context, id int64, req target.CouponRequest) (*target.Coupon, error) {
	s.calls++
	if s.updateCoupon == nil {
		return &target.Coupon{ID: id, Code: req.Code}, nil
	}
	return s.updateCoupon(id, req)
}

func (s *stubAPI) CreateOrder(_ context.Context, req target.OrderRequest) (*target.Order, error) {
	s.calls++
	if s.createOrder == nil {
		return &target.Order{ID: 1, Status: req.Status}, nil
	}
	return s.createOrder(req)
}

func (s *stubAPI) SearchOrders(_ context.Context, term string) ([]target.Order, error) {
	s.calls++
	if s.searchOrders == nil {
		return nil, nil
	}
	return s.searchOrders(term)
}

func (s *stubAPI) UpdateSettingsGroup(_ context.Context, group string, updates []target.SettingUpdate) error {
	s.calls++
	if s.updateSettingsGroup == nil {
		return nil
	}
	return s.updateSettingsGroup(group, updates)
}

func (s *stubAPI) UpdateShippingZone(_ context.Context, zoneID int64, req target.ShippingZoneRequest) error {
	s.calls++
	if s.updateShippingZone == nil {
		return nil
	}
	return s.updateShippingZone(zoneID, req)
}

func (s *stubAPI) ReplaceZoneLocations(_ context.Context, zoneID int64, locations []target.ZoneLocationRequest) error {
	s.calls++
	if s.replaceLocations == nil {
		return nil
	}
	return s.replaceLocations(zoneID, locations)
}

func (s *stubAPI) UpdateZoneMethod(_ context.Context, zoneID, instanceID int64, req target.ZoneMethodRequest) error {
	s.calls++
	if s.updateZoneMethod == nil {
		return nil
	}
	return s.updateZoneMethod(zoneID, instanceID, req)
}

func (s *stubAPI) CreateZoneMethod(_ context.Context, zoneID int64, req target.ZoneMethodRequest) error {
	s.calls++
	if s.createZoneMethod == nil {
		return nil
	}
	return s.createZoneMethod(zoneID, req)
}

func (s *stubAPI) UpdatePaymentGateway(_ context.Context, gatewayID string, req target.PaymentGatewayRequest) error {
	s.calls++
	if s.updateGateway == nil {
		return nil
	}
	return s.updateGateway(gatewayID, req)
}

func (s *stubAPI) InstallBundle(_ context.Context, kind target.BundleKind, files map[string]string) error {
	s.calls++
	if s.installBundle == nil {
		return nil
	}
	return s.installBundle(kind, files)
}

func conflictErr() error {
	return &target.APIError{StatusCode: 409, Body: `{"code":"term_exists"}`}
}

func notFoundErr() error {
	return &target.APIError{StatusCode: 404, Body: `{"code":"rest_no_route"}`}
}
