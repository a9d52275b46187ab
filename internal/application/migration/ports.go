package migration

import (
	"context"

	"github.com/storesync/migrator/internal/infrastructure/target"
)

// Narrow port interfaces over the target store client. Each reconciler
// depends only on the slice of the API it actually calls, which keeps the
// fakes in tests small.

// TaxonomyAPI covers category and tag term operations.
type TaxonomyAPI interface {
	FindTermBySlug(ctx context.Context, resource target.TermResource, slug string) (*target.Term, error)
	CreateTerm(ctx context.Context, resource target.TermResource, req target.TermRequest) (*target.Term, error)
}

// AttributeAPI covers attribute definition and attribute term operations.
type AttributeAPI interface {
	FindAttributeBySlug(ctx context.Context, slug string) (*target.Attribute, error)
	CreateAttribute(ctx context.Context, req target.AttributeRequest) (*target.Attribute, error)
	CreateAttributeTerm(ctx context.Context, attributeID int64, req target.TermRequest) (*target.Term, error)
}

// ProductAPI covers product lookup and upsert operations.
type ProductAPI interface {
	FindProductBySKU(ctx context.Context, sku string) (*target.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*target.Product, error)
	CreateProduct(ctx context.Context, req target.ProductRequest) (*target.Product, error)
	UpdateProduct(ctx context.Context, id int64, req target.ProductRequest) (*target.Product, error)
}

// MediaAPI covers media uploads.
type MediaAPI interface {
	UploadMedia(ctx context.Context, path string) (*target.Media, error)
}

// CustomerAPI covers customer lookup and upsert operations.
type CustomerAPI interface {
	FindCustomerByEmail(ctx context.Context, email string) (*target.Customer, error)
	SearchCustomers(ctx context.Context, term string) ([]target.Customer, error)
	CreateCustomer(ctx context.Context, req target.CustomerRequest) (*target.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req target.CustomerRequest) (*target.Customer, error)
}

// CouponAPI covers coupon lookup and upsert operations.
type CouponAPI interface {
	FindCouponByCode(ctx context.Context, code string) (*target.Coupon, error)
	CreateCoupon(ctx context.Context, req target.CouponRequest) (*target.Coupon, error)
	UpdateCoupon(ctx context.Context, id int64, req target.CouponRequest) (*target.Coupon, error)
}

// OrderAPI covers order creation and conflict lookup.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req target.OrderRequest) (*target.Order, error)
	SearchOrders(ctx context.Context, term string) ([]target.Order, error)
}

// SettingsAPI covers store configuration application.
type SettingsAPI interface {
	UpdateSettingsGroup(ctx context.Context, group string, updates []target.SettingUpdate) error
	UpdateShippingZone(ctx context.Context, zoneID int64, req target.ShippingZoneRequest) error
	ReplaceZoneLocations(ctx context.Context, zoneID int64, locations []target.ZoneLocationRequest) error
	UpdateZoneMethod(ctx context.Context, zoneID, instanceID int64, req target.ZoneMethodRequest) error
	CreateZoneMethod(ctx context.Context, zoneID int64, req target.ZoneMethodRequest) error
	UpdatePaymentGateway(ctx context.Context, gatewayID string, req target.PaymentGatewayRequest) error
}

// BundleAPI covers extension bundle installs.
type BundleAPI interface {
	InstallBundle(ctx context.Context, kind target.BundleKind, files map[string]string) error
}

// TargetAPI is the full surface the engine wires together.
type TargetAPI interface {
	TaxonomyAPI
	AttributeAPI
	ProductAPI
	MediaAPI
	CustomerAPI
	CouponAPI
	OrderAPI
	SettingsAPI
	BundleAPI
}

// Ensure the concrete client satisfies the full port surface.
var _ TargetAPI = (*target.Client)(nil)
