package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// OrderReconciler replicates snapshot orders. Orders are create-only: an
// order found already present on the target after a create conflict is
// left untouched, and an unresolved conflict is fatal. Orders whose line
// items cannot be mapped at all are skipped with a logged reason.
type OrderReconciler struct {
	api         OrderAPI
	products    *replication.IdentityMap
	customers   *replication.IdentityMap
	couponCodes map[string]int64
	log         *zap.Logger
	progress    replication.ProgressFunc

	stats Stats
}

// NewOrderReconciler creates an order reconciler consuming the product and
// customer identity maps and the coupon code map.
func NewOrderReconciler(api OrderAPI, products, customers *replication.IdentityMap, couponCodes map[string]int64, log *zap.Logger, progress replication.ProgressFunc) *OrderReconciler {
	return &OrderReconciler{
		api:         api,
		products:    products,
		customers:   customers,
		couponCodes: couponCodes,
		log:         log,
		progress:    progress,
	}
}

// Stats returns the outcome counts of the reconciliation so far.
func (r *OrderReconciler) Stats() Stats {
	return r.stats
}

// ReconcileAll processes every order sequentially, checking for
// cancellation before each one.
func (r *OrderReconciler) ReconcileAll(ctx context.Context, orders []snapshot.Order) error {
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.reconcile(ctx, &orders[i]); err != nil {
			return fmt.Errorf("order %q: %w", orders[i].Number, err)
		}
	}
	return nil
}

func (r *OrderReconciler) reconcile(ctx context.Context, o *snapshot.Order) error {
	lineItems := r.mapLineItems(o)
	if len(lineItems) == 0 {
		r.log.Info("order has no mappable line items, skipping",
			zap.String("number", o.Number),
			zap.Int("source_items", len(o.LineItems)),
		)
		r.stats.Skipped++
		r.progress.Emit("order %s skipped: no mappable line items", o.Number)
		return nil
	}

	req := r.buildRequest(o, lineItems)

	created, createErr := r.api.CreateOrder(ctx, req)
	if createErr == nil {
		r.stats.Created++
		r.progress.Emit("order %s created (#%d)", o.Number, created.ID)
		return nil
	}
	if !target.IsConflict(createErr) {
		return createErr
	}

	existing, err := r.findExisting(ctx, o)
	if err != nil {
		return err
	}
	if existing != nil {
		r.log.Info("order already present on target, leaving untouched",
			zap.String("number", o.Number),
			zap.Int64("target_id", existing.ID),
		)
		r.stats.Existing++
		r.progress.Emit("order %s already present (#%d)", o.Number, existing.ID)
		return nil
	}
	return createErr
}

// mapLineItems translates each line's product (and variation) reference
// through the product identity map. Lines whose product has no target
// correspondence are dropped; a variation with no correspondence is
// omitted while the line itself survives on the parent product.
func (r *OrderReconciler) mapLineItems(o *snapshot.Order) []target.LineItemRequest {
	var out []target.LineItemRequest
	for _, li := range o.LineItems {
		productID, ok := r.products.Lookup(li.ProductID)
		if !ok {
			r.log.Debug("line item references unmapped product",
				zap.String("order", o.Number),
				zap.Int64("source_product_id", li.ProductID),
			)
			continue
		}
		item := target.LineItemRequest{
			ProductID: productID,
			Quantity:  li.Quantity,
			Subtotal:  li.Subtotal,
			Total:     li.Total,
		}
		if li.VariationID > 0 {
			if variationID, ok := r.products.Lookup(li.VariationID); ok {
				item.VariationID = &variationID
			}
		}
		out = append(out, item)
	}
	return out
}

func (r *OrderReconciler) buildRequest(o *snapshot.Order, lineItems []target.LineItemRequest) target.OrderRequest {
	req := target.OrderRequest{
		Status:       o.Status,
		Currency:     o.Currency,
		CustomerNote: o.CustomerNote,
		Billing:      addressRequest(o.Billing),
		Shipping:     addressRequest(o.Shipping),
		LineItems:    lineItems,
		SetPaid:      o.HasPaidMarker(),
		MetaData:     metaData(o.MetaData),
	}

	// An order without a mapped customer replicates as a guest order.
	if o.CustomerID > 0 {
		if customerID, ok := r.customers.Lookup(o.CustomerID); ok {
			req.CustomerID = &customerID
		}
	}

	for _, cl := range o.CouponLines {
		if _, ok := r.couponCodes[cl.Code]; !ok {
			r.log.Debug("coupon line references unknown code, dropping",
				zap.String("order", o.Number),
				zap.String("code", cl.Code),
			)
			continue
		}
		req.CouponLines = append(req.CouponLines, target.CouponLineRequest{Code: cl.Code})
	}

	// Shipping, fee and tax lines need no id mapping and carry through
	// verbatim.
	for _, sl := range o.ShippingLines {
		req.ShippingLines = append(req.ShippingLines, target.ShippingLineRequest{
			MethodID:    sl.MethodID,
			MethodTitle: sl.MethodTitle,
			Total:       sl.Total,
		})
	}
	for _, fl := range o.FeeLines {
		req.FeeLines = append(req.FeeLines, target.FeeLineRequest{
			Name:      fl.Name,
			Total:     fl.Total,
			TaxStatus: fl.TaxStatus,
		})
	}
	for _, tl := range o.TaxLines {
		req.TaxLines = append(req.TaxLines, target.TaxLineRequest{
			RateCode: tl.RateCode,
			Label:    tl.Label,
			TaxTotal: tl.TaxTotal,
		})
	}
	return req
}

// findExisting locates an already replicated order by its number first and
// its order key second.
func (r *OrderReconciler) findExisting(ctx context.Context, o *snapshot.Order) (*target.Order, error) {
	if o.Number != "" {
		orders, err := r.api.SearchOrders(ctx, o.Number)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if orders[i].Number == o.Number {
				return &orders[i], nil
			}
		}
	}
	if o.OrderKey != "" {
		orders, err := r.api.SearchOrders(ctx, o.OrderKey)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if orders[i].OrderKey == o.OrderKey {
				return &orders[i], nil
			}
		}
	}
	return nil, nil
}
