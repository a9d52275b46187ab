package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// CouponReconciler upserts snapshot coupons, remapping their product and
// category restriction lists through the identity maps built by the
// product pass. Any referenced id with no target correspondence is
// dropped from the payload, never sent as a placeholder.
type CouponReconciler struct {
	api        CouponAPI
	products   *replication.IdentityMap
	categories *replication.IdentityMap
	coupons    *replication.IdentityMap
	codeIDs    map[string]int64
	log        *zap.Logger
	progress   replication.ProgressFunc

	stats Stats
}

// NewCouponReconciler creates a coupon reconciler consuming the product
// and derived category identity maps.
func NewCouponReconciler(api CouponAPI, products, categories *replication.IdentityMap, log *zap.Logger, progress replication.ProgressFunc) *CouponReconciler {
	return &CouponReconciler{
		api:        api,
		products:   products,
		categories: categories,
		coupons:    replication.NewIdentityMap(),
		codeIDs:    make(map[string]int64),
		log:        log,
		progress:   progress,
	}
}

// Stats returns the outcome counts of the reconciliation so far.
func (r *CouponReconciler) Stats() Stats {
	return r.stats
}

// IdentityMap returns the coupon source-id to target-id map.
func (r *CouponReconciler) IdentityMap() *replication.IdentityMap {
	return r.coupons
}

// CodeMap returns the coupon code to target-id map. Orders reference
// coupons by code, not id.
func (r *CouponReconciler) CodeMap() map[string]int64 {
	return r.codeIDs
}

// ReconcileAll processes every coupon sequentially, checking for
// cancellation before each one.
func (r *CouponReconciler) ReconcileAll(ctx context.Context, coupons []snapshot.Coupon) error {
	for i := range coupons {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.reconcile(ctx, &coupons[i]); err != nil {
			return fmt.Errorf("coupon %q: %w", coupons[i].Code, err)
		}
	}
	return nil
}

func (r *CouponReconciler) reconcile(ctx context.Context, c *snapshot.Coupon) error {
	if c.Code == "" {
		r.log.Info("coupon has no code, skipping", zap.Int64("source_id", c.ID))
		r.stats.Skipped++
		r.progress.Emit("coupon #%d skipped: no code", c.ID)
		return nil
	}

	req := r.buildRequest(c)

	existing, err := r.api.FindCouponByCode(ctx, c.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		updated, err := r.api.UpdateCoupon(ctx, existing.ID, req)
		if err != nil {
			return err
		}
		r.record(c, updated.ID)
		r.stats.Updated++
		r.progress.Emit("coupon %s updated (#%d)", c.Code, updated.ID)
		return nil
	}

	created, createErr := r.api.CreateCoupon(ctx, req)
	if createErr == nil {
		r.record(c, created.ID)
		r.stats.Created++
		r.progress.Emit("coupon %s created (#%d)", c.Code, created.ID)
		return nil
	}
	if !target.IsConflict(createErr) {
		return createErr
	}

	raced, err := r.api.FindCouponByCode(ctx, c.Code)
	if err != nil {
		return err
	}
	if raced == nil {
		return createErr
	}
	updated, err := r.api.UpdateCoupon(ctx, raced.ID, req)
	if err != nil {
		return err
	}
	r.record(c, updated.ID)
	r.stats.Updated++
	r.progress.Emit("coupon %s updated after create conflict (#%d)", c.Code, updated.ID)
	return nil
}

func (r *CouponReconciler) record(c *snapshot.Coupon, targetID int64) {
	r.coupons.Put(c.ID, targetID)
	r.codeIDs[c.Code] = targetID
}

func (r *CouponReconciler) buildRequest(c *snapshot.Coupon) target.CouponRequest {
	return target.CouponRequest{
		Code:                      c.Code,
		Amount:                    c.Amount,
		DiscountType:              c.DiscountType,
		Description:               c.Description,
		DateExpires:               c.DateExpires,
		IndividualUse:             c.IndividualUse,
		FreeShipping:              c.FreeShipping,
		ExcludeSaleItems:          c.ExcludeSaleItems,
		MinimumAmount:             c.MinimumAmount,
		MaximumAmount:             c.MaximumAmount,
		UsageLimit:                c.UsageLimit,
		UsageLimitPerUser:         c.UsageLimitPerUser,
		ProductIDs:                remapIDs(r.products, c.ProductIDs),
		ExcludedProductIDs:        remapIDs(r.products, c.ExcludedProductIDs),
		ProductCategories:         remapIDs(r.categories, c.ProductCategories),
		ExcludedProductCategories: remapIDs(r.categories, c.ExcludedProductCategories),
		EmailRestrictions:         c.EmailRestrictions,
		MetaData:                  metaData(c.MetaData),
	}
}

// remapIDs translates a source id list through an identity map, dropping
// every id with no established correspondence.
func remapIDs(m *replication.IdentityMap, ids []int64) []int64 {
	var out []int64
	for _, id := range ids {
		if mapped, ok := m.Lookup(id); ok {
			out = append(out, mapped)
		}
	}
	return out
}
