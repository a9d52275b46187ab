package migration

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// CustomerReconciler upserts snapshot customers, matching by email first
// and username second, and populates the customer identity map.
type CustomerReconciler struct {
	api       CustomerAPI
	customers *replication.IdentityMap
	log       *zap.Logger
	progress  replication.ProgressFunc

	stats Stats
}

// NewCustomerReconciler creates a customer reconciler writing into customers.
func NewCustomerReconciler(api CustomerAPI, customers *replication.IdentityMap, log *zap.Logger, progress replication.ProgressFunc) *CustomerReconciler {
	return &CustomerReconciler{
		api:       api,
		customers: customers,
		log:       log,
		progress:  progress,
	}
}

// Stats returns the outcome counts of the reconciliation so far.
func (r *CustomerReconciler) Stats() Stats {
	return r.stats
}

// ReconcileAll processes every customer sequentially, checking for
// cancellation before each one.
func (r *CustomerReconciler) ReconcileAll(ctx context.Context, customers []snapshot.Customer) error {
	for i := range customers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.reconcile(ctx, &customers[i]); err != nil {
			return fmt.Errorf("customer %q: %w", customers[i].Email, err)
		}
	}
	return nil
}

func (r *CustomerReconciler) reconcile(ctx context.Context, c *snapshot.Customer) error {
	req, ok := buildCustomerRequest(c)
	if !ok {
		r.log.Info("customer has no importable fields, skipping", zap.Int64("source_id", c.ID))
		r.stats.Skipped++
		r.progress.Emit("customer #%d skipped: nothing to import", c.ID)
		return nil
	}

	existing, err := r.findExisting(ctx, c)
	if err != nil {
		return err
	}
	if existing != nil {
		updated, err := r.api.UpdateCustomer(ctx, existing.ID, req)
		if err != nil {
			return err
		}
		r.customers.Put(c.ID, updated.ID)
		r.stats.Updated++
		r.progress.Emit("customer %s updated (#%d)", displayName(c.Email, c.Username), updated.ID)
		return nil
	}

	created, createErr := r.api.CreateCustomer(ctx, req)
	if createErr == nil {
		r.customers.Put(c.ID, created.ID)
		r.stats.Created++
		r.progress.Emit("customer %s created (#%d)", displayName(c.Email, c.Username), created.ID)
		return nil
	}
	if !target.IsConflict(createErr) {
		return createErr
	}

	// The create collided with an account that holds the same email or
	// username. Re-run the lookup once and update instead of failing.
	raced, err := r.findExisting(ctx, c)
	if err != nil {
		return err
	}
	if raced == nil {
		return createErr
	}
	updated, err := r.api.UpdateCustomer(ctx, raced.ID, req)
	if err != nil {
		return err
	}
	r.customers.Put(c.ID, updated.ID)
	r.stats.Updated++
	r.progress.Emit("customer %s updated after create conflict (#%d)", displayName(c.Email, c.Username), updated.ID)
	return nil
}

// findExisting matches by exact email when present, otherwise by username
// equality (preferred) or substring among the search results.
func (r *CustomerReconciler) findExisting(ctx context.Context, c *snapshot.Customer) (*target.Customer, error) {
	if c.Email != "" {
		found, err := r.api.FindCustomerByEmail(ctx, c.Email)
		if err != nil || found != nil {
			return found, err
		}
	}
	if c.Username == "" {
		return nil, nil
	}
	candidates, err := r.api.SearchCustomers(ctx, c.Username)
	if err != nil {
		return nil, err
	}
	var partial *target.Customer
	for i := range candidates {
		if candidates[i].Username == c.Username {
			return &candidates[i], nil
		}
		if partial == nil && strings.Contains(candidates[i].Username, c.Username) {
			partial = &candidates[i]
		}
	}
	return partial, nil
}

// buildCustomerRequest assembles the payload from non-blank fields only.
// ok is false when the customer carries nothing importable.
func buildCustomerRequest(c *snapshot.Customer) (target.CustomerRequest, bool) {
	req := target.CustomerRequest{
		Email:     c.Email,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Billing:   addressRequest(c.Billing),
		Shipping:  addressRequest(c.Shipping),
		MetaData:  metaData(c.MetaData),
	}
	empty := req.Email == "" && req.Username == "" && req.FirstName == "" && req.LastName == "" &&
		req.Billing == nil && req.Shipping == nil && len(req.MetaData) == 0
	return req, !empty
}

// addressRequest converts an address block, dropping it when every field
// is blank.
func addressRequest(a *snapshot.Address) *target.AddressRequest {
	if a.IsEmpty() {
		return nil
	}
	return &target.AddressRequest{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func metaData(entries []snapshot.MetaEntry) []target.MetaData {
	if len(entries) == 0 {
		return nil
	}
	out := make([]target.MetaData, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		out = append(out, target.MetaData{Key: e.Key, Value: e.Value})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
