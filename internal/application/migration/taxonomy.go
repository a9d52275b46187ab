package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// TaxonomyReconciler ensures every category, tag and product attribute
// observed in the snapshot exists on the target store, populating the
// shared taxonomy map as it goes. Taxonomies are reconciled before any
// product is touched: products reference them by id.
type TaxonomyReconciler struct {
	terms    TaxonomyAPI
	attrs    AttributeAPI
	taxMap   *replication.TaxonomyMap
	log      *zap.Logger
	progress replication.ProgressFunc

	stats Stats
}

// NewTaxonomyReconciler creates a taxonomy reconciler writing into taxMap.
func NewTaxonomyReconciler(terms TaxonomyAPI, attrs AttributeAPI, taxMap *replication.TaxonomyMap, log *zap.Logger, progress replication.ProgressFunc) *TaxonomyReconciler {
	return &TaxonomyReconciler{
		terms:    terms,
		attrs:    attrs,
		taxMap:   taxMap,
		log:      log,
		progress: progress,
	}
}

// Stats returns the outcome counts of the reconciliation so far.
func (r *TaxonomyReconciler) Stats() Stats {
	return r.stats
}

// EnsureTaxonomies resolves every category and tag seed to a target id.
func (r *TaxonomyReconciler) EnsureTaxonomies(ctx context.Context, categories, tags []replication.TaxonomySeed) error {
	for _, seed := range categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.ensureTerm(ctx, target.TermCategories, replication.TaxonomyCategories, seed); err != nil {
			return fmt.Errorf("category %q: %w", seed.Key, err)
		}
	}
	for _, seed := range tags {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.ensureTerm(ctx, target.TermTags, replication.TaxonomyTags, seed); err != nil {
			return fmt.Errorf("tag %q: %w", seed.Key, err)
		}
	}
	return nil
}

// ensureTerm searches the target by exact slug and creates the term when
// absent. A 400/409 on the create is treated as a naming race with an
// identically slugged entity: the search runs once more, and only if the
// term still cannot be found does the original error propagate.
func (r *TaxonomyReconciler) ensureTerm(ctx context.Context, resource target.TermResource, namespace replication.TaxonomyResource, seed replication.TaxonomySeed) error {
	existing, err := r.terms.FindTermBySlug(ctx, resource, seed.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		r.taxMap.Put(namespace, seed.Key, existing.ID)
		r.stats.Existing++
		r.progress.Emit("%s %s already exists (#%d)", namespace, seed.Key, existing.ID)
		return nil
	}

	created, createErr := r.terms.CreateTerm(ctx, resource, target.TermRequest{Name: seed.Name, Slug: seed.Slug})
	if createErr == nil {
		r.taxMap.Put(namespace, seed.Key, created.ID)
		r.stats.Created++
		r.progress.Emit("%s %s created (#%d)", namespace, seed.Key, created.ID)
		return nil
	}
	if !target.IsConflict(createErr) {
		return createErr
	}

	r.log.Debug("term create conflicted, re-running lookup",
		zap.String("resource", string(resource)),
		zap.String("slug", seed.Slug),
	)
	raced, err := r.terms.FindTermBySlug(ctx, resource, seed.Slug)
	if err != nil {
		return err
	}
	if raced == nil {
		return createErr
	}
	r.taxMap.Put(namespace, seed.Key, raced.ID)
	r.stats.Existing++
	r.progress.Emit("%s %s already exists (#%d)", namespace, seed.Key, raced.ID)
	return nil
}

// EnsureAttributes resolves every attribute seed to a target attribute
// definition and upserts its observed term values underneath it.
func (r *TaxonomyReconciler) EnsureAttributes(ctx context.Context, seeds []replication.AttributeSeed) error {
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return err
		}
		attrID, err := r.ensureAttribute(ctx, seed)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", seed.Key, err)
		}
		if err := r.ensureAttributeTerms(ctx, attrID, seed); err != nil {
			return fmt.Errorf("attribute %q terms: %w", seed.Key, err)
		}
	}
	return nil
}

func (r *TaxonomyReconciler) ensureAttribute(ctx context.Context, seed replication.AttributeSeed) (int64, error) {
	existing, err := r.attrs.FindAttributeBySlug(ctx, seed.Slug)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		r.taxMap.Put(replication.TaxonomyAttributes, seed.Key, existing.ID)
		r.stats.Existing++
		r.progress.Emit("attribute %s already exists (#%d)", seed.Key, existing.ID)
		return existing.ID, nil
	}

	created, createErr := r.attrs.CreateAttribute(ctx, target.AttributeRequest{
		Name: seed.Name,
		Slug: seed.Slug,
		Type: "select",
	})
	if createErr == nil {
		r.taxMap.Put(replication.TaxonomyAttributes, seed.Key, created.ID)
		r.stats.Created++
		r.progress.Emit("attribute %s created (#%d)", seed.Key, created.ID)
		return created.ID, nil
	}
	if !target.IsConflict(createErr) {
		return 0, createErr
	}

	raced, err := r.attrs.FindAttributeBySlug(ctx, seed.Slug)
	if err != nil {
		return 0, err
	}
	if raced == nil {
		return 0, createErr
	}
	r.taxMap.Put(replication.TaxonomyAttributes, seed.Key, raced.ID)
	r.stats.Existing++
	r.progress.Emit("attribute %s already exists (#%d)", seed.Key, raced.ID)
	return raced.ID, nil
}

// ensureAttributeTerms upserts each distinct observed value as a child
// term. Create conflicts mean the term is already there; the ids are not
// consumed by any identity map, so no re-fetch is needed.
func (r *TaxonomyReconciler) ensureAttributeTerms(ctx context.Context, attributeID int64, seed replication.AttributeSeed) error {
	for _, value := range seed.Terms {
		_, err := r.attrs.CreateAttributeTerm(ctx, attributeID, target.TermRequest{Name: value})
		if err == nil {
			continue
		}
		if target.IsConflict(err) {
			r.log.Debug("attribute term already exists",
				zap.Int64("attribute_id", attributeID),
				zap.String("value", value),
			)
			continue
		}
		return err
	}
	return nil
}
