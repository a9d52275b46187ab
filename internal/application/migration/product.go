package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// ProductReconciler upserts each snapshot product into the target store,
// resolving taxonomy references through the taxonomy map and local images
// through the media uploader, and recording every persisted product in the
// product identity map.
type ProductReconciler struct {
	api      ProductAPI
	media    *MediaUploader
	taxMap   *replication.TaxonomyMap
	products *replication.IdentityMap
	log      *zap.Logger
	progress replication.ProgressFunc

	stats Stats
}

// NewProductReconciler creates a product reconciler writing into products.
func NewProductReconciler(api ProductAPI, media *MediaUploader, taxMap *replication.TaxonomyMap, products *replication.IdentityMap, log *zap.Logger, progress replication.ProgressFunc) *ProductReconciler {
	return &ProductReconciler{
		api:      api,
		media:    media,
		taxMap:   taxMap,
		products: products,
		log:      log,
		progress: progress,
	}
}

// Stats returns the outcome counts of the reconciliation so far.
func (r *ProductReconciler) Stats() Stats {
	return r.stats
}

// ReconcileAll processes every product sequentially, checking for
// cancellation before each one.
func (r *ProductReconciler) ReconcileAll(ctx context.Context, products []snapshot.Product) error {
	for i := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.reconcile(ctx, &products[i]); err != nil {
			return fmt.Errorf("product %q: %w", products[i].Name, err)
		}
	}
	return nil
}

func (r *ProductReconciler) reconcile(ctx context.Context, p *snapshot.Product) error {
	existing, err := r.findExisting(ctx, p)
	if err != nil {
		return err
	}

	req := r.buildRequest(ctx, p)

	var saved *target.Product
	if existing != nil {
		saved, err = r.api.UpdateProduct(ctx, existing.ID, req)
		if err != nil {
			return err
		}
		r.stats.Updated++
		r.progress.Emit("product %s updated (#%d)", displayName(p.Name, p.SKU), saved.ID)
	} else {
		saved, err = r.api.CreateProduct(ctx, req)
		if err != nil {
			return err
		}
		r.stats.Created++
		r.progress.Emit("product %s created (#%d)", displayName(p.Name, p.SKU), saved.ID)
	}

	r.products.Put(p.ID, saved.ID)
	return nil
}

// findExisting matches by exact SKU when the product carries one, and by
// normalized slug otherwise. A SKU takes priority over the slug: a product
// with a matching SKU is an update even when its slug differs.
func (r *ProductReconciler) findExisting(ctx context.Context, p *snapshot.Product) (*target.Product, error) {
	if p.SKU != "" {
		return r.api.FindProductBySKU(ctx, p.SKU)
	}
	slug := replication.NaturalKey(p.Slug)
	if slug == "" {
		slug = replication.NaturalKey(p.Name)
	}
	if slug == "" {
		return nil, nil
	}
	return r.api.FindProductBySlug(ctx, slug)
}

func (r *ProductReconciler) buildRequest(ctx context.Context, p *snapshot.Product) target.ProductRequest {
	req := target.ProductRequest{
		Name:             p.Name,
		Slug:             replication.NaturalKey(p.Slug),
		Type:             p.Type,
		SKU:              p.SKU,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		RegularPrice:     resolvePrice(p.Prices),
		SalePrice:        resolveAmount(p.Prices.SalePrice, p.Prices.CurrencyMinorUnit),
		StockStatus:      resolveStockStatus(p),
		Categories:       r.resolveTerms(replication.TaxonomyCategories, p.Categories),
		Tags:             r.resolveTerms(replication.TaxonomyTags, p.Tags),
		Attributes:       r.resolveAttributes(p.Attributes),
		Images:           r.resolveImages(ctx, p),
	}
	if p.StockQuantity != nil {
		manage := true
		req.ManageStock = &manage
		req.StockQuantity = p.StockQuantity
	}
	return req
}

// resolvePrice picks the first non-blank of regular price, price and sale
// price, then normalizes it through the minor-unit rule.
func resolvePrice(prices snapshot.Prices) string {
	for _, candidate := range []string{prices.RegularPrice, prices.Price, prices.SalePrice} {
		if strings.TrimSpace(candidate) != "" {
			return resolveAmount(candidate, prices.CurrencyMinorUnit)
		}
	}
	return ""
}

// resolveAmount converts a captured amount to its outgoing decimal form.
// A purely numeric string combined with a positive currency minor unit is
// a minor-unit integer ("1999" with unit 2 means 19.99); anything else is
// parsed as a literal decimal, and an unparsable string passes through
// unchanged rather than silently dropping the price.
func resolveAmount(raw string, minorUnit int) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if minorUnit > 0 && isAllDigits(s) {
		n, err := decimal.NewFromString(s)
		if err == nil {
			return n.Shift(int32(-minorUnit)).String()
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.String()
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// resolveStockStatus prefers the explicit status string, falls back to the
// boolean in-stock flag, and omits the field entirely when neither exists.
func resolveStockStatus(p *snapshot.Product) string {
	if p.StockStatus != "" {
		return p.StockStatus
	}
	if p.InStock != nil {
		if *p.InStock {
			return "instock"
		}
		return "outofstock"
	}
	return ""
}

// resolveTerms maps each category/tag reference through the taxonomy map
// by its recomputed natural key. References with no resolved target id are
// dropped silently, never emitted as placeholders.
func (r *ProductReconciler) resolveTerms(namespace replication.TaxonomyResource, refs []snapshot.TermRef) []target.TermID {
	var out []target.TermID
	for _, ref := range refs {
		key := replication.NaturalKey(ref.Slug)
		if key == "" {
			key = replication.NaturalKey(ref.Name)
		}
		if key == "" {
			continue
		}
		if id, ok := r.taxMap.Lookup(namespace, key); ok {
			out = append(out, target.TermID{ID: id})
		}
	}
	return out
}

// resolveAttributes groups the product's attribute values by attribute
// key, keeps only keys resolved in the attribute map, de-duplicates values
// case-insensitively preserving first-seen order, and drops groups that
// end up with zero options.
func (r *ProductReconciler) resolveAttributes(attrs []snapshot.AttributeValue) []target.ProductAttribute {
	type group struct {
		id      int64
		options []string
		seen    map[string]struct{}
	}
	var order []string
	groups := make(map[string]*group)

	for _, attr := range attrs {
		key := replication.AttributeSeedKey(attr)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			id, resolved := r.taxMap.Lookup(replication.TaxonomyAttributes, key)
			if !resolved {
				continue
			}
			g = &group{id: id, seen: make(map[string]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		value := strings.TrimSpace(replication.AttributeTermValue(attr))
		if value == "" {
			continue
		}
		folded := strings.ToLower(value)
		if _, dup := g.seen[folded]; dup {
			continue
		}
		g.seen[folded] = struct{}{}
		g.options = append(g.options, value)
	}

	var out []target.ProductAttribute
	for _, key := range order {
		g := groups[key]
		if len(g.options) == 0 {
			continue
		}
		out = append(out, target.ProductAttribute{ID: g.id, Visible: true, Options: g.options})
	}
	return out
}

// resolveImages uploads locally captured files and references them by
// media id; only a product with no local files at all falls back to the
// remote image URLs. A missing or failed upload is skipped, not fatal.
func (r *ProductReconciler) resolveImages(ctx context.Context, p *snapshot.Product) []target.ImageRequest {
	if len(p.LocalImages) > 0 {
		var out []target.ImageRequest
		for _, path := range p.LocalImages {
			if id, ok := r.media.Upload(ctx, path); ok {
				out = append(out, target.ImageRequest{ID: id})
			}
		}
		return out
	}
	var out []target.ImageRequest
	for _, img := range p.Images {
		if img.Src == "" {
			continue
		}
		out = append(out, target.ImageRequest{Src: img.Src, Alt: img.Alt})
	}
	return out
}

// DeriveCategoryMap re-walks every product's declared categories and pairs
// each source category id with the target id already resolved through the
// taxonomy map. Coupons reference categories by numeric source id, and
// that correspondence is only discoverable via products carrying both the
// id and the slug.
func (r *ProductReconciler) DeriveCategoryMap(products []snapshot.Product) *replication.IdentityMap {
	m := replication.NewIdentityMap()
	for i := range products {
		for _, ref := range products[i].Categories {
			if ref.ID <= 0 {
				continue
			}
			key := replication.NaturalKey(ref.Slug)
			if key == "" {
				key = replication.NaturalKey(ref.Name)
			}
			if key == "" {
				continue
			}
			if id, ok := r.taxMap.Lookup(replication.TaxonomyCategories, key); ok {
				m.Put(ref.ID, id)
			}
		}
	}
	return m
}

func displayName(name, sku string) string {
	if sku != "" {
		return sku
	}
	if name != "" {
		return name
	}
	return "(unnamed)"
}
