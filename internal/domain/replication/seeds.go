package replication

import (
	"strings"

	"github.com/storesync/migrator/internal/domain/snapshot"
)

// TaxonomySeed is one distinct category or tag observed across the whole
// product scan. Key is the normalized slug (falling back to the normalized
// name); the first-seen display name wins.
type TaxonomySeed struct {
	Key  string
	Name string
	Slug string
}

// AttributeSeed is one distinct product attribute observed across the whole
// product scan, together with every distinct textual value seen for it.
type AttributeSeed struct {
	Key   string
	Name  string
	Slug  string
	Terms []string

	seen map[string]struct{}
}

// addTerm records a value in the seed's term set, de-duplicating
// case-insensitively while preserving first-seen order and casing.
func (s *AttributeSeed) addTerm(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	folded := strings.ToLower(value)
	if _, ok := s.seen[folded]; ok {
		return
	}
	s.seen[folded] = struct{}{}
	s.Terms = append(s.Terms, value)
}

// CollectTaxonomySeeds scans every product's categories and tags and
// returns the distinct seeds for each namespace in first-seen order.
// The scan is pure: no I/O happens until the seeds are reconciled.
func CollectTaxonomySeeds(products []snapshot.Product) (categories, tags []TaxonomySeed) {
	categories = collectTermSeeds(products, func(p snapshot.Product) []snapshot.TermRef { return p.Categories })
	tags = collectTermSeeds(products, func(p snapshot.Product) []snapshot.TermRef { return p.Tags })
	return categories, tags
}

func collectTermSeeds(products []snapshot.Product, refs func(snapshot.Product) []snapshot.TermRef) []TaxonomySeed {
	var seeds []TaxonomySeed
	index := make(map[string]struct{})
	for _, p := range products {
		for _, ref := range refs(p) {
			key := NaturalKey(ref.Slug)
			if key == "" {
				key = NaturalKey(ref.Name)
			}
			if key == "" {
				continue
			}
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = struct{}{}
			seeds = append(seeds, TaxonomySeed{
				Key:  key,
				Name: ref.Name,
				Slug: key,
			})
		}
	}
	return seeds
}

// AttributeSeedKey derives the stable key for a product attribute value:
// an already-namespaced attribute or taxonomy identifier when present,
// otherwise the normalized display name.
func AttributeSeedKey(a snapshot.AttributeValue) string {
	if a.Taxonomy != "" {
		return a.Taxonomy
	}
	if a.AttributeKey != "" {
		return a.AttributeKey
	}
	return NaturalKey(a.Name)
}

// AttributeTermValue resolves the textual value of a product attribute by
// priority: explicit option, explicit value, term, slug.
func AttributeTermValue(a snapshot.AttributeValue) string {
	for _, candidate := range []string{a.Option, a.Value, a.Term, a.Slug} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// CollectAttributeSeeds scans every product's attributes and returns one
// seed per distinct attribute key, accumulating every distinct observed
// value into the seed's term set.
func CollectAttributeSeeds(products []snapshot.Product) []AttributeSeed {
	var seeds []AttributeSeed
	index := make(map[string]int)
	for _, p := range products {
		for _, attr := range p.Attributes {
			key := AttributeSeedKey(attr)
			if key == "" {
				continue
			}
			i, ok := index[key]
			if !ok {
				i = len(seeds)
				index[key] = i
				seeds = append(seeds, AttributeSeed{
					Key:  key,
					Name: attr.Name,
					Slug: key,
					seen: make(map[string]struct{}),
				})
			}
			if value := AttributeTermValue(attr); value != "" {
				seeds[i].addTerm(value)
			}
		}
	}
	return seeds
}
