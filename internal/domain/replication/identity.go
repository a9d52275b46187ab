package replication

// IdentityMap translates a source store's numeric ids into the target
// store's ids for one entity kind. Entries are added only after a
// successful persistence on the target; absence always means "no
// correspondence", never zero.
type IdentityMap struct {
	ids map[int64]int64
}

// NewIdentityMap creates an empty identity map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{ids: make(map[int64]int64)}
}

// Put records the target id for a source id. Non-positive source ids are
// ignored: they identify nothing in the source store.
func (m *IdentityMap) Put(sourceID, targetID int64) {
	if sourceID <= 0 {
		return
	}
	m.ids[sourceID] = targetID
}

// Lookup returns the target id for a source id.
func (m *IdentityMap) Lookup(sourceID int64) (int64, bool) {
	id, ok := m.ids[sourceID]
	return id, ok
}

// Len returns the number of established correspondences.
func (m *IdentityMap) Len() int {
	return len(m.ids)
}

// TaxonomyResource distinguishes the taxonomy namespaces sharing one
// taxonomy map. Resource is part of the key, so an identically slugged
// category and tag never collide.
type TaxonomyResource string

const (
	// TaxonomyCategories is the product category namespace.
	TaxonomyCategories TaxonomyResource = "category"
	// TaxonomyTags is the product tag namespace.
	TaxonomyTags TaxonomyResource = "tag"
	// TaxonomyAttributes is the product attribute definition namespace.
	TaxonomyAttributes TaxonomyResource = "attribute"
)

type taxonomyKey struct {
	resource TaxonomyResource
	slug     string
}

// TaxonomyMap maps {resource, normalized slug} to the target taxonomy id.
// It is shared across categories, tags and attributes.
type TaxonomyMap struct {
	ids map[taxonomyKey]int64
}

// NewTaxonomyMap creates an empty taxonomy map.
func NewTaxonomyMap() *TaxonomyMap {
	return &TaxonomyMap{ids: make(map[taxonomyKey]int64)}
}

// Put records the target id for a normalized slug within a resource.
func (m *TaxonomyMap) Put(resource TaxonomyResource, slug string, targetID int64) {
	if slug == "" {
		return
	}
	m.ids[taxonomyKey{resource: resource, slug: slug}] = targetID
}

// Lookup returns the target id for a normalized slug within a resource.
func (m *TaxonomyMap) Lookup(resource TaxonomyResource, slug string) (int64, bool) {
	id, ok := m.ids[taxonomyKey{resource: resource, slug: slug}]
	return id, ok
}

// Len returns the number of resolved taxonomy entries.
func (m *TaxonomyMap) Len() int {
	return len(m.ids)
}
