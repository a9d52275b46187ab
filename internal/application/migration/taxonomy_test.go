package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

func TestEnsureTaxonomiesCreatesMissingTerms(t *testing.T) {
	var created []target.TermRequest
	api := &stubAPI{
		createTerm: func(resource target.TermResource, req target.TermRequest) (*target.Term, error) {
			created = append(created, req)
			return &target.Term{ID: int64(len(created)), Name: req.Name, Slug: req.Slug}, nil
		},
	}
	taxMap := replication.NewTaxonomyMap()
	r := NewTaxonomyReconciler(api, api, taxMap, zap.NewNop(), nil)

	err := r.EnsureTaxonomies(context.Background(),
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}},
		[]replication.TaxonomySeed{{Key: "summer", Name: "Summer", Slug: "summer"}},
	)
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, "Shoes", created[0].Name)
	assert.Equal(t, "Summer", created[1].Name)

	id, ok := taxMap.Lookup(replication.TaxonomyCategories, "shoes")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	_, ok = taxMap.Lookup(replication.TaxonomyTags, "summer")
	assert.True(t, ok)

	assert.Equal(t, 2, r.Stats().Created)
}

func TestEnsureTaxonomiesReusesExistingTerm(t *testing.T) {
	api := &stubAPI{
		findTermBySlug: func(resource target.TermResource, slug string) (*target.Term, error) {
			return &target.Term{ID: 77, Slug: slug}, nil
		},
		createTerm: func(resource target.TermResource, req target.TermRequest) (*target.Term, error) {
			t.Fatal("no create expected when the term exists")
			return nil, nil
		},
	}
	taxMap := replication.NewTaxonomyMap()
	r := NewTaxonomyReconciler(api, api, taxMap, zap.NewNop(), nil)

	err := r.EnsureTaxonomies(context.Background(),
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}}, nil)
	require.NoError(t, err)

	id, _ := taxMap.Lookup(replication.TaxonomyCategories, "shoes")
	assert.Equal(t, int64(77), id)
	assert.Equal(t, 1, r.Stats().Existing)
}

func TestEnsureTaxonomiesCreateConflictRecovers(t *testing.T) {
	lookups := 0
	api := &stubAPI{
		findTermBySlug: func(resource target.TermResource, slug string) (*target.Term, error) {
			lookups++
			if lookups == 1 {
				// First lookup misses; the create then collides with an
				// identically slugged term.
				return nil, nil
			}
			return &target.Term{ID: 42, Slug: slug}, nil
		},
		createTerm: func(resource target.TermResource, req target.TermRequest) (*target.Term, error) {
			return nil, conflictErr()
		},
	}
	taxMap := replication.NewTaxonomyMap()
	r := NewTaxonomyReconciler(api, api, taxMap, zap.NewNop(), nil)

	err := r.EnsureTaxonomies(context.Background(),
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, lookups)
	id, _ := taxMap.Lookup(replication.TaxonomyCategories, "shoes")
	assert.Equal(t, int64(42), id)
}

func TestEnsureTaxonomiesUnresolvedConflictAborts(t *testing.T) {
	api := &stubAPI{
		createTerm: func(resource target.TermResource, req target.TermRequest) (*target.Term, error) {
			return nil, conflictErr()
		},
	}
	r := NewTaxonomyReconciler(api, api, replication.NewTaxonomyMap(), zap.NewNop(), nil)

	err := r.EnsureTaxonomies(context.Background(),
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}}, nil)
	require.Error(t, err)
	assert.True(t, target.IsConflict(err))
}

func TestEnsureTaxonomiesNonConflictErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	api := &stubAPI{
		createTerm: func(resource target.TermResource, req target.TermRequest) (*target.Term, error) {
			return nil, boom
		},
	}
	r := NewTaxonomyReconciler(api, api, replication.NewTaxonomyMap(), zap.NewNop(), nil)

	err := r.EnsureTaxonomies(context.Background(),
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestEnsureAttributesCreatesDefinitionAndTerms(t *testing.T) {
	var termNames []string
	api := &stubAPI{
		createAttribute: func(req target.AttributeRequest) (*target.Attribute, error) {
			assert.Equal(t, "select", req.Type)
			return &target.Attribute{ID: 9, Name: req.Name, Slug: req.Slug}, nil
		},
		createAttributeTerm: func(attributeID int64, req target.TermRequest) (*target.Term, error) {
			assert.Equal(t, int64(9), attributeID)
			termNames = append(termNames, req.Name)
			return &target.Term{ID: 1, Name: req.Name}, nil
		},
	}
	taxMap := replication.NewTaxonomyMap()
	r := NewTaxonomyReconciler(api, api, taxMap, zap.NewNop(), nil)

	seed := replication.AttributeSeed{Key: "pa_color", Name: "Color", Slug: "pa_color", Terms: []string{"Red", "Blue"}}
	require.NoError(t, r.EnsureAttributes(context.Background(), []replication.AttributeSeed{seed}))

	assert.Equal(t, []string{"Red", "Blue"}, termNames)
	id, ok := taxMap.Lookup(replication.TaxonomyAttributes, "pa_color")
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}

func TestEnsureAttributesTermConflictTolerated(t *testing.T) {
	// Attribute term ids are never consumed downstream, so an existing term
	// needs no re-fetch; the conflict is simply skipped.
	created := 0
	api := &stubAPI{
		findAttributeBySlug: func(slug string) (*target.Attribute, error) {
			return &target.Attribute{ID: 9, Slug: slug}, nil
		},
		createAttributeTerm: func(attributeID int64, req target.TermRequest) (*target.Term, error) {
			created++
			if req.Name == "Red" {
				return nil, conflictErr()
			}
			return &target.Term{ID: 1, Name: req.Name}, nil
		},
	}
	r := NewTaxonomyReconciler(api, api, replication.NewTaxonomyMap(), zap.NewNop(), nil)

	seed := replication.AttributeSeed{Key: "pa_color", Name: "Color", Slug: "pa_color", Terms: []string{"Red", "Blue"}}
	require.NoError(t, r.EnsureAttributes(context.Background(), []replication.AttributeSeed{seed}))
	assert.Equal(t, 2, created)
}

func TestEnsureTaxonomiesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &stubAPI{}
	r := NewTaxonomyReconciler(api, api, replication.NewTaxonomyMap(), zap.NewNop(), nil)

	err := r.EnsureTaxonomies(ctx,
		[]replication.TaxonomySeed{{Key: "shoes", Name: "Shoes", Slug: "shoes"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, api.calls)
}
