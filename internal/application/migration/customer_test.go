package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

func TestCustomerMatchByEmailUpdates(t *testing.T) {
	var updatedID int64
	api := &stubAPI{
		findCustomerByEmail: func(email string) (*target.Customer, error) {
			assert.Equal(t, "a@example.com", email)
			return &target.Customer{ID: 55, Email: email}, nil
		},
		updateCustomer: func(id int64, req target.CustomerRequest) (*target.Customer, error) {
			updatedID = id
			return &target.Customer{ID: id}, nil
		},
	}
	customers := replication.NewIdentityMap()
	r := NewCustomerReconciler(api, customers, zap.NewNop(), nil)

	err := r.ReconcileAll(context.Background(), []snapshot.Customer{
		{ID: 2, Email: "a@example.com", FirstName: "Ana"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(55), updatedID)
	id, ok := customers.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, int64(55), id)
	assert.Equal(t, 1, r.Stats().Updated)
}

func TestCustomerMatchByUsernameSearch(t *testing.T) {
	t.Run("exact username preferred over substring", func(t *testing.T) {
		var updatedID int64
		api := &stubAPI{
			searchCustomers: func(term string) ([]target.Customer, error) {
				return []target.Customer{
					{ID: 1, Username: "jdoe2024"},
					{ID: 2, Username: "jdoe"},
				}, nil
			},
			updateCustomer: func(id int64, req target.CustomerRequest) (*target.Customer, error) {
				updatedID = id
				return &target.Customer{ID: id}, nil
			},
		}
		r := NewCustomerReconciler(api, replication.NewIdentityMap(), zap.NewNop(), nil)

		err := r.ReconcileAll(context.Background(), []snapshot.Customer{{ID: 2, Username: "jdoe"}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updatedID)
	})

	t.Run("substring match accepted when no exact hit", func(t *testing.T) {
		var updatedID int64
		api := &stubAPI{
			searchCustomers: func(term string) ([]target.Customer, error) {
				return []target.Customer{{ID: 3, Username: "jdoe2024"}}, nil
			},
			updateCustomer: func(id int64, req target.CustomerRequest) (*target.Customer, error) {
				updatedID = id
				return &target.Customer{ID: id}, nil
			},
		}
		r := NewCustomerReconciler(api, replication.NewIdentityMap(), zap.NewNop(), nil)

		err := r.ReconcileAll(context.Background(), []snapshot.Customer{{ID: 2, Username: "jdoe"}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), updatedID)
	})
}

func TestCustomerCreateWhenNoMatch(t *testing.T) {
	var created target.CustomerRequest
	api := &stubAPI{
		createCustomer: func(req target.CustomerRequest) (*target.Customer, error) {
			created = req
			return &target.Customer{ID: 90, Email: req.Email}, nil
		},
	}
	customers := replication.NewIdentityMap()
	r := NewCustomerReconciler(api, customers, zap.NewNop(), nil)

	err := r.ReconcileAll(context.Background(), []snapshot.Customer{{
		ID:        4,
		Email:     "new@example.com",
		FirstName: "New",
		Billing:   &snapshot.Address{City: "Lisbon"},
		Shipping:  &snapshot.Address{}, // all blank, must drop
	}})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", created.Email)
	require.NotNil(t, created.Billing)
	assert.Equal(t, "Lisbon", created.Billing.City)
	assert.Nil(t, created.Shipping)

	id, _ := customers.Lookup(4)
	assert.Equal(t, int64(90), id)
	assert.Equal(t, 1, r.Stats().Created)
}

func TestCustomerCreateConflictRecovers(t *testing.T) {
	lookups := 0
	api := &stubAPI{
		findCustomerByEmail: func(email string) (*target.Customer, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return &target.Customer{ID: 66, Email: email}, nil
		},
		createCustomer: func(req target.CustomerRequest) (*target.Customer, error) {
			return nil, conflictErr()
		},
	}
	customers := replication.NewIdentityMap()
	r := NewCustomerReconciler(api, customers, zap.NewNop(), nil)

	err := r.ReconcileAll(context.Background(), []snapshot.Customer{{ID: 2, Email: "a@example.com"}})
	require.NoError(t, err)

	id, _ := customers.Lookup(2)
	assert.Equal(t, int64(66), id)
	assert.Equal(t, 1, r.Stats().Updated)
}

func TestCustomerUnresolvedConflictAborts(t *testing.T) {
	api := &stubAPI{
		createCustomer: func(req target.CustomerRequest) (*target.Customer, error) {
			return nil, conflictErr()
		},
	}
	customers := replication.NewIdentityMap()
	r := NewCustomerReconciler(api, customers, zap.NewNop(), nil)

	err := r.ReconcileAll(context.Background(), []snapshot.Customer{{ID: 2, Email: "a@example.com"}})
	require.Error(t, err)
	assert.True(t, target.IsConflict(err))
	assert.Equal(t, 0, customers.Len())
}

func TestCustomerNothingImportableSkips(t *testing.T) {
	api := &stubAPI{}
	r := NewCustomerReconciler(api, replication.NewIdentityMap(), zap.NewNop(), nil)

	err := r.ReconcileAll(context.Background(), []snapshot.Customer{{ID: 8}})
	require.NoError(t, err)

	assert.Equal(t, 0, api.calls)
	assert.Equal(t, 1, r.Stats().Skipped)
}
