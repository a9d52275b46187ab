package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		snap    *Snapshot
		wantErr error
	}{
		{name: "nil snapshot", snap: nil, wantErr: ErrEmptySnapshot},
		{name: "empty snapshot", snap: &Snapshot{}, wantErr: ErrEmptySnapshot},
		{
			name:    "configuration alone is not importable",
			snap:    &Snapshot{Configuration: &StoreConfiguration{}},
			wantErr: ErrEmptySnapshot,
		},
		{
			name:    "subscriptions alone are not importable",
			snap:    &Snapshot{Subscriptions: []Subscription{{ID: 1}}},
			wantErr: ErrEmptySnapshot,
		},
		{name: "one product suffices", snap: &Snapshot{Products: []Product{{ID: 1}}}},
		{name: "one customer suffices", snap: &Snapshot{Customers: []Customer{{ID: 1}}}},
		{name: "one coupon suffices", snap: &Snapshot{Coupons: []Coupon{{ID: 1}}}},
		{name: "one order suffices", snap: &Snapshot{Orders: []Order{{ID: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSnapshotEntityCount(t *testing.T) {
	snap := &Snapshot{
		Products:      []Product{{}, {}},
		Customers:     []Customer{{}},
		Orders:        []Order{{}},
		Subscriptions: []Subscription{{}},
	}

	// Subscriptions are not importable and do not count.
	assert.Equal(t, 4, snap.EntityCount())
}

func TestLoad(t *testing.T) {
	t.Run("reads a snapshot file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"products": [{"id": 1, "name": "Widget", "sku": "W-1"}],
			"customers": [{"id": 2, "email": "a@example.com"}],
			"bundle_dirs": ["bundles/theme"]
		}`), 0644))

		snap, err := Load(path)
		require.NoError(t, err)

		require.Len(t, snap.Products, 1)
		assert.Equal(t, "W-1", snap.Products[0].SKU)
		require.Len(t, snap.Customers, 1)
		assert.Equal(t, "a@example.com", snap.Customers[0].Email)
		assert.Equal(t, []string{"bundles/theme"}, snap.BundleDirs)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestOrderHasPaidMarker(t *testing.T) {
	tests := []struct {
		name     string
		order    Order
		expected bool
	}{
		{name: "paid timestamp", order: Order{Status: "pending", DatePaid: "2024-03-01T10:00:00"}, expected: true},
		{name: "completed status", order: Order{Status: "completed"}, expected: true},
		{name: "processing status", order: Order{Status: "processing"}, expected: true},
		{name: "on-hold status", order: Order{Status: "on-hold"}, expected: true},
		{name: "pending unpaid", order: Order{Status: "pending"}, expected: false},
		{name: "cancelled unpaid", order: Order{Status: "cancelled"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.order.HasPaidMarker())
		})
	}
}

func TestAddressIsEmpty(t *testing.T) {
	assert.True(t, (&Address{}).IsEmpty())
	assert.False(t, (&Address{City: "Lisbon"}).IsEmpty())
}
