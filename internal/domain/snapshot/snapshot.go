package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is an immutable bundle of everything captured from the source
// storefront. It is owned by the caller; the replication engine only reads it.
type Snapshot struct {
	Products      []Product      `json:"products"`
	Customers     []Customer     `json:"customers"`
	Coupons       []Coupon       `json:"coupons"`
	Orders        []Order        `json:"orders"`
	Subscriptions []Subscription `json:"subscriptions,omitempty"`

	// Configuration holds the captured store settings, if any.
	Configuration *StoreConfiguration `json:"configuration,omitempty"`

	// BundleDirs lists local directories holding captured plugin/theme
	// bundle artifacts (manifest/options/archive, any subset present).
	BundleDirs []string `json:"bundle_dirs,omitempty"`
}

// Subscription is captured for completeness but not supported by the
// replication engine; subscriptions are logged and skipped.
type Subscription struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Validate checks that the snapshot carries at least one importable entity.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrEmptySnapshot
	}
	if len(s.Products) == 0 && len(s.Customers) == 0 && len(s.Coupons) == 0 && len(s.Orders) == 0 {
		return ErrEmptySnapshot
	}
	return nil
}

// EntityCount returns the total number of importable entities.
func (s *Snapshot) EntityCount() int {
	return len(s.Products) + len(s.Customers) + len(s.Coupons) + len(s.Orders)
}

// Load reads a snapshot from a JSON file produced by the capture tool.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return &snap, nil
}
