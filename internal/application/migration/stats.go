package migration

// Stats counts the outcomes of one reconciler's pass. "Matched" entities
// (found on the target and reused without a write) count as Updated only
// when a write was issued; pure lookups count as Existing.
type Stats struct {
	Created  int
	Updated  int
	Existing int
	Skipped  int
}

// Total returns the number of entities considered.
func (s Stats) Total() int {
	return s.Created + s.Updated + s.Existing + s.Skipped
}
