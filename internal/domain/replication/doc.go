// Package replication holds the pure building blocks of the replication
// engine: natural-key normalization, per-kind identity maps, the taxonomy
// and attribute seeds collected from a full product scan, and the progress
// sink type. Nothing in this package performs I/O.
package replication
