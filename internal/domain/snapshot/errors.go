package snapshot

import "errors"

// ErrEmptySnapshot indicates the snapshot carries nothing to replicate.
var ErrEmptySnapshot = errors.New("snapshot: no importable entities")
