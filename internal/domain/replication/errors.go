package replication

import "errors"

// ErrNoCorrespondence indicates a source id has no established target id.
var ErrNoCorrespondence = errors.New("replication: no target correspondence for source id")
