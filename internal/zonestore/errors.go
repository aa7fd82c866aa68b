// Package zonestore implements the on-disk zone format: an md5-sharded
// path layout, atomic writes, schema validation, and delete — the
// persisted source of truth a zone holder loads into memory and a zone
// cache mutates on every create/update/delete.
package zonestore

import (
	"errors"
	"strconv"
)

// ErrNotFound is a distinguished, non-error signal: the zone file is
// absent. Callers branch on it rather than treat it as a failure.
var ErrNotFound = errors.New("zonestore: zone not found")

// ErrAlreadyExists is returned by Create when the zone file is already
// present on disk.
var ErrAlreadyExists = errors.New("zonestore: zone already exists")

// ValidationError describes a schema violation found while validating a
// zone document, either on write or during the startup scan. Index is
// the position of the offending record within Records, or -1 when the
// violation is at the zone level.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "zonestore: invalid zone: " + e.Reason
	}
	return "zonestore: invalid record at index " + strconv.Itoa(e.Index) + ": " + e.Reason
}
