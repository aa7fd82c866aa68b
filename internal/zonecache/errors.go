// Package zonecache implements the in-memory zone custodian: one
// single-consumer holder goroutine per active zone, and a singleton
// cache actor that activates holders on demand, serializes every CRUD
// operation through its own mailbox, and drives compensating rollback
// when cluster replication fails to reach quorum.
package zonecache

import (
	"errors"
	"fmt"
)

// ErrVersionRequired is returned by Update when no expected version was
// supplied; every update must name the version it is replacing.
var ErrVersionRequired = errors.New("zonecache: version is required")

// ErrVersionMismatch is returned by Update when the caller's expected
// version does not match the holder's current version.
var ErrVersionMismatch = errors.New("zonecache: version mismatch")

// QuorumError is returned when a broadcast CRUD operation fails to
// reach replication quorum; the local (and any ack'd peer) state has
// already been rolled back to its pre-change value by the time this
// error reaches the caller. Acked lists the peers that had applied the
// now-reverted change and were sent a best-effort rollback RPC.
type QuorumError struct {
	Acked []string
}

func (e *QuorumError) Error() string {
	return fmt.Sprintf("zonecache: replication quorum not met (acked: %v)", e.Acked)
}
