package zonecache

import (
	"context"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

// Replication actions, shared verbatim with the cluster package's wire
// envelope and with the HTTP replication endpoint that decodes it.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionPut    = "put"
	ActionDelete = "delete"
)

// Replicator broadcasts a mutation to peers and counts acks toward
// quorum, drives best-effort rollback RPCs after a local compensating
// action, and probes peers for a zone this node doesn't hold locally.
// internal/cluster provides the concrete implementation; Cache only
// depends on this interface so the two packages don't import each other.
type Replicator interface {
	// Broadcast fans the mutation out to every peer and waits up to the
	// configured replication timeout for each. ok reports whether acks
	// (including self) met quorum; acked lists the peers that applied
	// the change, used as the rollback target list on failure.
	Broadcast(ctx context.Context, action, domain string, payload any) (ok bool, acked []string, err error)

	// Rollback best-effort notifies each previously ack'd peer to
	// compensate for action. Results are ignored by the caller; the
	// local compensating write must already have been applied.
	Rollback(ctx context.Context, action, domain string, previous any, acked []string)

	// FetchRemote probes peers in arbitrary order for domain, returning
	// the first successful hit.
	FetchRemote(ctx context.Context, domain string) (zonestore.Zone, bool, error)
}
