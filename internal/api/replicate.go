package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

// replicateEnvelope is the peer-facing wire shape cluster.Replicator
// sends on broadcast and rollback.
type replicateEnvelope struct {
	ChangeID string         `json:"change_id"`
	Action   string         `json:"action"`
	Domain   string         `json:"domain"`
	Payload  zonestore.Zone `json:"payload"`
}

// handleReplicateApply is the peer-facing apply_change endpoint the
// cluster replicator's Broadcast and Rollback post to.
func (a *API) handleReplicateApply(w http.ResponseWriter, r *http.Request) {
	var env replicateEnvelope
	if err := decodeJSON(r.Body, &env); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := a.cache.ApplyChange(r.Context(), env.Action, normalizeName(env.Domain), env.Payload); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReplicateFetch is the peer-facing remote-fetch endpoint
// cluster.Replicator.FetchRemote probes on a local cache miss.
func (a *API) handleReplicateFetch(w http.ResponseWriter, r *http.Request) {
	domain := normalizeName(chi.URLParam(r, "domain"))

	zone, err := a.cache.FetchLocal(r.Context(), domain)
	if err != nil {
		if errors.Is(err, zonestore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, zone)
}
