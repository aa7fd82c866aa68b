// Package api implements the HTTP/JSON control plane: a chi router
// exposing zone CRUD under /zones/{name}, the peer-facing replication
// endpoints the cluster replicator calls, and a health route, following
// the teacher's newRouter/route-group/middleware layout in http.go.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/CAFxX/httpcompression"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

// cacheOps is the exact surface of zonecache.Cache the router calls.
type cacheOps interface {
	Fetch(ctx context.Context, domain string) (zonestore.Zone, error)
	FetchLocal(ctx context.Context, domain string) (zonestore.Zone, error)
	Put(ctx context.Context, domain string, data zonestore.Zone) (zonestore.Zone, error)
	Update(ctx context.Context, domain string, data zonestore.Zone, expectedVersion int) (zonestore.Zone, error)
	Delete(ctx context.Context, domain string) error
	ApplyChange(ctx context.Context, action, domain string, data zonestore.Zone) error
}

// API wires a zone cache to the HTTP surface. zonesRoot is consulted
// directly (not through the cache) only to distinguish create-vs-update
// status codes on upsert, matching the behavior the teacher's
// handleZoneByName exposes via s.data.upsertZone's bool return.
type API struct {
	cache           cacheOps
	zonesRoot       string
	nodeID          string
	start           time.Time
	apiGate         *tokenGate
	replicationGate *tokenGate
}

// New constructs an API handler. apiToken and replicationToken may be
// empty, in which case the corresponding routes are open (matching the
// teacher's "control API is open" boot warning when APIToken is unset).
func New(cache cacheOps, zonesRoot, nodeID, apiToken, replicationToken string, start time.Time) (*API, error) {
	apiGate, err := newTokenGate(apiToken)
	if err != nil {
		return nil, err
	}
	replicationGate, err := newTokenGate(replicationToken)
	if err != nil {
		return nil, err
	}

	return &API{
		cache:           cache,
		zonesRoot:       zonesRoot,
		nodeID:          nodeID,
		start:           start,
		apiGate:         apiGate,
		replicationGate: replicationGate,
	}, nil
}

// Router builds the chi handler tree.
func (a *API) Router() http.Handler {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		compress = func(h http.Handler) http.Handler { return h }
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(compress)

	r.Get("/healthz", a.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(a.requireAPIToken)
		r.Get("/zones/{name}", a.handleZoneByName)
		r.Put("/zones/{name}", a.handleZoneByName)
		r.Post("/zones/{name}", a.handleZoneByName)
		r.Patch("/zones/{name}", a.handleZoneByName)
		r.Delete("/zones/{name}", a.handleZoneByName)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.requireReplicationToken)
		r.Post("/internal/replicate", a.handleReplicateApply)
		r.Get("/internal/replicate/{domain}", a.handleReplicateFetch)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"node_id":    a.nodeID,
		"uptime_sec": int(time.Since(a.start).Seconds()),
	})
}
