package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

func (a *API) handleZoneByName(w http.ResponseWriter, r *http.Request) {
	name := normalizeName(chi.URLParam(r, "name"))
	if name == "." {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing zone name"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.handleZoneGet(w, r, name)
	case http.MethodPut, http.MethodPost:
		a.handleZoneUpsert(w, r, name)
	case http.MethodPatch:
		a.handleZonePatch(w, r, name)
	case http.MethodDelete:
		a.handleZoneDelete(w, r, name)
	default:
		w.Header().Set("Allow", "GET, PUT, POST, PATCH, DELETE")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (a *API) handleZoneGet(w http.ResponseWriter, r *http.Request, name string) {
	zone, err := a.cache.Fetch(r.Context(), name)
	if err != nil {
		writeJSON(w, statusForMutation(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (a *API) handleZoneUpsert(w http.ResponseWriter, r *http.Request, name string) {
	var zone zonestore.Zone
	if err := decodeJSON(r.Body, &zone); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if zone.Name != "" && normalizeName(zone.Name) != name {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "zone name in body does not match URL"})
		return
	}
	zone.Name = name

	created := !zonestore.Exists(a.zonesRoot, name)

	updated, err := a.cache.Put(r.Context(), name, zone)
	if err != nil {
		writeJSON(w, statusForMutation(err), map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"status": "ok", "version": updated.Version})
}

// patchBody is decoded separately from zonestore.Zone because Zone's
// UnmarshalJSON defaults an absent version to 1 — exactly the
// distinction PATCH needs to reject ("version is required" vs an
// explicit version that then gets checked against the stored one).
type patchBody struct {
	Name    string          `json:"name"`
	Version *int            `json:"version"`
	Records json.RawMessage `json:"records"`
}

func (a *API) handleZonePatch(w http.ResponseWriter, r *http.Request, name string) {
	var body patchBody
	if err := decodeJSON(r.Body, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if body.Name != "" && normalizeName(body.Name) != name {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "zone name in body does not match URL"})
		return
	}
	if body.Version == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "version is required"})
		return
	}
	if len(body.Records) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "records is required"})
		return
	}

	var records []zonestore.RecordSpec
	if err := json.Unmarshal(body.Records, &records); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	zone := zonestore.Zone{Name: name, Records: records}
	updated, err := a.cache.Update(r.Context(), name, zone, *body.Version)
	if err != nil {
		writeJSON(w, statusForPatch(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": updated.Version})
}

func (a *API) handleZoneDelete(w http.ResponseWriter, r *http.Request, name string) {
	if err := a.cache.Delete(r.Context(), name); err != nil {
		writeJSON(w, statusForMutation(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
