package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quorumzone/dnsd/internal/zonecache"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

type noopReplicator struct{}

func (noopReplicator) Broadcast(ctx context.Context, action, domain string, payload any) (bool, []string, error) {
	return true, nil, nil
}
func (noopReplicator) Rollback(ctx context.Context, action, domain string, previous any, acked []string) {
}
func (noopReplicator) FetchRemote(ctx context.Context, domain string) (zonestore.Zone, bool, error) {
	return zonestore.Zone{}, false, nil
}

func newTestAPI(t *testing.T, apiToken string) (*API, string) {
	t.Helper()
	root := t.TempDir()
	cache := zonecache.NewCache(root, noopReplicator{})
	a, err := New(cache, root, "node-test", apiToken, apiToken, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, root
}

func TestHealthz(t *testing.T) {
	a, _ := newTestAPI(t, "")
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestZoneRoutesRequireAuth(t *testing.T) {
	a, _ := newTestAPI(t, "secret")
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/zones/example.test")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func doAuthed(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authentication", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return resp
}

func TestZoneUpsertGetDelete(t *testing.T) {
	a, _ := newTestAPI(t, "secret")
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	body := []byte(`{"name":"example.test","version":1,"records":[{"type":"A","data":"1.2.3.4"}]}`)
	resp := doAuthed(t, http.MethodPut, srv.URL+"/zones/example.test", "secret", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("PUT status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, http.MethodGet, srv.URL+"/zones/example.test", "secret", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	var zone zonestore.Zone
	if err := json.NewDecoder(resp.Body).Decode(&zone); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if zone.Name != "example.test" || len(zone.Records) != 1 {
		t.Fatalf("zone = %+v", zone)
	}

	resp = doAuthed(t, http.MethodDelete, srv.URL+"/zones/example.test", "secret", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, http.MethodGet, srv.URL+"/zones/example.test", "secret", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestZonePatchRequiresVersion(t *testing.T) {
	a, _ := newTestAPI(t, "secret")
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	body := []byte(`{"name":"v.test","records":[]}`)
	resp := doAuthed(t, http.MethodPatch, srv.URL+"/zones/v.test", "secret", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestReplicateApplyAndFetch(t *testing.T) {
	a, _ := newTestAPI(t, "secret")
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	envelope := []byte(`{"change_id":"x","action":"put","domain":"peer.test","payload":{"name":"peer.test","version":1,"records":[]}}`)
	resp := doAuthed(t, http.MethodPost, srv.URL+"/internal/replicate", "secret", envelope)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replicate apply status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, http.MethodGet, srv.URL+"/internal/replicate/peer.test", "secret", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replicate fetch status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}
