package cluster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quorumzone/dnsd/internal/wire"
	"github.com/quorumzone/dnsd/internal/zonecache"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

func TestRequiredQuorum(t *testing.T) {
	cases := []struct {
		peers int
		ratio float64
		want  int
	}{
		{0, 1.0, 1},
		{2, 0.5, 2},
		{2, 1.0, 3},
		{0, 2.0, 2}, // a ratio above 1.0 can require more nodes than exist
	}
	for _, c := range cases {
		r := &Replicator{Peers: make([]string, c.peers), QuorumRatio: c.ratio}
		if got := r.required(); got != c.want {
			t.Errorf("peers=%d ratio=%v required=%d, want %d", c.peers, c.ratio, got, c.want)
		}
	}
}

func peerServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
}

func TestBroadcastQuorumSuccess(t *testing.T) {
	s1 := peerServer(t, http.StatusOK)
	defer s1.Close()
	s2 := peerServer(t, http.StatusOK)
	defer s2.Close()

	r := New([]string{s1.URL, s2.URL}, "tok", 0.5, time.Second)
	ok, acked, err := r.Broadcast(context.Background(), zonecache.ActionCreate, "hello.test", map[string]string{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected quorum success")
	}
	if len(acked) != 2 {
		t.Fatalf("acked = %v, want 2 peers", acked)
	}
}

func TestBroadcastQuorumFailureWithHighRatio(t *testing.T) {
	s1 := peerServer(t, http.StatusOK)
	defer s1.Close()
	s2 := peerServer(t, http.StatusOK)
	defer s2.Close()

	r := New([]string{s1.URL, s2.URL}, "tok", 2.0, time.Second)
	ok, _, err := r.Broadcast(context.Background(), zonecache.ActionCreate, "hello.test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected quorum failure with ratio 2.0")
	}
}

func TestBroadcastIgnoresFailingPeers(t *testing.T) {
	good := peerServer(t, http.StatusOK)
	defer good.Close()
	bad := peerServer(t, http.StatusInternalServerError)
	defer bad.Close()

	r := New([]string{good.URL, bad.URL}, "tok", 0.5, time.Second)
	ok, acked, err := r.Broadcast(context.Background(), zonecache.ActionUpdate, "hello.test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected quorum success (1 self + 1 good peer >= required 2)")
	}
	if len(acked) != 1 || acked[0] != good.URL {
		t.Fatalf("acked = %v, want [%s]", acked, good.URL)
	}
}

func TestFetchRemoteFirstHitWins(t *testing.T) {
	miss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer miss.Close()

	zone := zonestore.Zone{Name: "hello.test", Version: 1, Records: []zonestore.RecordSpec{
		{Type: wire.TypeA, Class: wire.ClassIN, Data: "1.2.3.4"},
	}}
	hit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(zone)
	}))
	defer hit.Close()

	r := New([]string{miss.URL, hit.URL}, "tok", 1.0, time.Second)
	got, ok, err := r.FetchRemote(context.Background(), "hello.test")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if got.Name != "hello.test" {
		t.Fatalf("got = %+v", got)
	}
}

func TestFetchRemoteAllMiss(t *testing.T) {
	miss1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer miss1.Close()
	miss2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer miss2.Close()

	r := New([]string{miss1.URL, miss2.URL}, "tok", 1.0, time.Second)
	_, ok, err := r.FetchRemote(context.Background(), "hello.test")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no hit")
	}
}

func TestRollbackForTable(t *testing.T) {
	cases := []struct {
		aborted      string
		wantAction   string
		wantNilPayload bool
	}{
		{zonecache.ActionCreate, zonecache.ActionDelete, true},
		{zonecache.ActionDelete, zonecache.ActionPut, false},
		{zonecache.ActionUpdate, zonecache.ActionPut, false},
		{zonecache.ActionPut, zonecache.ActionPut, false},
	}
	for _, c := range cases {
		action, payload := rollbackFor(c.aborted, "previous")
		if action != c.wantAction {
			t.Errorf("rollbackFor(%s) action = %s, want %s", c.aborted, action, c.wantAction)
		}
		if c.wantNilPayload && payload != nil {
			t.Errorf("rollbackFor(%s) payload = %v, want nil", c.aborted, payload)
		}
		if !c.wantNilPayload && payload != "previous" {
			t.Errorf("rollbackFor(%s) payload = %v, want \"previous\"", c.aborted, payload)
		}
	}
}
