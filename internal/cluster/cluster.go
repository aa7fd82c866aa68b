// Package cluster implements the quorum-replicated peer protocol: HTTP
// RPC fan-out to every other node for each zone mutation, quorum
// counting, best-effort rollback notification, and remote fetch-on-miss.
// It implements zonecache.Replicator without either package importing
// the other's concrete types beyond that interface boundary.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quorumzone/dnsd/internal/zonecache"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

// envelope is the JSON body POSTed to a peer's replication endpoint.
type envelope struct {
	ChangeID string `json:"change_id"`
	Action   string `json:"action"`
	Domain   string `json:"domain"`
	Payload  any    `json:"payload,omitempty"`
}

// Replicator fans a mutation out to every configured peer over HTTP,
// counts acks toward quorum, and drives compensating rollback RPCs.
type Replicator struct {
	Peers       []string
	Token       string
	QuorumRatio float64
	Timeout     time.Duration
	Client      *http.Client
}

// New constructs a Replicator. peers are base URLs (scheme://host:port,
// no trailing slash required); token authenticates both outbound RPCs.
func New(peers []string, token string, quorumRatio float64, timeout time.Duration) *Replicator {
	return &Replicator{
		Peers:       peers,
		Token:       token,
		QuorumRatio: quorumRatio,
		Timeout:     timeout,
		Client:      &http.Client{},
	}
}

// required computes ceil(total_nodes * ratio), floored at 1.
func (r *Replicator) required() int {
	total := len(r.Peers) + 1
	n := int(math.Ceil(float64(total) * r.QuorumRatio))
	if n < 1 {
		return 1
	}
	return n
}

// Broadcast sends (action, domain, payload) to every peer concurrently
// and waits up to Timeout per peer. It never treats a peer's error or
// timeout as fatal to the fan-out: every peer's outcome is observed
// before quorum is evaluated.
func (r *Replicator) Broadcast(ctx context.Context, action, domain string, payload any) (bool, []string, error) {
	changeID := uuid.NewString()

	var mu sync.Mutex
	acked := make([]string, 0, len(r.Peers))

	var g errgroup.Group
	for _, peer := range r.Peers {
		peer := peer
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			if err := r.post(pctx, peer, "/internal/replicate", envelope{
				ChangeID: changeID,
				Action:   action,
				Domain:   domain,
				Payload:  payload,
			}); err != nil {
				log.Printf("cluster: change %s: peer %s did not ack %s %s: %v", changeID, peer, action, domain, err)
				return nil
			}

			mu.Lock()
			acked = append(acked, peer)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	acks := 1 + len(acked)
	ok := acks >= r.required()
	if !ok {
		log.Printf("cluster: change %s: quorum not met for %s %s (acks=%d required=%d)", changeID, action, domain, acks, r.required())
	}
	return ok, acked, nil
}

// Rollback best-effort notifies each ack'd peer to compensate for the
// aborted action. Results are ignored; the local compensating write has
// already happened by the time this is called.
func (r *Replicator) Rollback(ctx context.Context, action, domain string, previous any, acked []string) {
	rollbackAction, payload := rollbackFor(action, previous)
	changeID := uuid.NewString()

	var g errgroup.Group
	for _, peer := range acked {
		peer := peer
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()
			if err := r.post(pctx, peer, "/internal/replicate", envelope{
				ChangeID: changeID,
				Action:   rollbackAction,
				Domain:   domain,
				Payload:  payload,
			}); err != nil {
				log.Printf("cluster: rollback %s: peer %s did not ack: %v", changeID, peer, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// rollbackFor maps an aborted action to its compensating action and
// payload, per the cluster rollback table.
func rollbackFor(aborted string, previous any) (action string, payload any) {
	switch aborted {
	case zonecache.ActionCreate:
		return zonecache.ActionDelete, nil
	case zonecache.ActionDelete, zonecache.ActionUpdate, zonecache.ActionPut:
		return zonecache.ActionPut, previous
	default:
		return zonecache.ActionPut, previous
	}
}

// FetchRemote probes peers in order for domain, returning the first hit.
func (r *Replicator) FetchRemote(ctx context.Context, domain string) (zonestore.Zone, bool, error) {
	for _, peer := range r.Peers {
		pctx, cancel := context.WithTimeout(ctx, r.Timeout)
		zone, ok, err := r.fetchOne(pctx, peer, domain)
		cancel()
		if err != nil || !ok {
			continue
		}
		return zone, true, nil
	}
	return zonestore.Zone{}, false, nil
}

func (r *Replicator) fetchOne(ctx context.Context, peer, domain string) (zonestore.Zone, bool, error) {
	url := strings.TrimRight(peer, "/") + "/internal/replicate/" + domain
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zonestore.Zone{}, false, err
	}
	req.Header.Set("Authentication", "Bearer "+r.Token)

	resp, err := r.Client.Do(req)
	if err != nil {
		return zonestore.Zone{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return zonestore.Zone{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return zonestore.Zone{}, false, fmt.Errorf("cluster: fetch %s from %s: status %d: %s", domain, peer, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var zone zonestore.Zone
	if err := json.NewDecoder(resp.Body).Decode(&zone); err != nil {
		return zonestore.Zone{}, false, fmt.Errorf("cluster: decode fetch response from %s: %w", peer, err)
	}
	return zone, true, nil
}

func (r *Replicator) post(ctx context.Context, peer, path string, env envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("cluster: encode envelope: %w", err)
	}

	url := strings.TrimRight(peer, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cluster: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authentication", "Bearer "+r.Token)

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("cluster: request to %s: %w", peer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("cluster: %s rejected by %s: status %d: %s", env.Action, peer, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
