package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

// nodeClient talks to one DNS node's HTTP/JSON zone API, the same
// Authentication-header auth scheme internal/api enforces.
type nodeClient struct {
	ep     endpoint
	client *http.Client
}

func newNodeClient(ep endpoint, client *http.Client) *nodeClient {
	return &nodeClient{ep: ep, client: client}
}

func (c *nodeClient) fetchZone(ctx context.Context, name string) (zonestore.Zone, error) {
	var zone zonestore.Zone
	err := c.do(ctx, http.MethodGet, "/zones/"+name, nil, &zone)
	return zone, err
}

func (c *nodeClient) upsertZone(ctx context.Context, name string, zone zonestore.Zone) error {
	return c.do(ctx, http.MethodPut, "/zones/"+name, zone, nil)
}

func (c *nodeClient) deleteZone(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/zones/"+name, nil, nil)
}

func (c *nodeClient) healthz(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)
	return out, err
}

func (c *nodeClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ep.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ep.Token != "" {
		req.Header.Set("Authentication", "Bearer "+c.ep.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s: %w", c.ep.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", c.ep.Name, err)
	}
	return nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}
