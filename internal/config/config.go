// Package config loads process-wide settings from the environment, the
// same envOrDefault style the teacher's config.go uses — no third-party
// config library, a flat struct, boot-time warnings via stdlib log.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is immutable after Load returns; it is passed by value into
// the components that need it.
type Config struct {
	NodeID string

	ZonesFolder  string
	DNSUDPListen string
	HTTPListen   string

	APIToken         string
	ReplicationToken string

	ReplicationQuorumRatio float64
	ReplicationTimeout     time.Duration

	Peers []string

	DefaultTTL uint32
}

// Load reads Config from the environment.
func Load() Config {
	nodeID := strings.TrimSpace(os.Getenv("NODE_ID"))
	if nodeID == "" {
		host, _ := os.Hostname()
		nodeID = host
	}

	apiToken := strings.TrimSpace(os.Getenv("API_TOKEN"))
	if apiToken == "" {
		log.Printf("warning: API_TOKEN is empty, control API is open")
	}

	replicationToken := strings.TrimSpace(os.Getenv("REPLICATION_TOKEN"))
	if replicationToken == "" {
		replicationToken = apiToken
	}

	return Config{
		NodeID: nodeID,

		ZonesFolder:  envOrDefault("ZONES_FOLDER", "zones"),
		DNSUDPListen: envOrDefault("DNS_UDP_LISTEN", ":53"),
		HTTPListen:   envOrDefault("HTTP_LISTEN", ":8080"),

		APIToken:         apiToken,
		ReplicationToken: replicationToken,

		ReplicationQuorumRatio: envOrDefaultFloat("REPLICATION_QUORUM_RATIO", 0.5),
		ReplicationTimeout:     time.Duration(envOrDefaultUint32("REPLICATION_TIMEOUT_MS", 2000)) * time.Millisecond,

		Peers: splitCSV(os.Getenv("PEERS")),

		DefaultTTL: envOrDefaultUint32("DEFAULT_TTL", 60),
	}
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envOrDefaultUint32(key string, fallback uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fallback
	}

	return uint32(n)
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}

	return f
}
