package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"NODE_ID", "ZONES_FOLDER", "DNS_UDP_LISTEN", "HTTP_LISTEN",
		"API_TOKEN", "REPLICATION_TOKEN", "REPLICATION_QUORUM_RATIO",
		"REPLICATION_TIMEOUT_MS", "PEERS", "DEFAULT_TTL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.ZonesFolder != "zones" {
		t.Fatalf("ZonesFolder = %q, want zones", cfg.ZonesFolder)
	}
	if cfg.DNSUDPListen != ":53" {
		t.Fatalf("DNSUDPListen = %q", cfg.DNSUDPListen)
	}
	if cfg.HTTPListen != ":8080" {
		t.Fatalf("HTTPListen = %q", cfg.HTTPListen)
	}
	if cfg.ReplicationQuorumRatio != 0.5 {
		t.Fatalf("ReplicationQuorumRatio = %v, want 0.5", cfg.ReplicationQuorumRatio)
	}
	if cfg.DefaultTTL != 60 {
		t.Fatalf("DefaultTTL = %d, want 60", cfg.DefaultTTL)
	}
	if len(cfg.Peers) != 0 {
		t.Fatalf("Peers = %v, want empty", cfg.Peers)
	}
}

func TestReplicationTokenFallsBackToAPIToken(t *testing.T) {
	t.Setenv("API_TOKEN", "shared-secret")
	t.Setenv("REPLICATION_TOKEN", "")

	cfg := Load()
	if cfg.ReplicationToken != "shared-secret" {
		t.Fatalf("ReplicationToken = %q, want shared-secret", cfg.ReplicationToken)
	}
}

func TestReplicationTokenOverride(t *testing.T) {
	t.Setenv("API_TOKEN", "api-secret")
	t.Setenv("REPLICATION_TOKEN", "repl-secret")

	cfg := Load()
	if cfg.ReplicationToken != "repl-secret" {
		t.Fatalf("ReplicationToken = %q, want repl-secret", cfg.ReplicationToken)
	}
}

func TestPeersCSVSplit(t *testing.T) {
	t.Setenv("PEERS", "http://a, http://b ,,http://c")

	cfg := Load()
	want := []string{"http://a", "http://b", "http://c"}
	if len(cfg.Peers) != len(want) {
		t.Fatalf("Peers = %v, want %v", cfg.Peers, want)
	}
	for i := range want {
		if cfg.Peers[i] != want[i] {
			t.Fatalf("Peers[%d] = %q, want %q", i, cfg.Peers[i], want[i])
		}
	}
}

func TestQuorumRatioRejectsInvalid(t *testing.T) {
	t.Setenv("REPLICATION_QUORUM_RATIO", "not-a-number")
	cfg := Load()
	if cfg.ReplicationQuorumRatio != 0.5 {
		t.Fatalf("ReplicationQuorumRatio = %v, want fallback 0.5", cfg.ReplicationQuorumRatio)
	}
}
