// Command dashboard is a standalone operator tool: it polls one or more
// dnsd nodes' HTTP zone APIs and fans whole-zone upserts/deletes out to
// all of them, the way the teacher's dashboard fanned out per-record
// actions — adapted here to the whole-zone API shape and to gorm/sqlite
// for its own node registry instead of a flat JSON file.
package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	log.SetOutput(newColorWriter())
	log.SetFlags(log.LstdFlags)

	listen := envOrDefault("DASHBOARD_LISTEN", ":8090")
	dbPath := envOrDefault("DASHBOARD_DB", "dashboard.db")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatalf("failed to open dashboard database: %v", err)
	}

	reg := newRegistry(db)

	srv, err := newServer(reg)
	if err != nil {
		log.Fatalf("failed to initialize dashboard server: %v", err)
	}

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("dashboard listening on %s (db=%s)", listen, dbPath)
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatalf("dashboard server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
