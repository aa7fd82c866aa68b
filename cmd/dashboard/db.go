package main

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// nodeEndpointModel is the dashboard's own record of a DNS node it polls
// and fans zone actions out to — the operator-local state the teacher
// kept in dashboard-endpoints.json, moved onto the same gorm/sqlite/goose
// stack the teacher used for its main server's persistence.
type nodeEndpointModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	BaseURL   string `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"not null;default:''"`
	CreatedAt time.Time
}

func (nodeEndpointModel) TableName() string { return "node_endpoints" }

// pollRecordModel is one row of poll history: the outcome of fetching a
// single zone from a single node, kept so the live view can show recent
// activity instead of only the latest snapshot.
type pollRecordModel struct {
	ID             uint `gorm:"primaryKey"`
	NodeEndpointID uint `gorm:"not null;index"`
	Zone           string
	Success        bool
	Error          string
	RecordCount    int
	Version        int
	PolledAt       time.Time
}

func (pollRecordModel) TableName() string { return "poll_records" }

func openDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}
	return nil
}
