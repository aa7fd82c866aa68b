package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// endpoint is the in-memory shape handlers and templates work with;
// nodeEndpointModel is only the gorm persistence shape.
type endpoint struct {
	ID      uint
	Name    string
	BaseURL string
	Token   string
}

type pollRecord struct {
	Node        string
	Zone        string
	Success     bool
	Error       string
	RecordCount int
	Version     int
	PolledAt    time.Time
}

// registry is the gorm-backed replacement for the teacher's flat-JSON
// endpointStore: the set of DNS nodes this dashboard polls and fans zone
// actions out to, plus a rolling history of poll outcomes.
type registry struct {
	db *gorm.DB
}

func newRegistry(db *gorm.DB) *registry {
	return &registry{db: db}
}

func (r *registry) list() ([]endpoint, error) {
	var rows []nodeEndpointModel
	if err := r.db.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}

	out := make([]endpoint, len(rows))
	for i, row := range rows {
		out[i] = endpoint{ID: row.ID, Name: row.Name, BaseURL: row.BaseURL, Token: row.Token}
	}
	return out, nil
}

func (r *registry) add(name, baseURL, token string) error {
	name = strings.TrimSpace(name)
	baseURL = sanitizeURL(baseURL)
	token = strings.TrimSpace(token)

	if name == "" || baseURL == "" {
		return fmt.Errorf("name and base url are required")
	}

	var existing nodeEndpointModel
	err := r.db.First(&existing, "base_url = ?", baseURL).Error
	if err == nil {
		return fmt.Errorf("endpoint already exists: %s", baseURL)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup endpoint: %w", err)
	}

	row := nodeEndpointModel{Name: name, BaseURL: baseURL, Token: token, CreatedAt: time.Now().UTC()}
	if err := r.db.Create(&row).Error; err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	return nil
}

func (r *registry) delete(id uint) error {
	res := r.db.Delete(&nodeEndpointModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete endpoint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("endpoint not found")
	}
	return nil
}

// recordPoll appends one poll outcome. History is trimmed to the most
// recent 200 rows per node so the table never grows unbounded.
func (r *registry) recordPoll(nodeID uint, rec pollRecord) error {
	row := pollRecordModel{
		NodeEndpointID: nodeID,
		Zone:           rec.Zone,
		Success:        rec.Success,
		Error:          rec.Error,
		RecordCount:    rec.RecordCount,
		Version:        rec.Version,
		PolledAt:       rec.PolledAt,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return fmt.Errorf("save poll record: %w", err)
	}

	var stale []pollRecordModel
	err := r.db.Where("node_endpoint_id = ?", nodeID).
		Order("polled_at desc").
		Offset(200).
		Find(&stale).Error
	if err != nil || len(stale) == 0 {
		return nil
	}
	ids := make([]uint, len(stale))
	for i, s := range stale {
		ids[i] = s.ID
	}
	r.db.Delete(&pollRecordModel{}, "id in ?", ids)
	return nil
}

// recentPolls returns the most recent poll outcomes across all nodes,
// newest first, joined against the node's display name.
func (r *registry) recentPolls(limit int) ([]pollRecord, error) {
	type joined struct {
		pollRecordModel
		NodeName string
	}
	var rows []joined
	err := r.db.Table("poll_records").
		Select("poll_records.*, node_endpoints.name as node_name").
		Joins("join node_endpoints on node_endpoints.id = poll_records.node_endpoint_id").
		Order("polled_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent polls: %w", err)
	}

	out := make([]pollRecord, len(rows))
	for i, row := range rows {
		out[i] = pollRecord{
			Node:        row.NodeName,
			Zone:        row.Zone,
			Success:     row.Success,
			Error:       row.Error,
			RecordCount: row.RecordCount,
			Version:     row.Version,
			PolledAt:    row.PolledAt,
		}
	}
	return out, nil
}

func sanitizeURL(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, "/")
	return v
}
