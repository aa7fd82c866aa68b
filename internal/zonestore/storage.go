package zonestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and validates the zone file for domain beneath root. It
// returns ErrNotFound if no file exists at the sharded path.
func Load(root, domain string) (Zone, error) {
	path := PathFor(root, domain)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Zone{}, ErrNotFound
		}
		return Zone{}, fmt.Errorf("zonestore: read %s: %w", path, err)
	}

	var zone Zone
	if err := json.Unmarshal(raw, &zone); err != nil {
		return Zone{}, fmt.Errorf("zonestore: decode %s: %w", path, err)
	}
	return zone, nil
}

// Exists reports whether a zone file for domain is present on disk.
func Exists(root, domain string) bool {
	_, err := os.Stat(PathFor(root, domain))
	return err == nil
}

// Create writes a new zone file, failing with ErrAlreadyExists if one
// is already present for the domain.
func Create(root string, zone Zone) error {
	if Exists(root, zone.Name) {
		return ErrAlreadyExists
	}
	return save(root, zone)
}

// Save atomically overwrites the zone file for zone.Name, creating it
// (and its shard directories) if absent.
func Save(root string, zone Zone) error {
	return save(root, zone)
}

// Delete removes the zone file for domain, returning ErrNotFound if it
// is already absent.
func Delete(root, domain string) error {
	path := PathFor(root, domain)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("zonestore: remove %s: %w", path, err)
	}
	return nil
}

// Walk visits every zone file beneath root in lexical shard order,
// calling fn with the domain name recovered from each file's base name.
// It is the filesystem side of the startup validation scan; fn decides
// what to do with a domain (load, validate, log and skip).
func Walk(root string, fn func(domain string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		domain := strings.TrimSuffix(d.Name(), ".json")
		return fn(domain)
	})
}

// save writes to `<path>.tmp` then renames over `<path>`, so a concurrent
// reader never observes a partially written zone document. A `.tmp` left
// behind by an interrupted prior attempt is simply overwritten.
func save(root string, zone Zone) error {
	path := PathFor(root, zone.Name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("zonestore: mkdir %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(zone, "", "  ")
	if err != nil {
		return fmt.Errorf("zonestore: encode %s: %w", zone.Name, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("zonestore: write %s: %w", tmpPath, err)
	}
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := renameOverExisting(tmpPath, path); err != nil {
		return fmt.Errorf("zonestore: rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}

// renameOverExisting renames src to dst. On a rename failure that
// indicates dst already exists, it deletes dst and retries once, per
// spec's "on rename failure with target exists, delete and retry"
// clause — a no-op on platforms where rename already replaces the
// target atomically, but observable on ones where it doesn't.
func renameOverExisting(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrExist) {
		return err
	}
	if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return rmErr
	}
	return os.Rename(src, dst)
}
