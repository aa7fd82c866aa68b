package zonestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quorumzone/dnsd/internal/wire"
)

func sampleZone(name string) Zone {
	return Zone{
		Name:    name,
		Version: 1,
		Records: []RecordSpec{
			{Type: wire.TypeA, Class: wire.ClassIN, Data: "1.2.3.4"},
		},
	}
}

func TestCreateLoadDeleteRoundtrip(t *testing.T) {
	root := t.TempDir()
	zone := sampleZone("hello.test")

	if err := Create(root, zone); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !Exists(root, zone.Name) {
		t.Fatal("Exists = false after Create")
	}

	got, err := Load(root, zone.Name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != zone.Name || got.Version != zone.Version || len(got.Records) != 1 {
		t.Fatalf("loaded zone = %+v, want %+v", got, zone)
	}

	if err := Delete(root, zone.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if Exists(root, zone.Name) {
		t.Fatal("Exists = true after Delete")
	}
}

func TestCreateFailsIfAlreadyExists(t *testing.T) {
	root := t.TempDir()
	zone := sampleZone("hello.test")

	if err := Create(root, zone); err != nil {
		t.Fatal(err)
	}
	if err := Create(root, zone); err != ErrAlreadyExists {
		t.Fatalf("second Create err = %v, want ErrAlreadyExists", err)
	}
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	root := t.TempDir()
	if _, err := Load(root, "missing.test"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingReturnsErrNotFound(t *testing.T) {
	root := t.TempDir()
	if err := Delete(root, "missing.test"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestSaveLeavesNoTempFileBehind covers spec property 6: atomic writes
// never leave a partially-written or temp file visible at the final path.
func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	root := t.TempDir()
	zone := sampleZone("hello.test")

	if err := Save(root, zone); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Dir(PathFor(root, zone.Name))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != zone.Name+".json" {
		t.Fatalf("dir entries = %v, want exactly %s.json", entries, zone.Name)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	root := t.TempDir()
	zone := sampleZone("hello.test")
	if err := Save(root, zone); err != nil {
		t.Fatal(err)
	}

	zone.Version = 2
	zone.Records = append(zone.Records, RecordSpec{Type: wire.TypeTXT, Class: wire.ClassIN, Data: "hello"})
	if err := Save(root, zone); err != nil {
		t.Fatal(err)
	}

	got, err := Load(root, zone.Name)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 || len(got.Records) != 2 {
		t.Fatalf("loaded zone = %+v, want version 2 with 2 records", got)
	}
}

func TestWalkVisitsEveryShardedFile(t *testing.T) {
	root := t.TempDir()
	domains := []string{"a.test", "b.test", "c.test"}
	for _, d := range domains {
		if err := Create(root, sampleZone(d)); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[string]bool{}
	if err := Walk(root, func(domain string) error {
		seen[domain] = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	for _, d := range domains {
		if !seen[d] {
			t.Fatalf("Walk did not visit %s", d)
		}
	}
}
