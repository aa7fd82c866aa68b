// Package validator performs the boot-time sweep of the zones directory:
// every *.json file under the configured root is decoded and validated
// the same way a write-path mutation would be, and any file that fails
// is logged and skipped rather than aborting startup.
package validator

import (
	"log"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

// Result summarizes one scan.
type Result struct {
	Valid   int
	Invalid int
}

// Scan walks root and validates every zone file it finds, following the
// teacher's loadIntoStore shape: log and continue on a bad record rather
// than failing the whole boot sequence. Invalid files are left on disk
// untouched; they simply never get a holder activated for them until
// fixed and re-saved.
func Scan(root string) Result {
	var res Result

	err := zonestore.Walk(root, func(domain string) error {
		zone, err := zonestore.Load(root, domain)
		if err != nil {
			log.Printf("validator: skipping %s: %v", domain, err)
			res.Invalid++
			return nil
		}
		if zone.Name != domain {
			log.Printf("validator: skipping %s: zone name %q does not match file location", domain, zone.Name)
			res.Invalid++
			return nil
		}
		res.Valid++
		return nil
	})
	if err != nil {
		log.Printf("validator: scan of %s failed: %v", root, err)
	}

	return res
}
