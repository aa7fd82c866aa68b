package zonestore

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
)

// PathFor computes the on-disk location of a zone file beneath root:
// <root>/<h[0:2]>/<h[2:4]>/<domain>.json, where h is the lowercase hex
// md5 digest of domain. Sharding keeps any one directory from holding
// every zone file in a large deployment.
func PathFor(root, domain string) string {
	sum := md5.Sum([]byte(domain))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(root, h[0:2], h[2:4], domain+".json")
}
