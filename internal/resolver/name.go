package resolver

import (
	"strings"

	"github.com/miekg/dns"
)

// normalizeQName lowercases and strips the trailing dot from a decoded
// QNAME, matching the form zone names are stored under.
func normalizeQName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, ".")
	if n == "" {
		return "."
	}
	return n
}

// suffixes returns [qname, drop_first_label(qname), ..., top-label] for
// the owning-zone walk, built from miekg/dns's label-splitting helpers
// the way the teacher's bestZone/inferZone do it.
func suffixes(qname string) []string {
	if qname == "." {
		return []string{"."}
	}

	labels := dns.SplitDomainName(dns.Fqdn(qname))
	out := make([]string, 0, len(labels))
	for i := range labels {
		out = append(out, strings.Join(labels[i:], "."))
	}
	return out
}

// recordName expands a RecordSpec's name field relative to its owning
// zone: absent/""/"@" means the zone apex, an unqualified label is
// qualified as <label>.<zone>, and a dotted value is taken as-is.
func recordName(name, zone string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "@" {
		return zone
	}
	if strings.Contains(name, ".") {
		return strings.ToLower(strings.TrimSuffix(name, "."))
	}
	return strings.ToLower(name) + "." + zone
}
