package resolver

import (
	"net"

	"github.com/quorumzone/dnsd/internal/wire"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

// encodeRecord expands one RecordSpec into zero or more answer RRs
// owned by qname. A record whose data can't be encoded for its type
// (bad IP literal, wrong shape) contributes no RRs rather than failing
// the whole response.
func encodeRecord(qname string, rec zonestore.RecordSpec, ttl uint32) []wire.RR {
	var out []wire.RR

	switch rec.Type {
	case wire.TypeA:
		for _, s := range stringValues(rec.Data) {
			ip := net.ParseIP(s)
			if ip == nil {
				continue
			}
			ip4 := ip.To4()
			if ip4 == nil {
				continue
			}
			out = append(out, rr(qname, rec, ttl, wire.AData{IP: ip4}))
		}

	case wire.TypeAAAA:
		for _, s := range stringValues(rec.Data) {
			ip := net.ParseIP(s)
			if ip == nil || ip.To4() != nil {
				continue
			}
			out = append(out, rr(qname, rec, ttl, wire.AAAAData{IP: ip.To16()}))
		}

	case wire.TypeNS:
		for _, s := range stringValues(rec.Data) {
			out = append(out, rr(qname, rec, ttl, wire.NSData{Name: s}))
		}

	case wire.TypeCNAME:
		for _, s := range stringValues(rec.Data) {
			out = append(out, rr(qname, rec, ttl, wire.CNAMEData{Name: s}))
		}

	case wire.TypePTR:
		for _, s := range stringValues(rec.Data) {
			out = append(out, rr(qname, rec, ttl, wire.PTRData{Name: s}))
		}

	case wire.TypeTXT:
		for _, s := range stringValues(rec.Data) {
			out = append(out, rr(qname, rec, ttl, wire.NewTXTData(s)))
		}

	case wire.TypeMX:
		for _, m := range mxValues(rec.Data) {
			out = append(out, rr(qname, rec, ttl, wire.MXData{Preference: m.Preference, Exchange: m.Exchange}))
		}

	case wire.TypeSOA:
		if soa, ok := rec.Data.(zonestore.SOAEntry); ok {
			out = append(out, rr(qname, rec, ttl, wire.SOAData{
				MName: soa.MName, RName: soa.RName,
				Serial: soa.Serial, Refresh: soa.Refresh, Retry: soa.Retry,
				Expire: soa.Expire, Minimum: soa.Minimum,
			}))
		}
	}

	return out
}

func rr(qname string, rec zonestore.RecordSpec, ttl uint32, data wire.RData) wire.RR {
	return wire.RR{Name: qname, Type: rec.Type, Class: rec.Class, TTL: ttl, Data: data}
}

func stringValues(data any) []string {
	switch v := data.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	default:
		return nil
	}
}

func mxValues(data any) []zonestore.MXEntry {
	switch v := data.(type) {
	case zonestore.MXEntry:
		return []zonestore.MXEntry{v}
	case []zonestore.MXEntry:
		return v
	default:
		return nil
	}
}
