// Package resolver implements the authoritative answering algorithm:
// walk a query name's suffix chain to find its owning zone, filter that
// zone's records against the question, and encode matches into a wire
// response message.
package resolver

import (
	"context"
	"errors"

	"github.com/quorumzone/dnsd/internal/wire"
	"github.com/quorumzone/dnsd/internal/zonestore"
)

const rcodeNXDomain = 3

// Cache is the subset of zonecache.Cache the resolver needs: a lookup
// that may fall back to peers on a local miss.
type Cache interface {
	Fetch(ctx context.Context, domain string) (zonestore.Zone, error)
}

// Resolver answers parsed DNS requests against a zone cache.
type Resolver struct {
	Cache      Cache
	DefaultTTL uint32 // applied when a record omits ttl; 0 falls back to 60
}

// New constructs a Resolver backed by cache, applying defaultTTL to
// records that don't specify their own.
func New(cache Cache, defaultTTL uint32) *Resolver {
	return &Resolver{Cache: cache, DefaultTTL: defaultTTL}
}

// Resolve answers req, returning the response message to send back on
// the same socket. It never returns an error: malformed or unanswerable
// questions simply contribute no records.
func (res *Resolver) Resolve(ctx context.Context, req wire.Message) wire.Message {
	resp := wire.Message{
		Header:     req.Header,
		Question:   req.Question,
		Authority:  []wire.RR{},
		Additional: []wire.RR{},
	}
	resp.Header.QR = true
	resp.Header.AA = true
	resp.Header.TC = false
	resp.Header.RA = false

	anyOwned := false
	var answers []wire.RR

	for _, q := range req.Question {
		qname := normalizeQName(q.Name)

		zone, ok := res.findOwningZone(ctx, qname)
		if !ok {
			continue
		}
		anyOwned = true

		for _, rec := range zone.Records {
			if recordName(rec.Name, zone.Name) != qname {
				continue
			}
			if q.QType != wire.TypeANY && rec.Type != q.QType {
				continue
			}
			answers = append(answers, encodeRecord(qname, rec, res.ttl(rec))...)
		}
	}

	if answers == nil {
		answers = []wire.RR{}
	}
	resp.Answer = answers

	if anyOwned {
		resp.Header.Rcode = 0
	} else {
		resp.Header.Rcode = rcodeNXDomain
	}

	if req.OPT != nil {
		resp.Additional = append(resp.Additional, wire.BuildOPT(*req.OPT))
	}

	return resp
}

func (res *Resolver) ttl(rec zonestore.RecordSpec) uint32 {
	if rec.TTL != nil {
		return *rec.TTL
	}
	if res.DefaultTTL != 0 {
		return res.DefaultTTL
	}
	return 60
}

func (res *Resolver) findOwningZone(ctx context.Context, qname string) (zonestore.Zone, bool) {
	for _, suffix := range suffixes(qname) {
		zone, err := res.Cache.Fetch(ctx, suffix)
		if err == nil {
			return zone, true
		}
		if !errors.Is(err, zonestore.ErrNotFound) {
			continue
		}
	}
	return zonestore.Zone{}, false
}
