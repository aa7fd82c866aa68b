package zonecache

import (
	"context"
	"errors"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

type cacheOp int

const (
	opFetch cacheOp = iota
	opFetchLocal
	opCreate
	opUpdate
	opPut
	opDelete
	opApplyChange
)

type cacheMsg struct {
	ctx             context.Context
	op              cacheOp
	domain          string
	action          string // only for opApplyChange
	data            zonestore.Zone
	expectedVersion *int
	resp            chan cacheResult
}

type cacheResult struct {
	zone zonestore.Zone
	err  error
}

// Cache is the singleton mediator between callers (HTTP API, resolver,
// cluster RPC handler) and the set of active zone holders. Every
// operation is serialized through its mailbox, so the domain->holder
// index and on-disk state never race.
type Cache struct {
	root       string
	replicator Replicator
	mailbox    chan cacheMsg
	holders    map[string]*holder
	holderDied chan string
}

// NewCache constructs a cache rooted at the given zones directory and
// starts its actor loop. replicator handles all cross-node RPC.
func NewCache(root string, replicator Replicator) *Cache {
	c := &Cache{
		root:       root,
		replicator: replicator,
		mailbox:    make(chan cacheMsg),
		holders:    make(map[string]*holder),
		holderDied: make(chan string, 16),
	}
	go c.run()
	return c
}

func (c *Cache) run() {
	for {
		select {
		case msg := <-c.mailbox:
			c.handle(msg)
		case domain := <-c.holderDied:
			delete(c.holders, domain)
		}
	}
}

func (c *Cache) send(ctx context.Context, op cacheOp, domain string, data zonestore.Zone, expectedVersion *int) (zonestore.Zone, error) {
	resp := make(chan cacheResult, 1)
	c.mailbox <- cacheMsg{ctx: ctx, op: op, domain: domain, data: data, expectedVersion: expectedVersion, resp: resp}
	r := <-resp
	return r.zone, r.err
}

// Fetch activates D locally if possible; on a local miss it asks the
// replicator to try peers in turn.
func (c *Cache) Fetch(ctx context.Context, domain string) (zonestore.Zone, error) {
	return c.send(ctx, opFetch, domain, zonestore.Zone{}, nil)
}

// FetchLocal behaves like Fetch but never consults peers.
func (c *Cache) FetchLocal(ctx context.Context, domain string) (zonestore.Zone, error) {
	return c.send(ctx, opFetchLocal, domain, zonestore.Zone{}, nil)
}

// Create rejects an existing zone file, otherwise writes, activates,
// and broadcasts data as version 1 (or data.Version if already set).
func (c *Cache) Create(ctx context.Context, domain string, data zonestore.Zone) (zonestore.Zone, error) {
	return c.send(ctx, opCreate, domain, data, nil)
}

// Update requires an explicit expectedVersion and produces
// expectedVersion+1 on success.
func (c *Cache) Update(ctx context.Context, domain string, data zonestore.Zone, expectedVersion int) (zonestore.Zone, error) {
	v := expectedVersion
	return c.send(ctx, opUpdate, domain, data, &v)
}

// Put is the free-form upsert used as the rollback primitive and for
// bulk replacement.
func (c *Cache) Put(ctx context.Context, domain string, data zonestore.Zone) (zonestore.Zone, error) {
	return c.send(ctx, opPut, domain, data, nil)
}

// Delete removes the zone both on disk and from the active index.
func (c *Cache) Delete(ctx context.Context, domain string) error {
	_, err := c.send(ctx, opDelete, domain, zonestore.Zone{}, nil)
	return err
}

// ApplyChange materializes a remotely-originated mutation locally. It
// never itself replicates further; it is the landing point for peer
// RPCs and for rollback RPCs.
func (c *Cache) ApplyChange(ctx context.Context, action, domain string, data zonestore.Zone) error {
	resp := make(chan cacheResult, 1)
	c.mailbox <- cacheMsg{ctx: ctx, op: opApplyChange, action: action, domain: domain, data: data, resp: resp}
	r := <-resp
	return r.err
}

func (c *Cache) handle(msg cacheMsg) {
	switch msg.op {
	case opFetch:
		zone, err := c.fetch(msg.ctx, msg.domain)
		msg.resp <- cacheResult{zone: zone, err: err}
	case opFetchLocal:
		zone, err := c.fetchLocal(msg.domain)
		msg.resp <- cacheResult{zone: zone, err: err}
	case opCreate:
		zone, err := c.create(msg.ctx, msg.domain, msg.data)
		msg.resp <- cacheResult{zone: zone, err: err}
	case opUpdate:
		zone, err := c.update(msg.ctx, msg.domain, msg.data, msg.expectedVersion)
		msg.resp <- cacheResult{zone: zone, err: err}
	case opPut:
		zone, err := c.put(msg.ctx, msg.domain, msg.data)
		msg.resp <- cacheResult{zone: zone, err: err}
	case opDelete:
		err := c.delete(msg.ctx, msg.domain)
		msg.resp <- cacheResult{err: err}
	case opApplyChange:
		err := c.applyChange(msg.action, msg.domain, msg.data)
		msg.resp <- cacheResult{err: err}
	}
}

// activate returns the indexed holder for domain, starting one from
// supplied content (if non-nil) or from storage otherwise.
func (c *Cache) activate(domain string, supplied *zonestore.Zone) (*holder, error) {
	if h, ok := c.holders[domain]; ok {
		return h, nil
	}

	var zone zonestore.Zone
	if supplied != nil {
		zone = *supplied
	} else {
		z, err := zonestore.Load(c.root, domain)
		if err != nil {
			return nil, err
		}
		zone = z
	}

	h := newHolder(c.root, zone, c.holderDied)
	c.holders[domain] = h
	return h, nil
}

func (c *Cache) fetch(ctx context.Context, domain string) (zonestore.Zone, error) {
	h, err := c.activate(domain, nil)
	if err == nil {
		return h.get(), nil
	}
	if !errors.Is(err, zonestore.ErrNotFound) {
		return zonestore.Zone{}, err
	}

	zone, ok, rerr := c.replicator.FetchRemote(ctx, domain)
	if rerr != nil {
		return zonestore.Zone{}, rerr
	}
	if !ok {
		return zonestore.Zone{}, zonestore.ErrNotFound
	}
	return zone, nil
}

func (c *Cache) fetchLocal(domain string) (zonestore.Zone, error) {
	h, err := c.activate(domain, nil)
	if err != nil {
		return zonestore.Zone{}, err
	}
	return h.get(), nil
}

func (c *Cache) create(ctx context.Context, domain string, data zonestore.Zone) (zonestore.Zone, error) {
	if zonestore.Exists(c.root, domain) {
		return zonestore.Zone{}, zonestore.ErrAlreadyExists
	}
	if data.Version == 0 {
		data.Version = 1
	}
	data.Name = domain

	if err := zonestore.Create(c.root, data); err != nil {
		return zonestore.Zone{}, err
	}
	h := newHolder(c.root, data, c.holderDied)
	c.holders[domain] = h

	ok, acked, err := c.replicator.Broadcast(ctx, ActionCreate, domain, data)
	if err != nil {
		return zonestore.Zone{}, err
	}
	if !ok {
		_ = zonestore.Delete(c.root, domain)
		h.stop()
		delete(c.holders, domain)
		c.replicator.Rollback(ctx, ActionCreate, domain, zonestore.Zone{}, acked)
		return zonestore.Zone{}, &QuorumError{Acked: acked}
	}

	return data, nil
}

func (c *Cache) update(ctx context.Context, domain string, data zonestore.Zone, expectedVersion *int) (zonestore.Zone, error) {
	if expectedVersion == nil {
		return zonestore.Zone{}, ErrVersionRequired
	}

	h, err := c.activate(domain, nil)
	if err != nil {
		return zonestore.Zone{}, err
	}

	prev := h.get()
	if prev.Version != *expectedVersion {
		return zonestore.Zone{}, ErrVersionMismatch
	}

	next := data
	next.Name = domain
	next.Version = *expectedVersion + 1

	updated, err := h.put(next)
	if err != nil {
		return zonestore.Zone{}, err
	}

	ok, acked, err := c.replicator.Broadcast(ctx, ActionUpdate, domain, updated)
	if err != nil {
		return zonestore.Zone{}, err
	}
	if !ok {
		_, _ = h.put(prev)
		c.replicator.Rollback(ctx, ActionUpdate, domain, prev, acked)
		return zonestore.Zone{}, &QuorumError{Acked: acked}
	}

	return updated, nil
}

func (c *Cache) put(ctx context.Context, domain string, data zonestore.Zone) (zonestore.Zone, error) {
	_, existed := c.holders[domain]
	var prev zonestore.Zone
	if existed {
		prev = c.holders[domain].get()
	} else if zonestore.Exists(c.root, domain) {
		z, err := zonestore.Load(c.root, domain)
		if err == nil {
			prev = z
			existed = true
		}
	}

	data.Name = domain
	h, err := c.activate(domain, &data)
	if err != nil {
		return zonestore.Zone{}, err
	}

	updated, err := h.put(data)
	if err != nil {
		return zonestore.Zone{}, err
	}

	ok, acked, err := c.replicator.Broadcast(ctx, ActionPut, domain, updated)
	if err != nil {
		return zonestore.Zone{}, err
	}
	if !ok {
		if existed {
			_, _ = h.put(prev)
			c.replicator.Rollback(ctx, ActionPut, domain, prev, acked)
		} else {
			_ = zonestore.Delete(c.root, domain)
			h.stop()
			delete(c.holders, domain)
			c.replicator.Rollback(ctx, ActionCreate, domain, zonestore.Zone{}, acked)
		}
		return zonestore.Zone{}, &QuorumError{Acked: acked}
	}

	return updated, nil
}

func (c *Cache) delete(ctx context.Context, domain string) error {
	h, holderExisted := c.holders[domain]
	var prev zonestore.Zone
	hadPrevContent := false
	if holderExisted {
		prev = h.get()
		hadPrevContent = true
	} else if zonestore.Exists(c.root, domain) {
		z, err := zonestore.Load(c.root, domain)
		if err == nil {
			prev = z
			hadPrevContent = true
		}
	}

	err := zonestore.Delete(c.root, domain)
	if err != nil {
		if errors.Is(err, zonestore.ErrNotFound) && !hadPrevContent {
			return zonestore.ErrNotFound
		}
		if !errors.Is(err, zonestore.ErrNotFound) {
			return err
		}
	}

	if holderExisted {
		h.stop()
		delete(c.holders, domain)
	}

	ok, acked, berr := c.replicator.Broadcast(ctx, ActionDelete, domain, nil)
	if berr != nil {
		return berr
	}
	if !ok {
		if hadPrevContent {
			_ = zonestore.Save(c.root, prev)
			restored := newHolder(c.root, prev, c.holderDied)
			c.holders[domain] = restored
		}
		c.replicator.Rollback(ctx, ActionDelete, domain, prev, acked)
		return &QuorumError{Acked: acked}
	}

	return nil
}

func (c *Cache) applyChange(action, domain string, data zonestore.Zone) error {
	switch action {
	case ActionCreate, ActionUpdate, ActionPut:
		data.Name = domain
		h, err := c.activate(domain, &data)
		if err != nil {
			return err
		}
		_, err = h.put(data)
		return err
	case ActionDelete:
		err := zonestore.Delete(c.root, domain)
		if err != nil && !errors.Is(err, zonestore.ErrNotFound) {
			return err
		}
		if h, ok := c.holders[domain]; ok {
			h.stop()
			delete(c.holders, domain)
		}
		return nil
	default:
		return errors.New("zonecache: unknown action " + action)
	}
}
