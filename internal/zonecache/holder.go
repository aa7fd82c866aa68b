package zonecache

import (
	"github.com/quorumzone/dnsd/internal/zonestore"
)

// holder is the single-writer custodian of one zone's current content.
// All access goes through its mailbox so get/put are strictly ordered:
// a reader never observes a partially-applied mutation.
type holder struct {
	domain  string
	root    string
	current zonestore.Zone
	mailbox chan holderMsg
	done    chan struct{}
}

type holderOp int

const (
	holderGet holderOp = iota
	holderPut
	holderStop
)

type holderMsg struct {
	op   holderOp
	zone zonestore.Zone
	resp chan holderResult
}

type holderResult struct {
	zone zonestore.Zone
	err  error
}

// newHolder starts the holder's goroutine with zone as its initial
// content. died receives the domain name if the run loop ever exits
// abnormally, so the cache can drop it from its index.
func newHolder(root string, zone zonestore.Zone, died chan<- string) *holder {
	h := &holder{
		domain:  zone.Name,
		root:    root,
		current: zone,
		mailbox: make(chan holderMsg),
		done:    make(chan struct{}),
	}
	go h.run(died)
	return h
}

func (h *holder) run(died chan<- string) {
	crashed := true
	defer func() {
		if r := recover(); r != nil {
			crashed = true
		}
		if crashed {
			select {
			case died <- h.domain:
			default:
			}
		}
		close(h.done)
	}()

	for msg := range h.mailbox {
		switch msg.op {
		case holderGet:
			msg.resp <- holderResult{zone: h.current}
		case holderPut:
			if err := zonestore.Save(h.root, msg.zone); err != nil {
				msg.resp <- holderResult{err: err}
				continue
			}
			h.current = msg.zone
			msg.resp <- holderResult{zone: h.current}
		case holderStop:
			crashed = false
			msg.resp <- holderResult{}
			return
		}
	}
}

func (h *holder) get() zonestore.Zone {
	resp := make(chan holderResult, 1)
	h.mailbox <- holderMsg{op: holderGet, resp: resp}
	return (<-resp).zone
}

// put persists zone via atomic write then swaps it in as the holder's
// current content. If the write fails, current is left unchanged and
// the error is returned verbatim.
func (h *holder) put(zone zonestore.Zone) (zonestore.Zone, error) {
	resp := make(chan holderResult, 1)
	h.mailbox <- holderMsg{op: holderPut, zone: zone, resp: resp}
	r := <-resp
	return r.zone, r.err
}

func (h *holder) stop() {
	resp := make(chan holderResult, 1)
	select {
	case h.mailbox <- holderMsg{op: holderStop, resp: resp}:
		<-resp
	case <-h.done:
	}
}
