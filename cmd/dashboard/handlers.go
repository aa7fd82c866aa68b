package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/quorumzone/dnsd/internal/zonestore"
)

type actionResult struct {
	Endpoint string
	Action   string
	Success  bool
	Status   int
	Body     string
	Error    string
}

type pageData struct {
	Endpoints []endpoint
	ZoneName  string
	ZoneJSON  string
	Results   []actionResult
	Recent    []pollRecord
	Message   string
	Now       string
}

type server struct {
	reg        *registry
	httpClient *http.Client
	tpl        *template.Template
	liveTpl    *template.Template
}

func newServer(reg *registry) (*server, error) {
	funcs := template.FuncMap{"humanTime": humanTime}

	tpl, err := template.New("index").Funcs(funcs).Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	liveTpl, err := template.New("live").Funcs(funcs).Parse(recentPollsHTML)
	if err != nil {
		return nil, fmt.Errorf("parse live template: %w", err)
	}

	return &server{
		reg:        reg,
		httpClient: defaultHTTPClient(),
		tpl:        tpl,
		liveTpl:    liveTpl,
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/endpoints", s.handleAddEndpoint)
	mux.HandleFunc("/endpoints/delete", s.handleDeleteEndpoint)
	mux.HandleFunc("/actions/zone-fetch", s.handleZoneFetch)
	mux.HandleFunc("/actions/zone-upsert", s.handleZoneUpsert)
	mux.HandleFunc("/actions/zone-delete", s.handleZoneDelete)
	mux.HandleFunc("/live", s.handleLive)
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eps, err := s.reg.list()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := s.reg.recentPolls(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.render(w, pageData{
		Endpoints: eps,
		Recent:    recent,
		Message:   strings.TrimSpace(r.URL.Query().Get("msg")),
		Now:       time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleAddEndpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := s.reg.add(r.FormValue("name"), r.FormValue("base_url"), r.FormValue("token"))
	if err != nil {
		http.Redirect(w, r, "/?msg="+urlEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?msg=Endpoint+added", http.StatusSeeOther)
}

func (s *server) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var id uint
	if _, err := fmt.Sscanf(strings.TrimSpace(r.FormValue("id")), "%d", &id); err != nil || id == 0 {
		http.Redirect(w, r, "/?msg=Missing+endpoint+id", http.StatusSeeOther)
		return
	}

	if err := s.reg.delete(id); err != nil {
		http.Redirect(w, r, "/?msg="+urlEscape(err.Error()), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?msg=Endpoint+deleted", http.StatusSeeOther)
}

// handleZoneFetch pulls one zone from every registered node concurrently,
// records each outcome to poll history (driving the /live SSE view), and
// shows the first successful response's JSON in the editor textarea.
func (s *server) handleZoneFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	zone := normalizeZoneName(r.FormValue("zone"))
	if zone == "" {
		s.renderResults(w, "zone-fetch", "", results1("zone-fetch", "zone name is required"))
		return
	}

	results, sample := s.broadcastFetch(r.Context(), zone)
	s.renderResults(w, "zone-fetch", sample, results)
}

// handleZoneUpsert broadcasts a hand-edited zone document to every node.
func (s *server) handleZoneUpsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	zoneName := normalizeZoneName(r.FormValue("zone"))
	doc := strings.TrimSpace(r.FormValue("zone_json"))
	if zoneName == "" || doc == "" {
		s.renderResults(w, "zone-upsert", doc, results1("zone-upsert", "zone name and zone json are required"))
		return
	}

	var zone zonestore.Zone
	if err := json.Unmarshal([]byte(doc), &zone); err != nil {
		s.renderResults(w, "zone-upsert", doc, results1("zone-upsert", "invalid zone json: "+err.Error()))
		return
	}
	zone.Name = zoneName

	eps, err := s.reg.list()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	results := s.broadcast(eps, "PUT /zones/"+zoneName, func(ctx context.Context, c *nodeClient) (int, string, error) {
		err := c.upsertZone(ctx, zoneName, zone)
		return len(zone.Records), "", err
	})

	s.renderResults(w, "zone-upsert", doc, results)
}

func (s *server) handleZoneDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	zoneName := normalizeZoneName(r.FormValue("zone"))
	if zoneName == "" {
		s.renderResults(w, "zone-delete", "", results1("zone-delete", "zone name is required"))
		return
	}

	eps, err := s.reg.list()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	results := s.broadcast(eps, "DELETE /zones/"+zoneName, func(ctx context.Context, c *nodeClient) (int, string, error) {
		return 0, "", c.deleteZone(ctx, zoneName)
	})

	s.renderResults(w, "zone-delete", "", results)
}

// handleLive is a datastar SSE endpoint: it patches the recent-polls
// fragment every two seconds so an operator watching the page sees poll
// history update without a manual refresh.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		recent, err := s.reg.recentPolls(50)
		if err == nil {
			var buf strings.Builder
			if err := s.liveTpl.Execute(&buf, pageData{Recent: recent}); err == nil {
				sse.PatchElements(buf.String())
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// broadcastFetch fetches zone from every node concurrently, records a
// poll_records row per node, and returns both the per-node results and
// the first successful zone document (pretty-printed) for the editor.
func (s *server) broadcastFetch(ctx context.Context, zone string) ([]actionResult, string) {
	eps, err := s.reg.list()
	if err != nil {
		return []actionResult{{Action: "zone-fetch", Error: err.Error()}}, ""
	}
	if len(eps) == 0 {
		return []actionResult{{Action: "zone-fetch", Error: "no endpoints configured"}}, ""
	}

	results := make([]actionResult, len(eps))
	samples := make([]string, len(eps))

	var wg sync.WaitGroup
	for i, ep := range eps {
		wg.Add(1)
		go func(i int, ep endpoint) {
			defer wg.Done()
			res := actionResult{Endpoint: ep.Name, Action: "GET /zones/" + zone}

			fctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			z, err := newNodeClient(ep, s.httpClient).fetchZone(fctx, zone)
			poll := pollRecord{Zone: zone, PolledAt: time.Now().UTC()}
			if err != nil {
				res.Error = err.Error()
				poll.Error = err.Error()
			} else {
				res.Success = true
				res.Status = http.StatusOK
				poll.Success = true
				poll.RecordCount = len(z.Records)
				poll.Version = z.Version
				if b, mErr := json.MarshalIndent(z, "", "  "); mErr == nil {
					samples[i] = string(b)
				}
			}
			_ = s.reg.recordPoll(ep.ID, poll)
			results[i] = res
		}(i, ep)
	}
	wg.Wait()

	for _, sample := range samples {
		if sample != "" {
			return results, sample
		}
	}
	return results, ""
}

// broadcast runs action against every endpoint concurrently, the same
// fan-out-and-wait pattern the teacher's broadcastJSON uses.
func (s *server) broadcast(eps []endpoint, label string, action func(ctx context.Context, c *nodeClient) (recordCount int, body string, err error)) []actionResult {
	if len(eps) == 0 {
		return []actionResult{{Action: label, Error: "no endpoints configured"}}
	}

	results := make([]actionResult, len(eps))
	var wg sync.WaitGroup
	for i, ep := range eps {
		wg.Add(1)
		go func(i int, ep endpoint) {
			defer wg.Done()
			res := actionResult{Endpoint: ep.Name, Action: label}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			count, body, err := action(ctx, newNodeClient(ep, s.httpClient))
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Success = true
				res.Status = http.StatusOK
				res.Body = body
			}
			results[i] = res

			zone := strings.TrimPrefix(strings.TrimPrefix(label, "PUT /zones/"), "DELETE /zones/")
			_ = s.reg.recordPoll(ep.ID, pollRecord{
				Zone:        zone,
				Success:     err == nil,
				Error:       errString(err),
				RecordCount: count,
				PolledAt:    time.Now().UTC(),
			})
		}(i, ep)
	}
	wg.Wait()
	return results
}

func (s *server) render(w http.ResponseWriter, data pageData) {
	if err := s.tpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *server) renderResults(w http.ResponseWriter, action, zoneJSON string, results []actionResult) {
	eps, _ := s.reg.list()
	recent, _ := s.reg.recentPolls(50)
	s.render(w, pageData{
		Endpoints: eps,
		Results:   results,
		Recent:    recent,
		ZoneJSON:  zoneJSON,
		Message:   "Action: " + action,
		Now:       time.Now().UTC().Format(time.RFC3339),
	})
}

func results1(action, errMsg string) []actionResult {
	return []actionResult{{Action: action, Error: errMsg}}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func normalizeZoneName(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.TrimSuffix(v, ".")
}
