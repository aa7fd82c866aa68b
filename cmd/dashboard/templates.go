package main

import (
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
)

func urlEscape(v string) string {
	return url.QueryEscape(v)
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

const recentPollsHTML = `
<table id="recent-polls">
  <thead><tr><th>Zone</th><th>Node</th><th>Status</th><th>Records</th><th>Version</th><th>Polled</th></tr></thead>
  <tbody>
    {{range .Recent}}
    <tr>
      <td class="mono">{{.Zone}}</td>
      <td>{{.Node}}</td>
      <td>{{if .Success}}<span class="status-ok">OK</span>{{else}}<span class="status-bad">{{.Error}}</span>{{end}}</td>
      <td>{{.RecordCount}}</td>
      <td>{{.Version}}</td>
      <td class="small" title="{{.PolledAt}}">{{humanTime .PolledAt}}</td>
    </tr>
    {{else}}
    <tr><td colspan="6" class="small">No polls yet.</td></tr>
    {{end}}
  </tbody>
</table>`

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>DNS Dashboard</title>
  <script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
  <style>
    :root { --bg:#f5f7fa; --card:#fff; --txt:#1f2937; --muted:#6b7280; --accent:#0f766e; --ok:#166534; --bad:#b91c1c; }
    * { box-sizing:border-box; }
    body { margin:0; font-family: ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Arial; color:var(--txt); background:var(--bg); }
    .wrap { max-width:1100px; margin:0 auto; padding:20px; }
    .grid { display:grid; gap:16px; grid-template-columns: repeat(auto-fit,minmax(320px,1fr)); }
    .card { background:var(--card); border-radius:12px; padding:16px; box-shadow:0 1px 6px rgba(0,0,0,.07); }
    h1,h2 { margin:0 0 10px; }
    h1 { font-size:24px; }
    h2 { font-size:18px; }
    label { display:block; font-size:13px; margin:8px 0 4px; color:var(--muted); }
    input,select,button,textarea { width:100%; padding:10px; border-radius:8px; border:1px solid #d1d5db; font-family:inherit; }
    textarea { font-family: ui-monospace,SFMono-Regular,Menlo,Consolas,monospace; font-size:12px; min-height:180px; }
    button { background:var(--accent); border:none; color:white; font-weight:600; margin-top:10px; cursor:pointer; }
    table { width:100%; border-collapse:collapse; font-size:13px; }
    th,td { padding:8px; border-bottom:1px solid #e5e7eb; text-align:left; vertical-align:top; }
    .status-ok { color:var(--ok); font-weight:600; }
    .status-bad { color:var(--bad); font-weight:600; }
    .mono { font-family: ui-monospace,SFMono-Regular,Menlo,Consolas,monospace; }
    .small { color:var(--muted); font-size:12px; }
  </style>
</head>
<body data-on-load="@get('/live')">
  <div class="wrap">
    <h1>DNS Cluster Dashboard</h1>
    <p class="small">Fan out zone actions to all registered DNS nodes. Time: {{.Now}}</p>
    {{if .Message}}<p><strong>{{.Message}}</strong></p>{{end}}

    <div class="grid">
      <section class="card">
        <h2>Add DNS Node</h2>
        <form method="post" action="/endpoints">
          <label>Name</label><input name="name" placeholder="node-vilnius" required>
          <label>Base URL</label><input name="base_url" placeholder="http://10.1.0.2:8080" required>
          <label>API Token</label><input name="token" placeholder="Authentication bearer token for this node">
          <button type="submit">Add Node</button>
        </form>
      </section>

      <section class="card">
        <h2>Registered Nodes</h2>
        {{if .Endpoints}}
        <table>
          <thead><tr><th>Name</th><th>URL</th><th></th></tr></thead>
          <tbody>
            {{range .Endpoints}}
            <tr>
              <td>{{.Name}}</td>
              <td class="mono">{{.BaseURL}}</td>
              <td>
                <form method="post" action="/endpoints/delete">
                  <input type="hidden" name="id" value="{{.ID}}">
                  <button type="submit">Remove</button>
                </form>
              </td>
            </tr>
            {{end}}
          </tbody>
        </table>
        {{else}}
        <p>No nodes registered yet.</p>
        {{end}}
      </section>
    </div>

    <div class="grid" style="margin-top:16px;">
      <section class="card">
        <h2>Fetch Zone</h2>
        <form method="post" action="/actions/zone-fetch">
          <label>Zone</label><input name="zone" placeholder="cloudroof.eu" required>
          <button type="submit">Fetch From All Nodes</button>
        </form>
        <p class="small">Loads the zone document from the first node that has it into the editor below.</p>
      </section>

      <section class="card">
        <h2>Delete Zone</h2>
        <form method="post" action="/actions/zone-delete">
          <label>Zone</label><input name="zone" placeholder="cloudroof.eu" required>
          <button type="submit">Delete On All Nodes</button>
        </form>
      </section>
    </div>

    <section class="card" style="margin-top:16px;">
      <h2>Zone Editor (whole zone document)</h2>
      <form method="post" action="/actions/zone-upsert">
        <label>Zone</label><input name="zone" placeholder="cloudroof.eu" required>
        <label>Zone JSON (name / version / records)</label>
        <textarea name="zone_json" placeholder='{"name":"cloudroof.eu","version":1,"records":[{"type":"A","data":"203.0.113.10"}]}'>{{.ZoneJSON}}</textarea>
        <button type="submit">Upsert On All Nodes</button>
      </form>
      <p class="small">Each node stores the document as given, version included; the node's current version is not checked. A node that fails does not affect the others.</p>
    </section>

    {{if .Results}}
    <section class="card" style="margin-top:16px;">
      <h2>Action Results</h2>
      <table>
        <thead><tr><th>Node</th><th>Action</th><th>Status</th><th>Body / Error</th></tr></thead>
        <tbody>
          {{range .Results}}
          <tr>
            <td>{{.Endpoint}}</td>
            <td class="mono">{{.Action}}</td>
            <td>{{if .Success}}<span class="status-ok">OK {{.Status}}</span>{{else}}<span class="status-bad">FAIL</span>{{end}}</td>
            <td class="mono">{{if .Error}}{{.Error}}{{else}}{{.Body}}{{end}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </section>
    {{end}}

    <section class="card" style="margin-top:16px;">
      <h2>Recent Polls <span class="small">(live)</span></h2>
      <div id="recent-polls-wrap">
      ` + recentPollsHTML + `
      </div>
    </section>
  </div>
</body>
</html>`
