package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/carpark-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"seconds": func(d time.Duration) string {
		return fmt.Sprintf("%.1fs", d.Seconds())
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Carpark {{.Config.LotName}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.occupied { color: red; font-weight: bold; }
.vacant { color: green; }
.full { color: red; font-weight: bold; }
.available { color: green; font-weight: bold; }
.open { color: orange; font-weight: bold; }
.closed { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Carpark {{.Config.LotName}}</h1>

<h2>Slots ({{.Lot.Occupied}}/{{.Lot.SlotCount}} occupied)</h2>
<table>
{{range .Lot.Slots}}<tr><th>{{.Name}}</th><td class="{{if .Occupied}}occupied{{else}}vacant{{end}}">{{if .Occupied}}OCCUPIED{{else}}VACANT{{end}}</td></tr>
{{end}}<tr><th>Indicator</th><td class="{{if eq (printf "%s" .LED) "FULL"}}full{{else}}available{{end}}">{{.LED}}</td></tr>
</table>

{{if .Config.BarrierEnabled}}<h2>Barrier</h2>
<table>
<tr><th>Position</th><td class="{{if eq (printf "%s" .Barrier) "OPEN"}}open{{else}}closed{{end}}">{{.Barrier}}</td></tr>
{{if eq (printf "%s" .Barrier) "OPEN"}}<tr><th>Auto-close in</th><td>{{seconds .BarrierRemaining}}</td></tr>{{end}}
</table>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{with .Network}}<tr><th>Network</th><td>{{.Type}} {{.Status}}</td></tr>
<tr><th>IP</th><td>{{.IP}}</td></tr>
{{if .SSID}}<tr><th>WiFi</th><td>{{.SSID}} ({{.WifiStatus}})</td></tr>{{end}}
{{end}}</table>

<h2>Event Counts</h2>
<table>
<tr><th>Slot occupied</th><td>{{.Counts.Occupied}}</td></tr>
<tr><th>Slot vacated</th><td>{{.Counts.Vacated}}</td></tr>
<tr><th>Button pressed</th><td>{{.Counts.Presses}}</td></tr>
<tr><th>Barrier opened</th><td>{{.Counts.BarrierOpens}}</td></tr>
<tr><th>Barrier closed</th><td>{{.Counts.BarrierCloses}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Button debounce</th><td>{{.Config.ButtonDebounceMs}}ms</td></tr>
<tr><th>Barrier auto-close</th><td>{{.Config.AutoCloseMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/status.json">JSON</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
