package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/roof-controller/internal/roof"
	"github.com/sweeney/roof-controller/internal/status"
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
	"onoff": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	"roofClass": func(s roof.State) string {
		switch s {
		case roof.StateOpen:
			return "open"
		case roof.StateClosed:
			return "closed"
		case roof.StateOpening, roof.StateClosing:
			return "moving"
		}
		return "stopped"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Roof Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.open { color: green; font-weight: bold; }
.closed { color: #888; }
.moving { color: orange; font-weight: bold; }
.stopped { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Roof Controller</h1>

<h2>Roof</h2>
<table>
<tr><th>State</th><td id="roof-state" class="{{roofClass .State}}">{{.State}}</td></tr>
<tr><th>Open limit</th><td>{{onoff .Readings.OpenLimit}}</td></tr>
<tr><th>Close limit</th><td>{{onoff .Readings.CloseLimit}}</td></tr>
<tr><th>RA parked</th><td>{{onoff .Readings.RAParked}}</td></tr>
<tr><th>DEC parked</th><td>{{onoff .Readings.DecParked}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Serial</th><td>{{.Config.Device}} @ {{.Config.Baud}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Opens</th><td>{{.Counts.Opens}}</td></tr>
<tr><th>Closes</th><td>{{.Counts.Closes}}</td></tr>
<tr><th>Aborts</th><td>{{.Counts.Aborts}}</td></tr>
<tr><th>Safety cutouts</th><td>{{.Counts.Cutouts}}</td></tr>
<tr><th>Interlock rejections</th><td>{{.Counts.Rejections}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var el = document.getElementById("roof-state");
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var sock = new WebSocket(scheme + location.host + "/api/ws");
  sock.onmessage = function(ev) {
    try {
      var msg = JSON.parse(ev.data);
      if (msg.status) {
        el.textContent = msg.status.roof;
      }
    } catch (e) {}
  };
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
