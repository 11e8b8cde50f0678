package fixture

import "html/template"

// consolePage logs at several severities, then fetches /api/status and logs
// the result, so the network-idle wait has something to wait for.
const consolePage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Gradebook</title></head>
<body>
<div id="root"><h1>Gradebook</h1><ul id="classes"></ul></div>
<script>
console.log("app booted");
console.info("sessions loaded", 3);
console.warn("using demo data");
fetch("/api/status")
	.then((r) => r.json())
	.then((d) => {
		console.log("status", d.status);
		const list = document.getElementById("classes");
		for (const c of d.classes) {
			const li = document.createElement("li");
			li.textContent = c;
			list.appendChild(li);
		}
		if (d.pending > 0) console.error("pending submissions:", d.pending);
	})
	.catch((err) => console.error("status request failed", String(err)));
</script>
</body>
</html>`

// loadingPageTmpl shows the indicator until the server says ready, then
// removes it or hides it according to Hide. Nested wraps the indicator text in
// a visible element that carries the same text.
var loadingPageTmpl = template.Must(template.New("loading").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<div id="root">{{if .Nested}}<div class="spinner" style="min-height:2em"><span id="loading">Loading...</span></div>{{else}}<div id="loading" class="spinner">Loading...</div>{{end}}</div>
<script>
(() => {
	const hide = {{.Hide}};
	const scheme = location.protocol === "https:" ? "wss:" : "ws:";
	const ws = new WebSocket(scheme + "//" + location.host + "/ws/ready" + location.search);
	ws.onmessage = (ev) => {
		const msg = JSON.parse(ev.data);
		if (!msg.ready) return;
		const indicator = document.getElementById("loading");
		if (hide === "display") {
			indicator.style.display = "none";
		} else if (hide === "visibility") {
			indicator.style.visibility = "hidden";
		} else {
			indicator.remove();
		}
		const main = document.createElement("main");
		const h1 = document.createElement("h1");
		h1.textContent = "Student reports";
		main.appendChild(h1);
		document.getElementById("root").appendChild(main);
		ws.close();
	};
})();
</script>
</body>
</html>`))

type loadingPageData struct {
	Title  string
	Hide   string
	Nested bool
}

// Hide modes of the loading app, chosen with ?hide=.
const (
	hideRemove     = ""
	hideDisplay    = "display"
	hideVisibility = "visibility"
)

func hideMode(v string) string {
	switch v {
	case "1", hideDisplay:
		return hideDisplay
	case hideVisibility:
		return hideVisibility
	default:
		return hideRemove
	}
}
