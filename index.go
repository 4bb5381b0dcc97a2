package main

import (
	"html/template"
	"net/http"

	"glasswing.dev/glasswing/conf"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}}</title>
<link rel="stylesheet" href="/static/style.css">
<link rel="icon" href="/favicon.ico">
<link rel="manifest" href="/app.webmanifest">
</head>
<body>
<header><strong>{{.AppName}}</strong></header>
<main>
<h1>{{.AppName}}</h1>
<p>Headless-browser screenshot capture service.</p>
<ul>
  <li><code>GET /screenshots/v1?url={url}&amp;sel={selector}&amp;full={bool}</code> — PNG screenshot of a page</li>
  <li><code>GET /qr-codes/v1?url={url}</code> — QR Code for a URL</li>
  <li><a href="/dashboard">Dashboard</a></li>
</ul>
</main>
</body>
</html>
`))

func indexHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, struct{ AppName string }{conf.AppName})
}
