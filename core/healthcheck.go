package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

func SetupHealthz(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		slog.Info("/healthz: ok", "from", ReadUserIP(req))
		w.Write([]byte("ok"))
	})
}

// VerifyHealthz probes a running instance and returns a process exit code.
func VerifyHealthz(host string, port int) int {
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/healthz"
	client := http.Client{
		Timeout: 5 * time.Second,
	}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("failed: %s\n", resp.Status)
		return 1
	}

	fmt.Println("ok")
	return 0
}

var appWebManifestTemplate = `{
  "name": "%s",
  "start_url": "%s",
  "theme_color": "%s",
  "display": "standalone",
  "icons": [{
    "src": "/static/favicon.svg",
    "type": "image/svg+xml",
    "sizes": "144x144"
  }]
}`

func ServeWebManifest(mux *http.ServeMux, appName, url, themeColor string) {
	mux.HandleFunc("GET /app.webmanifest", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		var dst bytes.Buffer
		json.Compact(&dst, fmt.Appendf(nil, appWebManifestTemplate, appName, url, themeColor))
		w.Write(dst.Bytes())
	})
}
