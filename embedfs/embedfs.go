package embedfs

import (
	"embed"
	"net/http"

	"glasswing.dev/glasswing/core"
)

//go:embed static
var staticFiles embed.FS

// DefaultCardTemplate renders a plain preview card for pages that don’t
// carry a capture selector of their own. Fields: Title, Description, Url.
//
//go:embed templates/card.html
var DefaultCardTemplate string

func ServeStaticFS(mux *http.ServeMux) {
	mux.Handle("GET /static/", core.MaxAgeHandler(http.FileServer(http.FS(staticFiles))))
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, staticFiles, "static/favicon.svg")
	})
}
