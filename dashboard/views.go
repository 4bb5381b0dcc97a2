package dashboard

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/core"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"humanizeTime": func(t time.Time) string { return humanize.Time(t) },
	"deref":        func(b *bool) bool { return b != nil && *b },
	"wordBreakUrl": func(s string) template.HTML { return template.HTML(core.SafeWordBreakUrl(s)) },
}).ParseFS(templateFS, "templates/*.html"))

func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template", tint.Err(err), "template", name)
	}
}
