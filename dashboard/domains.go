package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/db"
)

// GET /dashboard/domains - List all domains
func domainsPageHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	queries := db.New(db.Pool)
	domains, err := queries.ListDomains(ctx)
	if err != nil {
		slog.Error("failed to list domains", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "domains.html", map[string]any{
		"AppName": conf.AppName,
		"Domains": domains,
	})
}

// POST /dashboard/domains/domain - Add a new domain, or update existing one if present.
func putDomainHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	queries := db.New(db.Pool)

	err := req.ParseForm()
	if err != nil {
		slog.Error("failed to parse form", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusBadRequest)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	domain := strings.TrimSpace(req.FormValue("domain"))
	if domain == "" {
		err := fmt.Errorf("empty domain")
		slog.Error(err.Error(), tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusBadRequest)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	includeSubdomains := req.FormValue("include_subdomains") == "on"
	authorizeAction := strings.ToLower(req.FormValue("authorized"))

	_, err = queries.UpsertDomain(ctx, db.UpsertDomainParams{
		Domain:            domain,
		IncludeSubdomains: &includeSubdomains,
		Authorized:        isAuthorizedAction(authorizeAction),
	})
	if err != nil {
		slog.Error("failed to update domain", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, req, "/dashboard/domains", http.StatusSeeOther)
}

// POST /dashboard/domains/delete?domain=example.com - Delete a domain
func deleteDomainHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	queries := db.New(db.Pool)

	domain := req.URL.Query().Get("domain")
	err := queries.DeleteDomain(ctx, domain)
	if err != nil {
		slog.Error("failed to delete domain", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, req, "/dashboard/domains", http.StatusSeeOther)
}

func isAuthorizedAction(action string) bool {
	return action == "authorize" || action == "on" || action == "true"
}
