package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/db"
)

// GET /dashboard/logs
func logsHandler(w http.ResponseWriter, req *http.Request) {
	queries := db.New(db.Pool)

	page := 1
	if pageStr := req.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	// Fetch total count for pagination
	totalCount, err := queries.CountLogs(req.Context())
	if err != nil {
		slog.Error("failed to count logs", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Fetch paginated items
	limit := int32(conf.Config.Logs.Pagination.Limit)
	offset := int32((page - 1) * int(limit))
	logs, err := queries.GetRecentLogsPaginated(req.Context(), db.GetRecentLogsPaginatedParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		slog.Error("failed to fetch logs", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	render(w, "logs.html", map[string]any{
		"AppName":    conf.AppName,
		"Logs":       logs,
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"TotalPages": totalPages,
		"TotalCount": totalCount,
	})
}
