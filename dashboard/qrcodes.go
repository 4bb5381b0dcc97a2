package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/db"
	"glasswing.dev/glasswing/qrcode"
)

// GET /dashboard/qr-codes - List all generated QR Codes
func qrCodesPageHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	queries := db.New(db.Pool)
	qrCodes, err := queries.ListQrCodes(ctx)
	if err != nil {
		slog.Error("failed to list QR Codes", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "qrcodes.html", map[string]any{
		"AppName": conf.AppName,
		"QrCodes": qrCodes,
	})
}

// POST /dashboard/qr-codes/delete?url=... - Delete a generated QR Code
func deleteQrCodeHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	queries := db.New(db.Pool)

	url := req.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	// Delete the cached file from disk
	if err := qrcode.DeleteCached(url); err != nil {
		slog.Warn("failed to delete cached file", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"status", http.StatusInternalServerError)
		// Continue anyway to remove from the database
	}

	// Delete the row from the database
	err := queries.DeleteQrCode(ctx, url)
	if err != nil {
		slog.Error("failed to delete QR Code", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, req, "/dashboard/qr-codes", http.StatusSeeOther)
}
