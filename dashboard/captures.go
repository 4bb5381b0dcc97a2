package dashboard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"net/http"
	"runtime"

	nativewebp "github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/core"
	"glasswing.dev/glasswing/db"
	"glasswing.dev/glasswing/screenshots"
	"glasswing.dev/glasswing/validation"
)

var (
	compressionSem chan struct{}
	ThumbnailCache *core.DiskCache
)

func init() {
	compressionSem = make(chan struct{}, runtime.NumCPU()*4)
}

// GET /dashboard/captures - List all recorded captures
func capturesPageHandler(w http.ResponseWriter, req *http.Request) {
	slog.Debug("capturesPageHandler", "url", req.Method+" "+req.URL.String())

	ctx := req.Context()
	queries := db.New(db.Pool)
	captures, err := queries.ListCaptures(ctx)
	if err != nil {
		slog.Error("failed to list captures", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", req.URL.String(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "captures.html", map[string]any{
		"AppName":  conf.AppName,
		"Captures": captures,
	})
}

// GET /dashboard/captures/user-agents - Breakdown of captures by canonical user agent
func captureUserAgentsHandler(w http.ResponseWriter, req *http.Request) {
	slog.Debug("captureUserAgentsHandler", "url", req.Method+" "+req.URL.String())

	queries := db.New(db.Pool)
	userAgents, err := queries.ListCaptureUserAgents(req.Context())
	if err != nil {
		slog.Error("failed to list capture user agents", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "useragents.html", map[string]any{
		"AppName":    conf.AppName,
		"UserAgents": userAgents,
	})
}

// POST /dashboard/captures/delete?url=... - Delete a recorded capture
func deleteCaptureHandler(w http.ResponseWriter, req *http.Request) {
	slog.Debug("deleteCaptureHandler", "url", req.Method+" "+req.URL.String())

	ctx := req.Context()
	queries := db.New(db.Pool)

	url := req.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	// Delete the rows from the database; each row names the selector it was
	// captured with, so every cached variant can be evicted as well.
	selectors, err := queries.DeleteCapture(ctx, url)
	if err != nil {
		slog.Error("failed to delete capture", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, selector := range selectors {
		if err := screenshots.DeleteCached(url, selector); err != nil {
			slog.Warn("failed to delete cached file", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"selector", selector)
		}
	}
	if ThumbnailCache != nil {
		_ = ThumbnailCache.Delete(url)
	}

	http.Redirect(w, req, "/dashboard/captures", http.StatusSeeOther)
}

// GET /dashboard/captures/image?url={url}
// Serves a resized and compressed version of the cached capture image.
func serveCaptureThumbnailHandler(w http.ResponseWriter, req *http.Request) {
	slog.Debug("serveCaptureThumbnailHandler", "url", req.Method+" "+req.URL.String())

	reqUrl := req.URL.Query().Get("url")
	if reqUrl == "" {
		err := fmt.Errorf("missing URL parameter")
		slog.Error("missing URL parameter", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", reqUrl,
			"status", http.StatusBadRequest)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := validation.Canonicalize(reqUrl)
	if err != nil {
		slog.Error("URL validation failed", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", reqUrl,
			"status", http.StatusBadRequest)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	url := u.String()

	if ThumbnailCache != nil {
		if webp, err := ThumbnailCache.Find(url); err == nil && webp != nil {
			slog.Debug("serving from thumbnail cache", "url", url)
			w.Header().Set("Content-Type", "image/webp")
			w.Header().Set("Cache-Control", "public, max-age=31536000") // 1 year cache
			w.Write(webp)
			return
		}
	}

	if screenshots.Cache == nil {
		err := fmt.Errorf("preview unavailable for %s", url)
		slog.Error("cache disabled", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", u.Hostname(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	png, err := screenshots.Cache.Find(url + "#page-preview")
	if err != nil {
		err = fmt.Errorf("url: %s, %w", url, err)
		slog.Error("error during cache lookup", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", u.Hostname(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if png == nil {
		err := fmt.Errorf("cached capture not found")
		slog.Error("cached capture not found", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", u.Hostname(),
			"status", http.StatusNotFound)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// Decode the PNG image from the cache & compress it to WebP on the fly.
	compressionSem <- struct{}{}
	defer func() { <-compressionSem }()

	img, _, err := image.Decode(bytes.NewReader(png))
	if err != nil {
		slog.Error("Error decoding capture image", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", u.Hostname(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Use NearestNeighbor for simplicity & speed, since we’re only scaling down, never up.
	resized := imaging.Resize(img, 600, 0, imaging.NearestNeighbor)

	slog.Debug("image scaled successfully",
		"method", req.Method,
		"path", req.URL.Path,
		"url", url,
		"hostname", u.Hostname())

	// Encode as WebP.
	var webpBuf bytes.Buffer
	if err := nativewebp.Encode(&webpBuf, resized, &nativewebp.Options{}); err != nil {
		slog.Error("failed to encode WebP", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", u.Hostname(),
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	webpData := webpBuf.Bytes()

	if ThumbnailCache != nil {
		go ThumbnailCache.Write(url, webpData)
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=31536000") // 1 year cache
	w.Write(webpData)

	slog.Debug("image converted to WebP & served successfully",
		"method", req.Method,
		"path", req.URL.Path,
		"url", url,
		"hostname", u.Hostname())
}
