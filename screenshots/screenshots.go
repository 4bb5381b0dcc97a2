package screenshots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/conf"
	"glasswing.dev/glasswing/core"
	"glasswing.dev/glasswing/db"
	"glasswing.dev/glasswing/embedfs"
	"glasswing.dev/glasswing/validation"
)

var Cache *core.DiskCache

var selectorRegex = regexp.MustCompile(`^[#.][a-zA-Z0-9_-]+$`)

func Init(mux *http.ServeMux) {
	if *conf.Config.Screenshots.Cache.Enabled {
		Cache = core.NewDiskCache(
			filepath.Join(conf.Config.DataDir, "cache", "screenshots"),
			core.WithTTL(conf.Config.Screenshots.Cache.TTL),
			core.WithMaxSize(conf.Config.Screenshots.Cache.MaxSizeBytes),
		)
	} // else cache will be nil

	mux.HandleFunc("GET /screenshots/v1", handleScreenshot)
}

// GET /screenshots/v1?url={url}&sel={selector}&full={bool}
// Validates the URL, checks if it’s cached, generates screenshots, and serves them.
func handleScreenshot(w http.ResponseWriter, req *http.Request) {
	slog.Debug("handleScreenshot", "url", req.Method+" "+req.URL.String())

	reqUrl := req.URL.Query().Get("url")
	userAgent := req.Header.Get("User-Agent")
	queries := db.New(db.Pool)

	url, hostname, err := validation.ValidateUrl(req.Context(), queries, reqUrl)
	if err != nil {
		slog.Error("URL validation failed", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", reqUrl,
			"hostname", hostname,
			"user-agent", userAgent,
			"status", http.StatusUnauthorized)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	fullPage := req.URL.Query().Get("full") == "true"
	selector := req.URL.Query().Get("sel")
	if selector == "" {
		selector = "#page-preview"
	} else if !selectorRegex.MatchString(selector) {
		err := fmt.Errorf("invalid selector")
		slog.Error("selector validation failed", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", reqUrl,
			"hostname", hostname,
			"user-agent", userAgent,
			"status", http.StatusBadRequest)
		http.Error(w, "invalid selector", http.StatusBadRequest)
		return
	}

	// Full-page captures are keyed and recorded under ":full" instead of a selector.
	cacheSelector := selector
	if fullPage {
		cacheSelector = ":full"
	}
	cacheKey := url + cacheSelector

	var cached []byte
	if Cache != nil {
		cached, err = Cache.Find(cacheKey)
		if err != nil {
			err = fmt.Errorf("url: %s, %w", url, err)
			slog.Error("error during cache lookup", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"hostname", hostname,
				"status", http.StatusInternalServerError)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if cached != nil {
		slog.Info("cached screenshot served",
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", hostname,
			"status", http.StatusOK)
		w.Header().Set("Content-Type", "image/png")
		w.Write(cached)
		recordCaptureAccessed(url, cacheSelector)
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), conf.Config.Screenshots.Timeout)
	defer cancel()

	screenshot, err := core.Capture(ctx, core.CaptureRequest{
		Url:      url,
		Selector: selector,
		FullPage: fullPage,
		Width:    conf.Config.Screenshots.Viewport.Width,
		Height:   conf.Config.Screenshots.Viewport.Height,
	})
	if err != nil {
		if !errors.Is(err, core.ErrMissingSelector) {
			err = fmt.Errorf("url: %s, %w", url, err)
			slog.Error("error taking screenshot", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"hostname", hostname,
				"status", http.StatusInternalServerError)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		slog.Info("attempting with default template",
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"hostname", hostname,
			"status", http.StatusOK)
		title, description, fetchErr := core.FetchTitleAndDescription(ctx, url)
		if fetchErr != nil {
			err = fmt.Errorf("fetchTitleAndDescription failed: %w", fetchErr)
		} else {
			screenshot, err = core.CaptureWithTemplate(ctx,
				embedfs.DefaultCardTemplate, url, "#page-preview", title, description,
				conf.Config.Screenshots.Viewport.Width,
				conf.Config.Screenshots.Viewport.Height)
		}
		if err != nil {
			err = fmt.Errorf("url: %s, %w", url, err)
			slog.Error("error using default template", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"hostname", hostname,
				"status", http.StatusInternalServerError)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if compressed, err := core.CompressPNG(screenshot); err != nil {
		slog.Warn("failed to compress screenshot", tint.Err(err), "url", url)
	} else {
		screenshot = compressed
	}

	if Cache != nil {
		if err := Cache.Write(cacheKey, screenshot); err != nil {
			err = fmt.Errorf("error writing to cache: %s, %w", url, err)
			slog.Error("error writing to cache", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"hostname", hostname,
				"status", http.StatusInternalServerError)
			// Still continue serving the image to clients even if caching failed.
		}
	}

	slog.Info("new screenshot generated",
		"method", req.Method,
		"path", req.URL.Path,
		"url", url,
		"hostname", hostname,
		"status", http.StatusOK)
	w.Header().Set("Content-Type", "image/png")
	w.Write(screenshot)
	recordCaptureCreated(url, cacheSelector, hostname, userAgent)
}

// Record when a capture is created (for the first time)
func recordCaptureCreated(url, selector, hostname, userAgent string) {
	queries := db.New(db.Pool)
	canonical := core.GetCanonicalUserAgent(userAgent)
	err := queries.RecordCaptureCreated(context.Background(), db.RecordCaptureCreatedParams{
		Url:       url,
		Selector:  selector,
		Hostname:  hostname,
		UserAgent: &canonical,
	})
	if err != nil {
		slog.Error("failed to record capture created", tint.Err(err))
	}
	// Don’t return an error to the caller; fulfill the request anyway.
}

// Record when a capture is served from the cache
func recordCaptureAccessed(url, selector string) {
	queries := db.New(db.Pool)
	err := queries.RecordCaptureAccessed(context.Background(), db.RecordCaptureAccessedParams{
		Url:      url,
		Selector: selector,
	})
	if err != nil {
		slog.Error("failed to record capture accessed", tint.Err(err))
	}
	// Don’t return an error to the caller; fulfill the request anyway.
}

// DeleteCached removes a cached screenshot file from disk.
func DeleteCached(url, selector string) error {
	if Cache == nil {
		return nil
	}
	return Cache.Delete(url + selector)
}
