package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"glasswing.dev/glasswing/core"
	"glasswing.dev/glasswing/validation"
)

// runCapture implements the one-shot capture mode: launch a headless browser, navigate
// to the URL, capture a screenshot, write exactly one PNG to outPath, and release the
// browser. Returns the process exit code.
//
// The output file is created only after a successful capture, so a failed run never
// leaves a partial or empty file behind. The browser context is scoped to this call and
// released on every path.
func runCapture(targetUrl, outPath, selector string, fullPage bool, timeout time.Duration) int {
	if targetUrl == "" {
		slog.Error("missing -url")
		return 1
	}
	if outPath == "" {
		slog.Error("missing -out")
		return 1
	}

	u, err := validation.Canonicalize(targetUrl)
	if err != nil {
		slog.Error("invalid URL", tint.Err(err), "url", targetUrl)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// With no selector, capture the whole page.
	if selector == "" {
		fullPage = true
	}

	started := time.Now()
	png, err := core.Capture(ctx, core.CaptureRequest{
		Url:      u.String(),
		Selector: selector,
		FullPage: fullPage,
	})
	if err != nil {
		slog.Error("capture failed", tint.Err(err), "url", u.String())
		return 1
	}

	f, err := core.CreateFile(outPath)
	if err != nil {
		slog.Error("failed to create output file", tint.Err(err), "path", outPath)
		return 1
	}
	if _, err := f.Write(png); err != nil {
		f.Close()
		os.Remove(outPath) // don’t leave a partial file behind
		slog.Error("failed to write output file", tint.Err(err), "path", outPath)
		return 1
	}
	f.Sync()
	f.Close()

	slog.Info("screenshot captured",
		"url", u.String(),
		"path", outPath,
		"size", humanize.Bytes(uint64(len(png))),
		"took", time.Since(started).Round(time.Millisecond))
	return 0
}
