package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"
)

// Debug enables verbose logging from the headless browser. Set once at startup.
var Debug bool

var ErrMissingSelector = errors.New("selector not found")

// CaptureRequest describes a single screenshot capture.
type CaptureRequest struct {
	Url      string
	Selector string // CSS selector of the element to capture; ignored when FullPage is set.
	FullPage bool
	Width    int
	Height   int
}

// Capture navigates a headless browser to the requested URL and returns a PNG screenshot.
// The browser context is created per capture and released via the deferred cancel on
// every path, so a failed navigation or capture never leaves a browser behind.
func Capture(ctx context.Context, req CaptureRequest) (png []byte, err error) {
	slog.Debug("capture", "url", req.Url, "selector", req.Selector, "full-page", req.FullPage)

	if req.Url == "" {
		return nil, fmt.Errorf("missing url")
	}

	var cancel context.CancelFunc
	if Debug {
		ctx, cancel = chromedp.NewContext(ctx, chromedp.WithErrorf(log.Printf))
	} else {
		ctx, cancel = chromedp.NewContext(ctx)
	}
	defer cancel()

	width, height := req.Width, req.Height
	if width == 0 {
		width = 1200
	}
	if height == 0 {
		height = 630
	}

	if req.FullPage {
		var buf []byte
		if err := chromedp.Run(ctx,
			chromedp.EmulateViewport(int64(width), int64(height)),
			chromedp.Navigate(req.Url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(time.Second), // Allow fonts to finish downloading.
			chromedp.FullScreenshot(&buf, 100),
		); err != nil {
			return nil, err
		}
		return buf, nil
	}

	if req.Selector == "" {
		return nil, fmt.Errorf("missing selector")
	}

	// Un-hide the selected element before attempting a screenshot.
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%s);
		if (el) {
			el.style.visibility = '';
			el.style.display = 'block';
			return true;
		}
		return false;
	})()`, strconv.Quote(req.Selector))

	var foundSelector bool
	if err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(req.Url),
		chromedp.Evaluate(js, &foundSelector),
	); err != nil {
		return nil, err
	}
	if !foundSelector {
		return nil, ErrMissingSelector
	}

	var buf []byte
	if err := chromedp.Run(ctx,
		chromedp.WaitVisible(req.Selector, chromedp.ByQuery),
		chromedp.Sleep(time.Second), // Allow fonts to finish downloading.
		chromedp.Screenshot(req.Selector, &buf),
	); err != nil {
		return nil, err
	}

	return buf, nil
}

// CaptureWithTemplate renders a provided HTML template with the given title and description,
// and then captures a screenshot of the result. The template is parsed as a Golang template,
// with fields `{{.Title}}`, `{{.Description}}`, and `{{.Url}}`.
func CaptureWithTemplate(ctx context.Context, templateContent, url, selector, title, description string, width, height int) ([]byte, error) {
	slog.Debug("captureWithTemplate",
		"url", url,
		"selector", selector,
		"title", title,
		"description", description)

	tmpl, err := template.New("capture").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var tmplBuf bytes.Buffer
	if err := tmpl.Execute(&tmplBuf, struct {
		Title       string
		Description string
		Url         string
	}{
		Title:       title,
		Description: description,
		Url:         url,
	}); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return Capture(ctx, CaptureRequest{
		Url:      "data:text/html;base64," + base64.StdEncoding.EncodeToString(tmplBuf.Bytes()),
		Selector: selector,
		Width:    width,
		Height:   height,
	})
}

// FetchTitleAndDescription retrieves the title and description from a web page.
// OpenGraph tags are preferred (og:title, og:description), but document title is used as a fallback.
func FetchTitleAndDescription(ctx context.Context, url string) (title, description string, err error) {
	var doc *html.Node

	// Handle data URIs directly
	if strings.HasPrefix(url, "data:text/html,") {
		htmlContent := strings.TrimPrefix(url, "data:text/html,")
		doc, err = html.Parse(strings.NewReader(htmlContent))
		if err != nil {
			return "", "", err
		}
	} else {
		// Handle HTTP(S) URLs
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", "", err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Glasswing/1.0)")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		doc, err = html.Parse(resp.Body)
		if err != nil {
			return "", "", err
		}
	}

	var ogTitle, ogDesc, docTitle string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "title" && docTitle == "" {
				if n.FirstChild != nil {
					docTitle = n.FirstChild.Data
				}
			} else if n.Data == "meta" {
				var property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if property == "og:title" && ogTitle == "" {
					ogTitle = content
				} else if property == "og:description" && ogDesc == "" {
					ogDesc = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	if ogTitle != "" {
		title = ogTitle
	} else {
		title = docTitle
	}
	description = ogDesc
	return strings.TrimSpace(title), strings.TrimSpace(description), nil
}
