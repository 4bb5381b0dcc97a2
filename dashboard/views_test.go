package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"glasswing.dev/glasswing/core"
	"glasswing.dev/glasswing/db"
)

func executeTemplate(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		t.Fatalf("Failed to render %s: %v", name, err)
	}
	return buf.String()
}

func TestRenderHome(t *testing.T) {
	out := executeTemplate(t, "home.html", map[string]any{"AppName": "Glasswing"})
	if !strings.Contains(out, "Glasswing") {
		t.Error("Expected app name in rendered output")
	}
	if !strings.Contains(out, "/dashboard/captures") {
		t.Error("Expected captures link in rendered output")
	}
}

func TestRenderCaptures(t *testing.T) {
	ua := "Chrome"
	captures := []db.Capture{{
		Url:            "https://example.com/page",
		Selector:       "#page-preview",
		Hostname:       "example.com",
		UserAgent:      &ua,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		AccessCount:    3,
	}}
	out := executeTemplate(t, "captures.html", map[string]any{
		"AppName":  "Glasswing",
		"Captures": captures,
	})
	if !strings.Contains(out, "example.com") {
		t.Error("Expected capture URL in rendered output")
	}
	if !strings.Contains(out, "#page-preview") {
		t.Error("Expected selector in rendered output")
	}
	if !strings.Contains(out, "Chrome") {
		t.Error("Expected user agent in rendered output")
	}
}

func TestRenderCaptures_Empty(t *testing.T) {
	out := executeTemplate(t, "captures.html", map[string]any{
		"AppName":  "Glasswing",
		"Captures": []db.Capture{},
	})
	if !strings.Contains(out, "No captures recorded yet.") {
		t.Error("Expected empty-state message in rendered output")
	}
}

func TestRenderDomains(t *testing.T) {
	domains := []db.Domain{
		{Domain: "example.com", IncludeSubdomains: core.Ptr(true), Authorized: true, UpdatedAt: time.Now()},
		{Domain: "blocked.example", Authorized: false, UpdatedAt: time.Now()},
	}
	out := executeTemplate(t, "domains.html", map[string]any{
		"AppName": "Glasswing",
		"Domains": domains,
	})
	if !strings.Contains(out, "example.com") || !strings.Contains(out, "blocked.example") {
		t.Error("Expected both domains in rendered output")
	}
}

func TestRenderLogs(t *testing.T) {
	msg := "error taking screenshot"
	errStr := "context deadline exceeded"
	logs := []db.Log{{
		ID:        1,
		CreatedAt: time.Now(),
		Message:   &msg,
		Err:       &errStr,
	}}
	out := executeTemplate(t, "logs.html", map[string]any{
		"AppName":    "Glasswing",
		"Logs":       logs,
		"Page":       1,
		"PrevPage":   0,
		"NextPage":   2,
		"TotalPages": 1,
		"TotalCount": int64(1),
	})
	if !strings.Contains(out, "error taking screenshot") {
		t.Error("Expected log message in rendered output")
	}
	if !strings.Contains(out, "context deadline exceeded") {
		t.Error("Expected error text in rendered output")
	}
}

func TestRenderError(t *testing.T) {
	out := executeTemplate(t, "error.html", map[string]any{
		"AppName": "Glasswing",
		"Title":   "Unauthorized",
		"Message": "Please provide valid credentials to access this section.",
	})
	if !strings.Contains(out, "Unauthorized") {
		t.Error("Expected error title in rendered output")
	}
}
