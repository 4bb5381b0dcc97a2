package core

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCapture_ValidPageVisibleElement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	screenshot, err := Capture(ctx, CaptureRequest{
		Url:      "data:text/html,<html><body><div id='content' style='width:100px;height:100px;background:red;'>Test Content</div></body></html>",
		Selector: "#content",
	})
	if err != nil {
		t.Fatalf("Expected no error for valid page and selector, got: %s", err.Error())
	}

	if len(screenshot) == 0 {
		t.Fatal("Expected non-empty screenshot data")
	}

	assertValidPNG(t, screenshot)
}

func TestCapture_FullPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	screenshot, err := Capture(ctx, CaptureRequest{
		Url:      "data:text/html,<html><body><div style='height:2000px;background:linear-gradient(red,blue);'>Tall Page</div></body></html>",
		FullPage: true,
	})
	if err != nil {
		t.Fatalf("Expected no error for full-page capture, got: %s", err.Error())
	}

	if len(screenshot) == 0 {
		t.Fatal("Expected non-empty screenshot data")
	}

	assertValidPNG(t, screenshot)
}

func TestCapture_HiddenElement(t *testing.T) {
	// This test verifies that hidden elements are made visible before screenshot
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	screenshot, err := Capture(ctx, CaptureRequest{
		Url:      "data:text/html,<html><body><div id='content' style='width:200px;height:100px;background:purple;display:none;'>Hidden Content</div></body></html>",
		Selector: "#content",
	})
	if err != nil {
		t.Fatalf("Expected no error for hidden element (should be made visible), got: %s", err.Error())
	}

	if len(screenshot) == 0 {
		t.Fatal("Expected non-empty screenshot data for hidden element made visible")
	}

	assertValidPNG(t, screenshot)
}

func TestCapture_MissingUrl(t *testing.T) {
	ctx := context.Background()

	_, err := Capture(ctx, CaptureRequest{Selector: "body"})
	if err == nil {
		t.Error("Expected error for missing url")
	}
	if err.Error() != "missing url" {
		t.Errorf("Expected 'missing url' error, got: %s", err.Error())
	}
}

func TestCapture_MissingSelector(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Capture(ctx, CaptureRequest{Url: "https://example.com"})
	if err == nil {
		t.Error("Expected error for missing selector")
	}
}

func TestCapture_NonExistentSelector(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Capture(ctx, CaptureRequest{
		Url:      "data:text/html,<html><body><div id='content'>Hello</div></body></html>",
		Selector: "#non-existent-element",
	})
	if err == nil {
		t.Error("Expected error for non-existent selector")
	}
}

func TestCapture_ContextCancellation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test that requires Chrome/Chromium in short mode")
	}

	// Create a context that’s already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := Capture(ctx, CaptureRequest{
		Url:      "data:text/html,<html><body><div id='content'>Test</div></body></html>",
		Selector: "#content",
	})
	if err == nil {
		t.Error("Expected error when context is cancelled")
	}
}

func TestCaptureWithTemplate_BadTemplate(t *testing.T) {
	ctx := context.Background()

	_, err := CaptureWithTemplate(ctx, "{{.Title", "https://example.com", "#page-preview", "Title", "Description", 0, 0)
	if err == nil {
		t.Error("Expected error for unparseable template")
	}
	if !strings.Contains(err.Error(), "failed to parse template") {
		t.Errorf("Expected parse error, got: %s", err.Error())
	}
}

// assertValidPNG checks that the given byte slice is a valid PNG file
// by verifying it starts with the PNG magic bytes: 137 80 78 71 13 10 26 10
func assertValidPNG(t *testing.T, data []byte) {
	t.Helper()

	if len(data) < 8 {
		t.Fatalf("PNG data too small (%d bytes), expected at least 8 bytes", len(data))
	}

	// PNG magic bytes: 137 80 78 71 13 10 26 10
	if data[0] != 137 || data[1] != 80 || data[2] != 78 || data[3] != 71 {
		t.Errorf("Invalid PNG magic bytes: got [%d %d %d %d], expected [137 80 78 71]",
			data[0], data[1], data[2], data[3])
	}
}

func TestFetchTitleAndDescription(t *testing.T) {
	// Use a data URI instead of a local HTTP server
	htmlContent := `
		<html>
			<head>
				<title>Document Title</title>
				<meta property="og:title" content="OpenGraph Title">
				<meta property="og:description" content="OpenGraph Description">
			</head>
			<body></body>
		</html>`

	title, description, err := FetchTitleAndDescription(context.Background(), "data:text/html,"+htmlContent)
	if err != nil {
		t.Fatalf("FetchTitleAndDescription failed: %v", err)
	}

	if title != "OpenGraph Title" {
		t.Errorf("Expected OpenGraph title to be preferred, got %q", title)
	}
	if description != "OpenGraph Description" {
		t.Errorf("Expected OpenGraph description, got %q", description)
	}
}

func TestFetchTitleAndDescription_DocumentTitleFallback(t *testing.T) {
	htmlContent := `<html><head><title>Only Document Title</title></head><body></body></html>`

	title, description, err := FetchTitleAndDescription(context.Background(), "data:text/html,"+htmlContent)
	if err != nil {
		t.Fatalf("FetchTitleAndDescription failed: %v", err)
	}

	if title != "Only Document Title" {
		t.Errorf("Expected document title fallback, got %q", title)
	}
	if description != "" {
		t.Errorf("Expected empty description, got %q", description)
	}
}
