package qrcode

import "testing"

func TestGenerate(t *testing.T) {
	png, err := Generate("https://example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(png) < 8 {
		t.Fatalf("PNG data too small (%d bytes)", len(png))
	}
	// PNG magic bytes: 137 80 78 71
	if png[0] != 137 || png[1] != 80 || png[2] != 78 || png[3] != 71 {
		t.Errorf("Invalid PNG magic bytes: got [%d %d %d %d]", png[0], png[1], png[2], png[3])
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	png1, err := Generate("https://example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	png2, err := Generate("https://example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(png1) != len(png2) {
		t.Errorf("Expected deterministic output, got %d and %d bytes", len(png1), len(png2))
	}
}

func TestDeleteCached_NilCache(t *testing.T) {
	// With caching disabled (Cache == nil), DeleteCached is a no-op.
	if err := DeleteCached("https://example.com"); err != nil {
		t.Errorf("Expected nil error with nil cache, got %v", err)
	}
}
