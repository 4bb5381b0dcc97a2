package core

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCompressPNG(t *testing.T) {
	// Build a small test image.
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	compressed, err := CompressPNG(buf.Bytes())
	if err != nil {
		t.Fatalf("CompressPNG failed: %v", err)
	}

	// The result must still be a decodable PNG with the same dimensions.
	decoded, err := png.Decode(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("Failed to decode compressed PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
}

func TestCompressPNG_InvalidInput(t *testing.T) {
	_, err := CompressPNG([]byte("not an image"))
	if err == nil {
		t.Error("Expected error for invalid image data")
	}
}
