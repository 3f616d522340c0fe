package screenshot

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestFitScalesWideImages(t *testing.T) {
	data := encodePNG(t, 2560, 1440)

	out, err := Fit(data, 1280)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}

	w, h := decodeSize(t, out)
	if w != 1280 {
		t.Errorf("width = %d, want 1280", w)
	}
	if h != 720 {
		t.Errorf("height = %d, want 720 (aspect preserved)", h)
	}
}

func TestFitLeavesSmallImagesUntouched(t *testing.T) {
	data := encodePNG(t, 800, 600)

	out, err := Fit(data, 1280)
	if err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("image within bounds was re-encoded")
	}
}

func TestFitRejectsGarbage(t *testing.T) {
	if _, err := Fit([]byte("not an image"), 1280); err == nil {
		t.Fatal("expected decode error")
	}
}
