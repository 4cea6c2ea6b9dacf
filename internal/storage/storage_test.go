package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizePhoto_FitsAndConvertsToJPEG(t *testing.T) {
	out, err := NormalizePhoto(pngBytes(t, 400, 200), 100)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizePhoto_KeepsSmallImages(t *testing.T) {
	out, err := NormalizePhoto(pngBytes(t, 40, 30), 100)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Fatalf("expected 40x30, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizePhoto_RejectsGarbage(t *testing.T) {
	_, err := NormalizePhoto([]byte("definitely not an image"), 100)
	if !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestDiskUpload_WritesFileAndReturnsURL(t *testing.T) {
	root := t.TempDir()
	store, err := NewDisk(root, "https://cdn.example.com/", zerolog.Nop())
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}

	url, err := store.Upload(context.Background(), "order-1", "prod-9", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/files/order-1/prod-9.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "order-1", "prod-9.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDiskUpload_RejectsTraversal(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "", zerolog.Nop())
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if _, err := store.Upload(context.Background(), "order-1", key, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestDiskUpload_HonoursCancelledContext(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "", zerolog.Nop())
	if err != nil {
		t.Fatalf("new disk: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Upload(ctx, "order-1", "p1", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewCloudinary_RequiresURL(t *testing.T) {
	if _, err := NewCloudinary("", "orders", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
