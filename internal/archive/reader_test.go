package archive

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"testing"

	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := f.Write(content); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractFiltersEntries(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"slips/":             nil,
		"slips/one.png":      pngBytes(t, 4, 4),
		"__MACOSX/._one.png": []byte("resource fork junk"),
		"slips/.hidden.png":  []byte("not a real image"),
		"notes.txt":          []byte("not an image"),
		"slips/corrupt.jpg":  []byte("definitely not jpeg"),
	})

	r := NewReader(zap.NewNop())
	images, err := r.Extract(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if b := images[0].Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("image bounds = %v, want 4x4", b)
	}
}

func TestExtractPreservesEntryOrder(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	sizes := []int{2, 3, 4}
	names := []string{"a.png", "b.png", "c.png"}
	for i, name := range names {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := f.Write(pngBytes(t, sizes[i], sizes[i])); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r := NewReader(zap.NewNop())
	images, err := r.Extract(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	for i, img := range images {
		if img.Bounds().Dx() != sizes[i] {
			t.Errorf("image %d width = %d, want %d", i, img.Bounds().Dx(), sizes[i])
		}
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	r := NewReader(zap.NewNop())
	if _, err := r.Extract([]byte("not a zip at all")); err == nil {
		t.Error("expected error for corrupt archive")
	}
}

func TestExtractEmptyArchive(t *testing.T) {
	r := NewReader(zap.NewNop())
	images, err := r.Extract(buildZip(t, map[string][]byte{"readme.md": []byte("x")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, want 0", len(images))
	}
}
