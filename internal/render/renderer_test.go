package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPagesMissingFile(t *testing.T) {
	r := New(200, 85, "rgb")
	if pages := r.Pages(filepath.Join(t.TempDir(), "missing.pdf"), 2); pages != nil {
		t.Errorf("pages = %v, want nil", pages)
	}
}

func TestPagesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(200, 85, "rgb")
	if pages := r.Pages(path, 2); pages != nil {
		t.Errorf("pages = %v, want nil", pages)
	}
}

func TestPagesNonPDFContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("just a text file pretending"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(200, 85, "rgb")
	if pages := r.Pages(path, 2); pages != nil {
		t.Errorf("pages = %v, want nil", pages)
	}
}

func TestNewDefaults(t *testing.T) {
	r := New(0, 0, "bogus")
	if r.DPI != 200 {
		t.Errorf("dpi = %d, want 200", r.DPI)
	}
	if r.Quality != 85 {
		t.Errorf("quality = %d, want 85", r.Quality)
	}
	if r.Mode != ColorRGB {
		t.Errorf("mode = %v, want rgb", r.Mode)
	}
}

func TestPageBase64(t *testing.T) {
	p := Page{Data: []byte{0xff, 0xd8, 0xff}, MIME: "image/jpeg"}
	if got := p.Base64(); got != "/9j/" {
		t.Errorf("base64 = %q, want %q", got, "/9j/")
	}
}
