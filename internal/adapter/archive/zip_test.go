package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vertextoedge/isic-fetch/internal/domain"
)

func writeZip(t *testing.T, path string, files map[string]string, order []string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestZipOpener_OpenAndExtract(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "input.zip")
	files := map[string]string{
		"imgs/":      "",
		"imgs/a.jpg": "aaaa",
		"b.jpg":      "bb",
	}
	writeZip(t, archivePath, files, []string{"imgs/", "imgs/a.jpg", "b.jpg"})

	a, err := NewZipOpener().OpenArchive(archivePath)
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	defer a.Close()

	entries := a.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	if !entries[0].IsDir {
		t.Error("entry 0 should be a directory")
	}
	if entries[1].Name != "imgs/a.jpg" || entries[1].Size != 4 {
		t.Errorf("entry 1 = %+v, want imgs/a.jpg with size 4", entries[1])
	}

	out := filepath.Join(dir, "out")
	for i, e := range entries {
		if err := a.ExtractEntry(i, filepath.Join(out, filepath.FromSlash(e.Name))); err != nil {
			t.Fatalf("ExtractEntry(%d) error = %v", i, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "imgs", "a.jpg"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "aaaa" {
		t.Errorf("content = %q, want aaaa", data)
	}
	if _, err := os.Stat(filepath.Join(out, "b.jpg")); err != nil {
		t.Errorf("b.jpg not extracted: %v", err)
	}

	if err := a.ExtractEntry(5, filepath.Join(out, "x")); err == nil {
		t.Error("ExtractEntry(5) expected out of range error")
	}
}

func TestZipOpener_NotZip(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "csv file", content: []byte("image,MEL,NV\n")},
		{name: "too short", content: []byte("PK")},
		{name: "empty file", content: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".zip")
			if err := os.WriteFile(path, tt.content, 0644); err != nil {
				t.Fatal(err)
			}
			_, err := NewZipOpener().OpenArchive(path)
			if !errors.Is(err, domain.ErrNotZipArchive) {
				t.Errorf("OpenArchive() error = %v, want ErrNotZipArchive", err)
			}
		})
	}
}

func TestZipOpener_MissingFile(t *testing.T) {
	_, err := NewZipOpener().OpenArchive(filepath.Join(t.TempDir(), "missing.zip"))
	if err == nil {
		t.Fatal("OpenArchive() expected error for missing file")
	}
	if errors.Is(err, domain.ErrNotZipArchive) {
		t.Error("missing file should not be reported as ErrNotZipArchive")
	}
}
