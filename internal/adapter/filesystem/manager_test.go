package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewManager_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data", "isic_2019")

	m, err := NewManager(root)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if !m.DirExists(root) {
		t.Errorf("root dir %s was not created", root)
	}
	if m.RootDir() != root {
		t.Errorf("RootDir() = %v, want %v", m.RootDir(), root)
	}
}

func TestManager_CreateAndDeleteFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	path := filepath.Join(m.RootDir(), "nested", "dir", "file.csv")
	w, err := m.CreateFile(path)
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	if _, err := w.Write([]byte("id,label\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !m.FileExists(path) {
		t.Fatal("FileExists() = false after create")
	}
	if m.DirExists(path) {
		t.Error("DirExists() = true for a regular file")
	}
	size, err := m.GetFileSize(path)
	if err != nil {
		t.Fatalf("GetFileSize() error = %v", err)
	}
	if size != 9 {
		t.Errorf("GetFileSize() = %d, want 9", size)
	}

	if err := m.DeleteFile(path); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if m.FileExists(path) {
		t.Error("FileExists() = true after delete")
	}

	// Deleting again is not an error
	if err := m.DeleteFile(path); err != nil {
		t.Errorf("DeleteFile() on missing file error = %v", err)
	}
}

func TestManager_CountFiles(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	dir := filepath.Join(m.RootDir(), "images")
	if err := os.MkdirAll(filepath.Join(dir, "sub.jpg"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.jpg", "b.jpg", "c.png", "d.JPG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		dir  string
		ext  string
		want int
	}{
		{name: "jpg only, directories ignored", dir: dir, ext: ".jpg", want: 2},
		{name: "png", dir: dir, ext: ".png", want: 1},
		{name: "missing dir", dir: filepath.Join(dir, "nope"), ext: ".jpg", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CountFiles(tt.dir, tt.ext)
			if err != nil {
				t.Fatalf("CountFiles() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountFiles() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestManager_GetDiskUsage_MissingPath(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	usage, err := m.GetDiskUsage(filepath.Join(m.RootDir(), "not", "yet", "created.zip"))
	if err != nil {
		t.Fatalf("GetDiskUsage() error = %v", err)
	}
	if usage.Total == 0 {
		t.Error("GetDiskUsage() Total = 0")
	}
	if usage.Free > usage.Total {
		t.Errorf("Free %d > Total %d", usage.Free, usage.Total)
	}
}
