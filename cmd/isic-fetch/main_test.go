package main

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func testArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i < 3; i++ {
		w, err := zw.Create("ISIC_2019_Training_Input/ISIC_000000" + strconv.Itoa(i) + ".jpg")
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte("jpeg"))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// setupEnv points every configurable path and URL at the test server
func setupEnv(t *testing.T, baseURL string) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ISIC_FETCH_DATA_ROOT_DIR", root)
	t.Setenv("ISIC_FETCH_RESOURCES_IMAGES_URL", baseURL+"/input.zip")
	t.Setenv("ISIC_FETCH_RESOURCES_GROUND_TRUTH_URL", baseURL+"/gt.csv")
	t.Setenv("ISIC_FETCH_RESOURCES_METADATA_URL", baseURL+"/meta.csv")
	t.Setenv("ISIC_FETCH_LOGGING_LEVEL", "error")
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_FullRun(t *testing.T) {
	archiveBody := testArchive(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/input.zip":
			w.Write(archiveBody)
		case "/gt.csv", "/meta.csv":
			w.Write([]byte("image\nISIC_0000000\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	root := setupEnv(t, srv.URL)

	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("an explicit config path that does not exist should fail")
	}

	out, err = execute(t)
	if err != nil {
		t.Fatalf("execute() error = %v\n%s", err, out)
	}
	for _, want := range []string{"License: CC-BY-NC 4.0", "3 / 25,331 expected", "Dataset incomplete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(root, "ISIC_2019_Training_Input", "ISIC_0000000.jpg")); err != nil {
		t.Errorf("expected extracted image: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "ISIC_2019_Training_Input.zip")); !os.IsNotExist(err) {
		t.Error("archive should be deleted")
	}

	out, err = execute(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "incomplete") {
		t.Errorf("history should list the run:\n%s", out)
	}

	out, err = execute(t, "history", "--run", "1")
	if err != nil {
		t.Fatalf("history --run error = %v", err)
	}
	if !strings.Contains(out, "extract_archive") {
		t.Errorf("phase listing missing extract phase:\n%s", out)
	}
}

func TestRootCmd_FatalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	setupEnv(t, srv.URL)

	out, err := execute(t)
	if err != errReported {
		t.Fatalf("execute() error = %v, want errReported", err)
	}
	if !strings.Contains(out, "Check your internet connection") {
		t.Errorf("output missing guidance:\n%s", out)
	}
}

func TestHistoryCmd_Empty(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	out, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
