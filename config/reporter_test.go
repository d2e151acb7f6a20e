package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	logName := filepath.Join(dir, "run.log")
	if err := os.WriteFile(logName, []byte("log line"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	r.Store("final.log", logName)
	r.Store("missing.log", filepath.Join(dir, "absent.log"))
	r.StoreData("layout.yaml", []byte("total_pages: 7"))
	r.StoreData("layout.yaml", []byte("total_pages: 8"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, r.Name())
	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent files should be skipped")
	}
	if files["layout.yaml"] != "total_pages: 7" {
		t.Errorf("layout.yaml = %q", files["layout.yaml"])
	}

	versioned := 0
	for name := range files {
		if strings.HasPrefix(name, "layout.yaml-") {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned layout dump, got %d", versioned)
	}
	if !strings.Contains(files["MANIFEST"], "final.log") {
		t.Errorf("MANIFEST does not list stored file:\n%s", files["MANIFEST"])
	}
}

func TestReport_StoreOverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "a.log")

	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwriting stored file")
		}
	}()
	r.Store("final.log", "b.log")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// must be safe to call on nil
	r.Store("x", "y")
	r.StoreData("x", nil)
	if r.Name() != "" {
		t.Error("nil report should have empty name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
