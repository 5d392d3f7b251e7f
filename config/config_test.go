package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Tracks) != 4 {
		t.Fatalf("expected 4 default track files, got %v", cfg.Tracks)
	}
	if cfg.Elevation.Concurrency != 20 || cfg.Elevation.BatchSize != 500 || cfg.Elevation.RetryLimit != 5 {
		t.Fatalf("unexpected elevation defaults %+v", cfg.Elevation)
	}
	if cfg.Elevation.RetryDelay != time.Second || cfg.Elevation.AttemptTimeout != 20*time.Second {
		t.Fatalf("unexpected durations %+v", cfg.Elevation)
	}
	if cfg.Stitch.SeamThreshold != 50 {
		t.Fatalf("unexpected seam threshold %v", cfg.Stitch.SeamThreshold)
	}
	if cfg.Output != "public/elevation-profile.json" {
		t.Fatalf("unexpected output %q", cfg.Output)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ODT_ELEVATION_CONCURRENCY", "4")
	t.Setenv("ODT_ELEVATION_RETRY_DELAY", "250ms")
	t.Setenv("ODT_OUTPUT", "out.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Elevation.Concurrency != 4 {
		t.Fatalf("expected override concurrency, got %d", cfg.Elevation.Concurrency)
	}
	if cfg.Elevation.RetryDelay != 250*time.Millisecond {
		t.Fatalf("expected override delay, got %v", cfg.Elevation.RetryDelay)
	}
	if cfg.Output != "out.json" {
		t.Fatalf("expected override output, got %q", cfg.Output)
	}
}

func TestLoadFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "odt.yaml")
	yaml := `tracks:
  - a.gpx
  - b.kmz
elevation:
  source: srtm
  batch_size: 50
report:
  chart: chart.png
`
	if err := os.WriteFile(fpath, []byte(yaml), 0666); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(fpath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Tracks) != 2 || cfg.Tracks[1] != "b.kmz" {
		t.Fatalf("unexpected tracks %v", cfg.Tracks)
	}
	if cfg.Elevation.Source != "srtm" || cfg.Elevation.BatchSize != 50 || cfg.Report.Chart != "chart.png" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ODT_ELEVATION_SOURCE", "gdal")
	t.Setenv("ODT_ELEVATION_BATCH_SIZE", "0")
	_, err := Load("")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"elevation.source", "elevation.batch_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should mention %q: %v", want, err)
		}
	}
}

func TestLogger(t *testing.T) {
	log, err := LogConfig{Level: "debug", Format: "json"}.Logger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if log.GetLevel().String() != "debug" {
		t.Fatalf("unexpected level %v", log.GetLevel())
	}
	if _, err := (LogConfig{Level: "loud"}).Logger(); err == nil {
		t.Fatalf("expected error for bad level")
	}
	if _, err := (LogConfig{Level: "info", Format: "xml"}).Logger(); err == nil {
		t.Fatalf("expected error for bad format")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	})
}
