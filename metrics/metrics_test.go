package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Points(3)
	m.Lookup(100*time.Millisecond, true)
	m.Lookup(2*time.Second, false)
	m.Retry("rate limited")
	m.Interpolated(1)
	m.Success(time.Unix(1700000000, 0))

	fpath := filepath.Join(t.TempDir(), "odt.prom")
	if err := m.WriteTextfile(fpath); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{
		`odt_elevation_path_points 3`,
		`odt_elevation_lookups_total{result="failed"} 1`,
		`odt_elevation_lookups_total{result="ok"} 1`,
		`odt_elevation_retries_total{kind="rate limited"} 1`,
		`odt_elevation_interpolated_points 1`,
		`odt_elevation_lookup_duration_seconds_count 2`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("missing %q in:\n%s", want, b)
		}
	}
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.Points(1)
	m.Lookup(time.Second, true)
	m.Retry("transient")
	m.Interpolated(1)
	m.Success(time.Now())
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}
