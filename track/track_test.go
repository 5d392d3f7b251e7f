package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/odt/geo"
	"github.com/dave/odt/globals"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestOrderKey(t *testing.T) {
	cases := map[string]int{
		"01 Badlands":    1,
		"  25 Owyhee":    25,
		"7":              7,
		"Alternate 3":    NoOrder,
		"":               NoOrder,
		"12a Hart Mtn":   12,
		"Region 1 Track": NoOrder,
	}
	for name, want := range cases {
		if got := OrderKey(name); got != want {
			t.Fatalf("OrderKey(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestStitchDropsSeamDuplicate(t *testing.T) {
	a := Segment{Name: "01", Order: 1, Line: geo.Line{{Lon: -120.01, Lat: 44}, {Lon: -120, Lat: 44}}}
	b := Segment{Name: "02", Order: 2, Line: geo.Line{{Lon: -120.0000005, Lat: 44.0000005}, {Lon: -119.99, Lat: 44}}}

	line := Stitch([]Segment{b, a}, globals.SEAM_THRESHOLD)
	if len(line) != 3 {
		t.Fatalf("expected seam point dropped, got %v", line)
	}
	if line[0] != (geo.Pos{Lon: -120.01, Lat: 44}) || line[2] != (geo.Pos{Lon: -119.99, Lat: 44}) {
		t.Fatalf("unexpected order: %v", line)
	}
}

func TestStitchKeepsDistantStart(t *testing.T) {
	a := Segment{Order: 1, Line: geo.Line{{Lon: -120.01, Lat: 44}, {Lon: -120, Lat: 44}}}
	// ~1 km east
	b := Segment{Order: 2, Line: geo.Line{{Lon: -119.9875, Lat: 44}, {Lon: -119.98, Lat: 44}}}
	if d := a.Line.End().Distance(b.Line.Start()); d < 900 || d > 1100 {
		t.Fatalf("fixture gap should be ~1km, got %v", d)
	}
	line := Stitch([]Segment{a, b}, globals.SEAM_THRESHOLD)
	if len(line) != 4 {
		t.Fatalf("expected all points kept, got %v", line)
	}
}

func TestStitchEmptySegmentKeepsSeam(t *testing.T) {
	a := Segment{Order: 1, Line: geo.Line{{Lon: -120.01, Lat: 44}, {Lon: -120, Lat: 44}}}
	empty := Segment{Order: 2}
	c := Segment{Order: 3, Line: geo.Line{{Lon: -120, Lat: 44}, {Lon: -119.99, Lat: 44}}}
	line := Stitch([]Segment{c, empty, a}, globals.SEAM_THRESHOLD)
	if len(line) != 3 {
		t.Fatalf("expected seam across empty segment to be detected, got %v", line)
	}
}

func TestStitchUnorderedLast(t *testing.T) {
	a := Segment{Order: NoOrder, Line: geo.Line{{Lon: 1, Lat: 1}}}
	b := Segment{Order: 3, Line: geo.Line{{Lon: 2, Lat: 2}}}
	line := Stitch([]Segment{a, b}, globals.SEAM_THRESHOLD)
	if line[0] != (geo.Pos{Lon: 2, Lat: 2}) {
		t.Fatalf("unordered segment should sort last: %v", line)
	}
}

func TestMeasure(t *testing.T) {
	line := geo.Line{{Lon: -120, Lat: 44}, {Lon: -120, Lat: 44.01}, {Lon: -120, Lat: 44.01}, {Lon: -120, Lat: 44.03}}
	points := Measure(line)
	if points[0].Meters != 0 || points[0].Miles != 0 {
		t.Fatalf("first point should be at 0: %+v", points[0])
	}
	for i := 1; i < len(points); i++ {
		if points[i].Miles < points[i-1].Miles || points[i].Meters < points[i-1].Meters {
			t.Fatalf("distance decreased at %d: %+v", i, points)
		}
	}
	want := geo.Round(line.Length()/globals.METERS_PER_MILE, 3)
	if points[3].Miles != want {
		t.Fatalf("total %v, want %v", points[3].Miles, want)
	}
}

func TestLoadSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	kmlPath := filepath.Join(dir, "Region 1 Track.kml")
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2"><Document>
		<Placemark><name>02 B</name><LineString><coordinates>3,3 4,4</coordinates></LineString></Placemark>
		<Placemark><name>01 A</name><LineString><coordinates>1,1 2,2</coordinates></LineString></Placemark>
		<Placemark><name>Empty</name><LineString><coordinates></coordinates></LineString></Placemark>
	</Document></kml>`
	if err := os.WriteFile(kmlPath, []byte(doc), 0666); err != nil {
		t.Fatalf("write: %v", err)
	}

	log, hook := logtest.NewNullLogger()
	segments := Load([]string{filepath.Join(dir, "missing.kml"), kmlPath}, log)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Order != 2 || segments[1].Order != 1 {
		t.Fatalf("unexpected order keys: %+v", segments)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning for the missing file")
	}

	line := Stitch(segments, globals.SEAM_THRESHOLD)
	if line[0] != (geo.Pos{Lon: 1, Lat: 1}) || len(line) != 4 {
		t.Fatalf("unexpected stitched line: %v", line)
	}
}
