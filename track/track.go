package track

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/odt/geo"
	"github.com/dave/odt/globals"
	"github.com/dave/odt/gpx"
	"github.com/dave/odt/kml"
	"github.com/sirupsen/logrus"
)

// NoOrder is the order key for segments without a leading number, so they sort last.
const NoOrder = 9999

var orderPrefix = regexp.MustCompile(`^(\d+)`)

// Segment is one named run of coordinates from a track file, e.g. "07 Diablo Rim"
type Segment struct {
	Name  string
	Order int // from the leading number in the name
	File  string
	Line  geo.Line
}

// OrderKey extracts the leading number from a segment name.
func OrderKey(name string) int {
	matches := orderPrefix.FindStringSubmatch(strings.TrimSpace(name))
	if len(matches) == 0 {
		return NoOrder
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return NoOrder
	}
	return n
}

// Load reads segments from kml, kmz and gpx files. Files that are missing or can't be read are skipped
// with a warning. Segments with no coordinates are dropped.
func Load(paths []string, log logrus.FieldLogger) []Segment {
	var segments []Segment
	for _, fpath := range paths {
		found, err := loadFile(fpath)
		if err != nil {
			log.WithError(err).Warnf("%s not loaded, skipping", filepath.Base(fpath))
			continue
		}
		var points int
		for _, s := range found {
			points += len(s.Line)
		}
		log.Infof("%s: %d segments, %d points", filepath.Base(fpath), len(found), points)
		segments = append(segments, found...)
	}
	return segments
}

func loadFile(fpath string) ([]Segment, error) {
	var segments []Segment
	add := func(name string, line geo.Line) {
		if len(line) == 0 {
			return
		}
		segments = append(segments, Segment{
			Name:  strings.TrimSpace(name),
			Order: OrderKey(name),
			File:  fpath,
			Line:  line,
		})
	}
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".gpx":
		tracks, err := gpx.Load(fpath)
		if err != nil {
			return nil, err
		}
		for _, t := range tracks {
			add(t.Name, t.Line)
		}
	default:
		root, err := kml.Load(fpath)
		if err != nil {
			return nil, err
		}
		for _, p := range root.Placemarks() {
			add(p.Name, p.Line())
		}
	}
	return segments, nil
}

// Stitch orders the segments by order key and joins them into one line. Where a segment starts within
// threshold meters of where the previous non-empty segment ended, its first point is dropped.
func Stitch(segments []Segment, threshold float64) geo.Line {
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var line geo.Line
	var prev *geo.Pos
	for _, s := range ordered {
		pts := s.Line
		if prev != nil && len(pts) > 0 && prev.Distance(pts.Start()) < threshold {
			pts = pts[1:]
		}
		line = append(line, pts...)
		if len(pts) > 0 {
			end := pts.End()
			prev = &end
		}
	}
	return line
}

// Point is a position on the stitched path with the distance along the path from the start.
type Point struct {
	geo.Pos
	Meters float64
	Miles  float64 // rounded to 3 places
}

// Measure accumulates the along-path distance for every point in the line.
func Measure(line geo.Line) []Point {
	points := make([]Point, len(line))
	var total float64
	for i, pos := range line {
		if i > 0 {
			total += line[i-1].Distance(pos)
		}
		points[i] = Point{
			Pos:    pos,
			Meters: total,
			Miles:  geo.Round(total/globals.METERS_PER_MILE, 3),
		}
	}
	return points
}
