package gpx

import (
	"fmt"

	"github.com/dave/odt/geo"
	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// Track is a named line from a gpx file. Both <trk> (all segments joined) and <rte> elements become tracks.
type Track struct {
	Name string
	Line geo.Line
}

func Load(fpath string) ([]Track, error) {
	g, err := gpxgo.ParseFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("reading gpx %q: %w", fpath, err)
	}
	return Tracks(g), nil
}

func Decode(b []byte) ([]Track, error) {
	g, err := gpxgo.ParseBytes(b)
	if err != nil {
		return nil, fmt.Errorf("decoding gpx: %w", err)
	}
	return Tracks(g), nil
}

func Tracks(g *gpxgo.GPX) []Track {
	var tracks []Track
	for _, trk := range g.Tracks {
		var lines []geo.Line
		for _, seg := range trk.Segments {
			lines = append(lines, pointsLine(seg.Points))
		}
		tracks = append(tracks, Track{Name: trk.Name, Line: geo.MergeLines(lines)})
	}
	for _, rte := range g.Routes {
		tracks = append(tracks, Track{Name: rte.Name, Line: pointsLine(rte.Points)})
	}
	return tracks
}

func pointsLine(points []gpxgo.GPXPoint) geo.Line {
	line := make(geo.Line, len(points))
	for i, p := range points {
		line[i] = geo.Pos{Lon: p.Longitude, Lat: p.Latitude}
	}
	return line
}
