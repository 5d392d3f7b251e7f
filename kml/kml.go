package kml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dave/odt/geo"
)

// Load reads a .kml file, or the first .kml document inside a .kmz archive.
func Load(fpath string) (Root, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return Root{}, fmt.Errorf("reading kml %q: %w", fpath, err)
	}
	if strings.EqualFold(filepath.Ext(fpath), ".kmz") {
		return decodeKmz(b)
	}
	return Decode(bytes.NewBuffer(b))
}

func decodeKmz(b []byte) (Root, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Root{}, fmt.Errorf("opening kmz: %w", err)
	}
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".kml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Root{}, fmt.Errorf("opening %q in kmz: %w", f.Name, err)
		}
		defer rc.Close()
		return Decode(rc)
	}
	return Root{}, fmt.Errorf("no kml document in kmz")
}

func Decode(reader io.Reader) (Root, error) {
	var r Root
	if err := xml.NewDecoder(reader).Decode(&r); err != nil {
		return Root{}, fmt.Errorf("decoding kml: %w", err)
	}
	return r, nil
}

type Root struct {
	Xmlns    string   `xml:"xmlns,attr"`
	Document Document `xml:"Document"`
}

// Placemarks returns every placemark in the document in document order, descending into folders.
func (r Root) Placemarks() []*Placemark {
	placemarks := append([]*Placemark{}, r.Document.Placemarks...)
	for _, folder := range r.Document.Folders {
		placemarks = append(placemarks, folder.All()...)
	}
	return placemarks
}

type Document struct {
	Name       string       `xml:"name"`
	Folders    []*Folder    `xml:"Folder"`
	Placemarks []*Placemark `xml:"Placemark"`
}

type Folder struct {
	Name       string       `xml:"name"`
	Placemarks []*Placemark `xml:"Placemark"`
	Folders    []*Folder    `xml:"Folder"`
}

// All placemarks in this folder and its sub folders
func (f *Folder) All() []*Placemark {
	placemarks := append([]*Placemark{}, f.Placemarks...)
	for _, folder := range f.Folders {
		placemarks = append(placemarks, folder.All()...)
	}
	return placemarks
}

type Placemark struct {
	Name          string         `xml:"name"`
	Description   string         `xml:"description"`
	Point         *Point         `xml:"Point,omitempty"`
	LineString    *LineString    `xml:"LineString,omitempty"`
	MultiGeometry *MultiGeometry `xml:"MultiGeometry,omitempty"`
}

// Line joins the placemark's LineString and any LineStrings inside a MultiGeometry.
func (p *Placemark) Line() geo.Line {
	var lines []geo.Line
	if p.LineString != nil {
		lines = append(lines, p.LineString.Line())
	}
	if p.MultiGeometry != nil {
		for _, ls := range p.MultiGeometry.LineStrings {
			lines = append(lines, ls.Line())
		}
	}
	return geo.MergeLines(lines)
}

type Point struct {
	Coordinates string `xml:"coordinates"`
}

func (p Point) Pos() (geo.Pos, bool) {
	return parsePos(strings.TrimSpace(p.Coordinates))
}

type LineString struct {
	Coordinates string `xml:"coordinates"`
}

type MultiGeometry struct {
	LineStrings []*LineString `xml:"LineString"`
}

// Line parses the coordinates. Tuples are separated by any whitespace; malformed tuples are skipped.
func (l LineString) Line() geo.Line {
	tokens := strings.Fields(l.Coordinates)
	line := make(geo.Line, 0, len(tokens))
	for _, token := range tokens {
		if pos, ok := parsePos(token); ok {
			line = append(line, pos)
		}
	}
	return line
}

// "lon,lat[,ele]"
func parsePos(token string) (geo.Pos, bool) {
	parts := strings.Split(token, ",")
	if len(parts) < 2 {
		return geo.Pos{}, false
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geo.Pos{}, false
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geo.Pos{}, false
	}
	return geo.Pos{Lon: lon, Lat: lat}, true
}
