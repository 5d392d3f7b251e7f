package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadius is the mean earth radius in meters
const EarthRadius = 6371000.0

type Line []Pos

// Length of the line in meters
func (l Line) Length() float64 {
	var total float64
	for i, pos := range l {
		if i == 0 {
			continue
		}
		total += l[i-1].Distance(pos)
	}
	return total
}

// Start is the first Pos in the line
func (l Line) Start() Pos {
	return l[0]
}

// End is the last Pos in the line
func (l Line) End() Pos {
	return l[len(l)-1]
}

func MergeLines(lines []Line) Line {
	var totalLen int
	for _, s := range lines {
		totalLen += len(s)
	}
	tmp := make(Line, totalLen)
	var i int
	for _, s := range lines {
		i += copy(tmp[i:], s)
	}
	return tmp
}

// Pos is a coordinate on the trail. Elevation is never carried here, it's looked up separately.
type Pos struct {
	Lon, Lat float64
}

// Distance in meters to another location along the great circle (haversine).
func (p1 Pos) Distance(p2 Pos) float64 {
	a := s2.LatLngFromDegrees(p1.Lat, p1.Lon)
	b := s2.LatLngFromDegrees(p2.Lat, p2.Lon)
	return a.Distance(b).Radians() * EarthRadius
}

// Round to a number of decimal places
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
