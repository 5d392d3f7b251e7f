package report

import (
	"fmt"
	"math"

	"github.com/dave/odt/profile"
	"github.com/fogleman/gg"
)

const (
	ChartWidth  = 1600
	ChartHeight = 500
	margin      = 50
)

// Chart draws the previous (grey) and new (blue) profiles as elevation against distance and saves a
// png. before may be empty.
func Chart(fpath string, before, after []profile.Sample) error {
	if len(after) == 0 {
		return fmt.Errorf("no samples to chart")
	}
	dc := renderChart(before, after)
	if err := dc.SavePNG(fpath); err != nil {
		return fmt.Errorf("saving chart %q: %w", fpath, err)
	}
	return nil
}

type bounds struct {
	miles, lo, hi float64
}

func chartBounds(profiles ...[]profile.Sample) bounds {
	b := bounds{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, samples := range profiles {
		for _, s := range samples {
			b.miles = math.Max(b.miles, s.Distance)
			b.lo = math.Min(b.lo, float64(s.Elevation))
			b.hi = math.Max(b.hi, float64(s.Elevation))
		}
	}
	if b.hi <= b.lo {
		b.hi = b.lo + 1
	}
	if b.miles <= 0 {
		b.miles = 1
	}
	return b
}

// xy converts distance and elevation to pixel coordinates inside the margins.
func (b bounds) xy(s profile.Sample) (float64, float64) {
	x := margin + s.Distance/b.miles*(ChartWidth-2*margin)
	y := ChartHeight - margin - (float64(s.Elevation)-b.lo)/(b.hi-b.lo)*(ChartHeight-2*margin)
	return x, y
}

func renderChart(before, after []profile.Sample) *gg.Context {
	b := chartBounds(before, after)

	dc := gg.NewContext(ChartWidth, ChartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	line := func(samples []profile.Sample) {
		for i, s := range samples {
			x, y := b.xy(s)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}

	if len(before) > 0 {
		dc.SetRGB(0.7, 0.7, 0.7)
		dc.SetLineWidth(2)
		line(before)
	}
	dc.SetRGB(0.1, 0.3, 0.8)
	dc.SetLineWidth(1.5)
	line(after)

	// axes
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, margin, margin, ChartHeight-margin)
	dc.DrawLine(margin, ChartHeight-margin, ChartWidth-margin, ChartHeight-margin)
	dc.Stroke()

	dc.DrawStringAnchored(fmt.Sprintf("%.0f ft", b.hi), margin-5, margin, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f ft", b.lo), margin-5, ChartHeight-margin, 1, 0.5)
	dc.DrawStringAnchored("0 mi", margin, ChartHeight-margin+15, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f mi", b.miles), ChartWidth-margin, ChartHeight-margin+15, 0.5, 0.5)
	if len(before) > 0 {
		dc.DrawStringAnchored("grey: previous  blue: new", ChartWidth/2, margin/2, 0.5, 0.5)
	}
	return dc
}
