package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dave/odt/globals"
	"github.com/dave/odt/profile"
	"github.com/dustin/go-humanize"
)

// Stats summarises a profile
type Stats struct {
	Points  int
	Miles   float64 // trail length
	Spacing float64 // average feet between points
	Gain    int     // total climb in feet
	Loss    int     // total descent in feet
}

func Summarize(samples []profile.Sample) Stats {
	s := Stats{Points: len(samples)}
	if len(samples) == 0 {
		return s
	}
	s.Miles = samples[len(samples)-1].Distance
	s.Spacing = s.Miles / float64(len(samples)) * globals.FEET_PER_MILE
	s.Gain, s.Loss = GainLoss(samples)
	return s
}

// GainLoss sums the positive and negative steps in elevation along the profile.
func GainLoss(samples []profile.Sample) (gain, loss int) {
	for i := 1; i < len(samples); i++ {
		d := samples[i].Elevation - samples[i-1].Elevation
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	return gain, loss
}

// Comparison between the previously published profile and the new one. Old is nil when there was no
// previous profile.
type Comparison struct {
	Old *Stats
	New Stats
}

func Compare(before, after []profile.Sample) Comparison {
	c := Comparison{New: Summarize(after)}
	if len(before) > 0 {
		o := Summarize(before)
		c.Old = &o
	}
	return c
}

// GainChange is the percentage change in total gain. ok is false if there's nothing to compare against.
func (c Comparison) GainChange() (pct float64, ok bool) {
	if c.Old == nil || c.Old.Gain == 0 {
		return 0, false
	}
	return float64(c.New.Gain-c.Old.Gain) / float64(c.Old.Gain) * 100, true
}

// LossChange is the percentage change in total loss, 0 if the old profile had no loss. Like GainChange it
// is only reported when the old profile had some gain.
func (c Comparison) LossChange() (pct float64, ok bool) {
	if c.Old == nil || c.Old.Gain == 0 {
		return 0, false
	}
	if c.Old.Loss == 0 {
		return 0, true
	}
	return float64(c.New.Loss-c.Old.Loss) / float64(c.Old.Loss) * 100, true
}

const width = 62

func (c Comparison) Print(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", width)
	row := func(metric, before, after, change string) {
		fmt.Fprintf(&b, "  %-32s  %10s  %10s  %10s\n", metric, before, after, change)
	}
	signed := func(v int) string {
		if v >= 0 {
			return "+" + humanize.Comma(int64(v))
		}
		return humanize.Comma(int64(v))
	}

	if c.Old == nil {
		b.WriteString("  (no old profile to compare)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	o, n := *c.Old, c.New

	fmt.Fprintf(&b, "\n%s\n  ELEVATION COMPARISON: OLD vs NEW\n%s\n", rule, rule)
	row("Metric", "OLD", "NEW", "CHANGE")
	fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", width))
	row("Total points", humanize.Comma(int64(o.Points)), humanize.Comma(int64(n.Points)), "")
	row("Trail length (miles)", fmt.Sprintf("%.1f", o.Miles), fmt.Sprintf("%.1f", n.Miles), "")
	row("Avg point spacing (ft)", fmt.Sprintf("%.0f", o.Spacing), fmt.Sprintf("%.0f", n.Spacing), "")
	row("Total gain (ft)", humanize.Comma(int64(o.Gain)), humanize.Comma(int64(n.Gain)), signed(n.Gain-o.Gain))
	row("Total loss (ft)", humanize.Comma(int64(o.Loss)), humanize.Comma(int64(n.Loss)), signed(n.Loss-o.Loss))
	if pct, ok := c.GainChange(); ok {
		row("Gain % change", "", "", fmt.Sprintf("%+.1f%%", pct))
	}
	if pct, ok := c.LossChange(); ok {
		row("Loss % change", "", "", fmt.Sprintf("%+.1f%%", pct))
	}
	fmt.Fprintf(&b, "%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}
