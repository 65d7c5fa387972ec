package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/precsim/internal/chatter"
)

// Line plots one series with asciigraph.
func Line(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(finite(data),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Lines overlays several equally sampled series, coloured by theme.
func Lines(data [][]float64, caption string, height, width int, theme Theme) string {
	series := make([][]float64, 0, len(data))
	for _, d := range data {
		if len(d) > 0 {
			series = append(series, finite(d))
		}
	}
	if len(series) == 0 {
		return ""
	}
	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = theme.Series[i%len(theme.Series)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// Histogram counts values into bins equal-width buckets over their range.
func Histogram(values []float64, bins int) []float64 {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range values {
		i := bins - 1
		if width > 0 {
			i = min(int((v-lo)/width), bins-1)
		}
		counts[i]++
	}
	return counts
}

// LobeChart draws every lobe of set on a Braille canvas of width x height
// cells, with RPM on the x axis and depth on the y axis. An optional
// operating point is marked with a cross.
func LobeChart(set chatter.LobeSet, width, height int, mark *chatter.LobePoint) string {
	if len(set.Lobes) == 0 {
		return Subtle.Render("no lobes in range") + "\n"
	}

	yr := Extent{Min: 0}
	for _, lobe := range set.Lobes {
		for _, p := range lobe.Points {
			yr.Max = math.Max(yr.Max, p.Depth)
		}
	}
	// Lobe tips run up to the depth cap; show the lower part in detail.
	yr.Max = math.Min(yr.Max, 5*lowestDepth(set))
	xr := Extent{Min: set.Range.Min, Max: set.Range.Max}

	c := NewCanvas(width, height)
	for _, lobe := range set.Lobes {
		xs := make([]float64, len(lobe.Points))
		ys := make([]float64, len(lobe.Points))
		for i, p := range lobe.Points {
			xs[i], ys[i] = p.RPM, math.Min(p.Depth, yr.Max)
		}
		c.Polyline(xs, ys, xr, yr)
	}
	if mark != nil {
		cx := int((mark.RPM - xr.Min) / xr.span() * float64(2*width-1))
		cy := int((1 - math.Min(mark.Depth, yr.Max)/yr.span()) * float64(4*height-1))
		c.DrawLine(cx-2, cy, cx+2, cy)
		c.DrawLine(cx, cy-2, cx, cy+2)
	}

	var b strings.Builder
	rows := c.Rows()
	for i, row := range rows {
		label := "        "
		switch i {
		case 0:
			label = fmt.Sprintf("%7.3f ", yr.Max)
		case len(rows) - 1:
			label = fmt.Sprintf("%7.3f ", yr.Min)
		}
		b.WriteString(Subtle.Render(label) + row + "\n")
	}
	axis := fmt.Sprintf("%-*.0f%*.0f", width/2, xr.Min, width-width/2, xr.Max)
	b.WriteString("        " + Subtle.Render(axis) + "\n")
	b.WriteString("        " + Subtle.Render("depth (mm) vs spindle speed (rpm)") + "\n")
	return b.String()
}

func lowestDepth(set chatter.LobeSet) float64 {
	lo := math.Inf(1)
	for _, lobe := range set.Lobes {
		for _, p := range lobe.Points {
			lo = math.Min(lo, p.Depth)
		}
	}
	return lo
}

// finite replaces non-finite values with the nearest finite neighbour to
// its left (or zero), since asciigraph cannot scale infinities.
func finite(data []float64) []float64 {
	out := make([]float64, len(data))
	last := 0.0
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = last
			continue
		}
		out[i], last = v, v
	}
	return out
}
