package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/precsim/internal/chatter"
)

// Palette cycles across lobes.
var Palette = []string{"#4fc3f7", "#81c784", "#ffb74d", "#e57373", "#ba68c8", "#fff176"}

const pad = 40.0

// LobesSVG renders a stability lobe diagram. The y-axis is clamped to
// twice the lowest lobe minimum so the asymptotes near each lobe edge do
// not flatten the plot. mark, when non-nil, is drawn as a dot.
func LobesSVG(set chatter.LobeSet, width, height int, mark *chatter.LobePoint) string {
	w, h := float64(width), float64(height)
	minX, maxX := set.Range.Min, set.Range.Max
	if maxX <= minX {
		maxX = minX + 1
	}
	maxY := 0.0
	for _, l := range set.Lobes {
		for _, p := range l.Points {
			if maxY == 0 || p.Depth < maxY {
				maxY = p.Depth
			}
		}
	}
	maxY = 2 * maxY
	if maxY == 0 {
		maxY = 1
	}

	px := func(rpm float64) float64 { return pad + (rpm-minX)/(maxX-minX)*(w-2*pad) }
	py := func(depth float64) float64 {
		return h - pad - math.Min(depth, maxY)/maxY*(h-2*pad)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="#555" stroke-width="1" fill="none">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
<g fill="#aaa" font-family="monospace" font-size="11">
<text x="%.1f" y="%.1f">%.0f</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.0f rpm</text>
<text x="4" y="%.1f">%.3f mm</text>
</g>
`, width, height, width, height,
		pad, h-pad, w-pad, h-pad,
		pad, pad, pad, h-pad,
		pad, h-pad+16, minX,
		w-pad, h-pad+16, maxX,
		pad-6, maxY)

	for i, l := range set.Lobes {
		if len(l.Points) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, Palette[i%len(Palette)])
		for j, p := range l.Points {
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px(p.RPM), py(p.Depth))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px(p.RPM), py(p.Depth))
			}
		}
		sb.WriteString("\"/>\n")
	}

	if mark != nil && set.Range.Contains(mark.RPM) {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="#ffffff"/>
`, px(mark.RPM), py(mark.Depth))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteLobes writes LobesSVG to w.
func WriteLobes(w io.Writer, set chatter.LobeSet, width, height int, mark *chatter.LobePoint) error {
	_, err := io.WriteString(w, LobesSVG(set, width, height, mark))
	return err
}
