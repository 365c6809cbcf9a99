package web

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/goserg/chesstable/internal/domain"
)

const (
	chartWidth   = 640
	chartHeight  = 240
	chartPadding = 10
)

// ratingChart renders a player's rating trajectory as an inline SVG
// polyline. Rendering stays a read-only projection of the snapshot series,
// the history itself is never touched.
func ratingChart(series []domain.Snapshot) template.HTML {
	if len(series) == 0 {
		return ""
	}
	min, max := series[0].Rating.Rating, series[0].Rating.Rating
	for _, snap := range series {
		min = math.Min(min, snap.Rating.Rating)
		max = math.Max(max, snap.Rating.Rating)
	}
	if max-min < 1 {
		// A flat line still needs a visible scale.
		min, max = min-1, max+1
	}

	innerW := float64(chartWidth - 2*chartPadding)
	innerH := float64(chartHeight - 2*chartPadding)
	step := 0.0
	if len(series) > 1 {
		step = innerW / float64(len(series)-1)
	}

	var points strings.Builder
	for i, snap := range series {
		x := chartPadding + float64(i)*step
		y := chartPadding + innerH*(1-(snap.Rating.Rating-min)/(max-min))
		if i > 0 {
			points.WriteByte(' ')
		}
		fmt.Fprintf(&points, "%.1f,%.1f", x, y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="rating-chart" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<text x="%d" y="%d" class="chart-label">%.0f</text>`, chartPadding, chartPadding+10, max)
	fmt.Fprintf(&b, `<text x="%d" y="%d" class="chart-label">%.0f</text>`, chartPadding, chartHeight-chartPadding, min)
	fmt.Fprintf(&b, `<polyline fill="none" stroke="currentColor" stroke-width="2" points="%s"/>`, points.String())
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}
