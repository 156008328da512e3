package tui

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/kevelmun/portfolio/internal/radar"
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Green, asciigraph.Yellow, asciigraph.Red, asciigraph.Magenta}

// renderProfiles draws the selected radar profiles as line series over the
// chart dimensions, followed by a legend and the dimension index.
func renderProfiles(chart *radar.Chart, sel radar.Selection, width int, st Styles) string {
	var b strings.Builder

	for i, p := range chart.Profiles {
		mark := "○"
		if sel.Has(p.ID) {
			mark = "●"
		}
		color := seriesColors[i%len(seriesColors)]
		fmt.Fprintf(&b, "%d %s%s%s %s  ", i+1, color, mark, asciigraph.Default, p.Label)
	}
	b.WriteString("\n\n")

	labels, data := chart.Series(sel)
	if len(data) == 0 {
		b.WriteString(st.Hint.Render("No profiles selected. Press a to show all."))
		return st.Pane.Render(b.String())
	}

	colors := make([]asciigraph.AnsiColor, 0, len(labels))
	for i, p := range chart.Profiles {
		if sel.Has(p.ID) {
			colors = append(colors, seriesColors[i%len(seriesColors)])
		}
	}
	plotWidth := width - 16
	if plotWidth < 3*len(chart.Dimensions) {
		plotWidth = 3 * len(chart.Dimensions)
	}
	b.WriteString(asciigraph.PlotMany(data,
		asciigraph.Height(10),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(chart.Max),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(strings.Join(labels, " · ")),
	))
	b.WriteString("\n\n")

	dims := make([]string, len(chart.Dimensions))
	for i, d := range chart.Dimensions {
		dims[i] = fmt.Sprintf("%d:%s", i+1, d)
	}
	b.WriteString(st.Hint.Render(strings.Join(dims, "  ")))
	return st.Pane.Render(b.String())
}
