package visualize

import (
	"fmt"
	"strings"
)

// ContentTypeSVG is the MIME type of rendered charts.
const ContentTypeSVG = "image/svg+xml"

// Chart geometry. The canvas is fixed, the series is scaled into the plot area.
const (
	chartWidth  = 800
	chartHeight = 400
	marginLeft  = 60
	marginRight = 20
	marginTop   = 30
	marginBot   = 40
	yTicks      = 5
)

// renderLineChart renders the series as an SVG line chart with the title on
// top, y-axis value labels and sample index on the x-axis.
func renderLineChart(title string, series []float64) []byte {
	minVal, maxVal := series[0], series[0]
	for _, v := range series {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	// a flat series still needs a non-zero vertical extent
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)

	x := func(i int) float64 {
		if len(series) == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(len(series)-1)
	}
	y := func(v float64) float64 {
		return marginTop + plotH*(1-(v-minVal)/(maxVal-minVal))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="white"/>`, chartWidth, chartHeight)
	sb.WriteString("\n")
	fmt.Fprintf(&sb,
		`<text x="%d" y="20" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>`,
		chartWidth/2, escapeText(title))
	sb.WriteString("\n")

	for i := 0; i <= yTicks; i++ {
		v := minVal + (maxVal-minVal)*float64(i)/float64(yTicks)
		ty := y(v)
		fmt.Fprintf(&sb,
			`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#ddd"/>`,
			marginLeft, ty, chartWidth-marginRight, ty)
		sb.WriteString("\n")
		fmt.Fprintf(&sb,
			`<text x="%d" y="%.1f" font-family="sans-serif" font-size="11" text-anchor="end">%s</text>`,
			marginLeft-8, ty+4, formatValue(v))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb,
		`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`,
		marginLeft, marginTop, marginLeft, chartHeight-marginBot)
	sb.WriteString("\n")
	fmt.Fprintf(&sb,
		`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`,
		marginLeft, chartHeight-marginBot, chartWidth-marginRight, chartHeight-marginBot)
	sb.WriteString("\n")
	fmt.Fprintf(&sb,
		`<text x="%d" y="%d" font-family="sans-serif" font-size="11" text-anchor="middle">sample</text>`,
		(marginLeft+chartWidth-marginRight)/2, chartHeight-10)
	sb.WriteString("\n")

	points := make([]string, 0, len(series))
	for i, v := range series {
		points = append(points, fmt.Sprintf("%.1f,%.1f", x(i), y(v)))
	}
	fmt.Fprintf(&sb,
		`<polyline fill="none" stroke="#1f77b4" stroke-width="1.5" points="%s"/>`,
		strings.Join(points, " "))
	sb.WriteString("\n</svg>\n")

	return []byte(sb.String())
}

func formatValue(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
