package main

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jonathanmweiss/go-gbasis"
)

// recorder keeps the driver steps for plotting.
type recorder struct {
	steps []gbasis.Step
}

func (r *recorder) observe(s gbasis.Step) {
	r.steps = append(r.steps, s)
}

func toLineItems(vals []int) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: v}
	}

	return out
}

func (r *recorder) chart(subtitle string) *charts.Line {
	xs := make([]string, len(r.steps))
	size := make([]int, len(r.steps))
	pending := make([]int, len(r.steps))
	degree := make([]int, len(r.steps))

	for i, s := range r.steps {
		xs[i] = strconv.Itoa(s.Index)
		size[i] = s.BasisSize
		pending[i] = s.Pending
		degree[i] = s.Degree
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Groebner basis completion", Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "gbasis", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(xs).
		AddSeries("basis size", toLineItems(size)).
		AddSeries("pending pairs", toLineItems(pending)).
		AddSeries("degree", toLineItems(degree))

	return line
}

func (r *recorder) render(w io.Writer, subtitle string) error {
	page := components.NewPage()
	page.AddCharts(r.chart(subtitle))

	return page.Render(w)
}
