// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package charts

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/danielhkuo/ballot-report/models"
)

// viridis colour ramp for heatmaps
var heatColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

func (b *builder) init(height string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:      "100%",
		Height:     height,
		AssetsHost: b.opts.AssetsHost,
	})
}

func ballotsSubtitle(total int) string {
	if total == 0 {
		return "No ballots in this subset"
	}
	return humanize.Comma(int64(total)) + " ballots"
}

func pctLabel(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// distributionBar plots a distribution as vertical bars labelled with the
// row percentage
func (b *builder) distributionBar(title string, d models.Distribution) *charts.Bar {
	x := make([]string, 0, len(d.Rows))
	y := make([]opts.BarData, 0, len(d.Rows))
	for _, r := range d.Rows {
		x = append(x, r.Label)
		y = append(y, opts.BarData{Name: r.Label + " (" + pctLabel(r.Percentage) + ")", Value: r.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		b.init("420px"),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: ballotsSubtitle(d.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries(d.Name, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// rankedBar plots the top rows of a distribution as horizontal bars, the
// largest at the top
func (b *builder) rankedBar(title string, d models.Distribution) *charts.Bar {
	x := make([]string, 0, len(d.Rows))
	y := make([]opts.BarData, 0, len(d.Rows))
	for i := len(d.Rows) - 1; i >= 0; i-- {
		r := d.Rows[i]
		x = append(x, r.Label)
		y = append(y, opts.BarData{Name: r.Label, Value: r.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		b.init(rankedHeight(len(d.Rows))),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: ballotsSubtitle(d.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries(d.Name, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
		)
	bar.XYReversal()
	return bar
}

func rankedHeight(rows int) string {
	return strconv.Itoa(max(320, 120+rows*28)) + "px"
}

// pairsBar plots ranked pairs as horizontal bars labelled "A + B"
func (b *builder) pairsBar(title string, p models.RankedPairs) *charts.Bar {
	d := models.Distribution{
		Name:  fmt.Sprintf("%s_%s_pairs", p.Contest, p.Dimension),
		Total: p.Total,
		Empty: p.Empty,
	}
	for _, r := range p.Pairs {
		d.Rows = append(d.Rows, models.DistributionRow{
			Label:      r.LabelA + " + " + r.LabelB,
			Count:      r.Count,
			Percentage: r.Percentage,
		})
	}
	return b.rankedBar(title, d)
}

// breakdownPie plots the true/false split of a metric as a donut
func (b *builder) breakdownPie(title string, br models.Breakdown) *charts.Pie {
	data := []opts.PieData{}
	if !br.Empty {
		data = append(data,
			opts.PieData{Name: "Yes", Value: br.TrueCount},
			opts.PieData{Name: "No", Value: br.FalseCount},
		)
	}
	return b.donut(title, ballotsSubtitle(br.Total), string(br.Metric), data)
}

// distributionPie plots a distribution as a donut
func (b *builder) distributionPie(title string, d models.Distribution) *charts.Pie {
	data := make([]opts.PieData, 0, len(d.Rows))
	for _, r := range d.Rows {
		data = append(data, opts.PieData{Name: r.Label, Value: r.Count})
	}
	return b.donut(title, ballotsSubtitle(d.Total), d.Name, data)
}

func (b *builder) donut(title, subtitle, series string, data []opts.PieData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		b.init("420px"),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	pie.AddSeries(series, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// heatmap plots a party co-occurrence matrix on a fixed colour scale
func (b *builder) heatmap(title string, h models.Heatmap, scaleMax int) *charts.HeatMap {
	data := make([]opts.HeatMapData, 0, len(h.Labels)*len(h.Labels))
	for i, row := range h.Cells {
		for j, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		b.init("560px"),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: humanize.Comma(int64(len(h.Labels))) + " parties"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: h.Labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: h.Labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(scaleMax, 1)),
			InRange:    &opts.VisualMapInRange{Color: heatColors},
		}),
	)
	hm.SetXAxis(h.Labels).AddSeries(string(h.Contest), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm
}
