package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"influencers/internal/analysis"
)

const (
	colorText = "#31333f"
	colorGrid = "#e6e9ef"
)

// NewBar builds an interactive bar chart with one bar per bucket.
func NewBar(title, series string, buckets []analysis.Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "640px",
			Height: "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorText, FontSize: 16},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Rotate: 45, Color: colorText},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: colorText},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorGrid}},
		}),
	)

	names := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		names[i] = b.Label
		data[i] = opts.BarData{Name: b.Label, Value: b.Value}
	}
	bar.SetXAxis(names)
	bar.AddSeries(series, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f77b4"}))
	return bar
}

// PlatformCharts are the two dashboard charts for a report.
func PlatformCharts(rep analysis.Report) []components.Charter {
	return []components.Charter{
		NewBar("Influencers by Platform", "Influencers", rep.PlatformCounts),
		NewBar("Total Followers by Platform", "Followers", rep.PlatformFollowers),
	}
}

// RenderPage writes a standalone HTML page holding the given charts.
func RenderPage(w io.Writer, title string, items ...components.Charter) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(items...)
	return page.Render(w)
}
