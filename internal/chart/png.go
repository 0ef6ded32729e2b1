// Package chart renders aggregated buckets as a static PNG (gonum/plot) or as
// interactive HTML charts (go-echarts).
package chart

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"influencers/internal/analysis"
)

var ErrNoData = errors.New("no_data")

var barBlue = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

type PNGOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
}

// PlatformDistribution is the chart the analyze command writes.
func PlatformDistribution() PNGOptions {
	return PNGOptions{
		Title:  "AI Influencers by Platform",
		XLabel: "Platform",
		YLabel: "Number of Influencers",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// SaveBarChart draws one bar per bucket and saves it to path. The image
// format follows the file extension.
func SaveBarChart(buckets []analysis.Bucket, path string, o PNGOptions) error {
	if len(buckets) == 0 {
		return ErrNoData
	}
	p, err := barPlot(buckets, o)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(o.Width, o.Height, path)
}

func barPlot(buckets []analysis.Bucket, o PNGOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = o.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = o.XLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = o.YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)

	values := make(plotter.Values, len(buckets))
	names := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = b.Value
		names[i] = b.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = barBlue
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	return p, nil
}
