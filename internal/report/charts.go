package report

import (
	"fmt"
	"image/color"
	"os"

	"github.com/huangsam/hrzones/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart file names inside every activity directory.
const (
	CountChartFile        = "zones_count.png"
	CadenceSpeedChartFile = "zones_cadence_speed.png"
	HeartRateChartFile    = "zones_heartrate.png"
)

var (
	barColor     = color.Gray{Y: 200}
	cadenceColor = color.RGBA{R: 220, A: 255}
	speedColor   = color.RGBA{B: 220, A: 255}
	allColor     = color.RGBA{R: 120, G: 120, B: 120, A: 255}

	barWidth = vg.Points(24)
	boxWidth = vg.Points(18)
)

func zoneLabels() []string {
	labels := make([]string, schema.ZoneCount)
	for i, z := range schema.AllZones {
		labels[i] = z.String()
	}
	return labels
}

func zoneCounts(buckets schema.ZoneBuckets) plotter.Values {
	values := make(plotter.Values, schema.ZoneCount)
	for i, b := range buckets {
		values[i] = float64(b.Count)
	}
	return values
}

// newCountPlot draws the number of samples per zone.
func newCountPlot(buckets schema.ZoneBuckets, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Zones"
	p.Y.Label.Text = "Samples"

	bars, err := plotter.NewBarChart(zoneCounts(buckets), barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build count bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(zoneLabels()...)
	return p, nil
}

// newBoxPlot draws one box per non-empty series at its index on the x axis.
func newBoxPlot(title, yLabel string, series [][]float64, labels []string, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	for i, values := range series {
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(values))
		if err != nil {
			return nil, fmt.Errorf("failed to build box for %s: %w", labels[i], err)
		}
		box.BoxStyle.Color = c
		box.WhiskerStyle.Color = c
		box.MedianStyle.Color = c
		box.GlyphStyle.Color = c
		p.Add(box)
	}
	p.NominalX(labels...)
	return p, nil
}

// writeCount renders the per-zone sample counts.
func writeCount(path string, az schema.ActivityZones, width, height vg.Length) error {
	p, err := newCountPlot(az.Buckets, "Heart rate zones")
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// writeCadenceSpeed stacks the count bars above cadence and speed boxes per zone.
func writeCadenceSpeed(path string, az schema.ActivityZones, width, height vg.Length) error {
	counts, err := newCountPlot(az.Buckets, "Samples, cadence and speed by zone")
	if err != nil {
		return err
	}

	cadences := make([][]float64, schema.ZoneCount)
	speeds := make([][]float64, schema.ZoneCount)
	for i, b := range az.Buckets {
		cadences[i] = b.Cadences
		speeds[i] = b.SpeedsKmh
	}
	cadence, err := newBoxPlot("", "Cadence (rpm)", cadences, zoneLabels(), cadenceColor)
	if err != nil {
		return err
	}
	speed, err := newBoxPlot("", "Speed (km/h)", speeds, zoneLabels(), speedColor)
	if err != nil {
		return err
	}
	return saveTiles(path, [][]*plot.Plot{{counts}, {cadence}, {speed}}, width, height*3/2)
}

// writeHeartRate places the per-zone boxes next to a single box of the raw stream.
func writeHeartRate(path string, az schema.ActivityZones, width, height vg.Length) error {
	series := make([][]float64, schema.ZoneCount)
	for i, b := range az.Buckets {
		series[i] = b.HeartRates
	}
	byZone, err := newBoxPlot("Heart rate by zone", "bpm", series, zoneLabels(), color.Black)
	if err != nil {
		return err
	}
	all, err := newBoxPlot("All samples", "bpm", [][]float64{az.HeartRates}, []string{"All"}, allColor)
	if err != nil {
		return err
	}
	return saveTiles(path, [][]*plot.Plot{{byZone, all}}, width*3/2, height)
}

// saveTiles aligns plots on a grid and writes them as one PNG.
func saveTiles(path string, plots [][]*plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
