package sim

import (
	"fmt"
	"image/color"

	ssm "github.com/milosgajdos/go-ssm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewSeriesPlot creates new plot of a single series from the three data sources indexed by period:
// observed: measurement values; missing values are not drawn
// filtered: filter values
// smoothed: smoother values
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied series is empty
// * the supplied series differ in length
// * gonum plot fails to be created
func NewSeriesPlot(observed, filtered, smoothed []float64) (*plot.Plot, error) {
	n := len(observed)
	if n == 0 || len(filtered) != n || len(smoothed) != n {
		return nil, fmt.Errorf("invalid series lengths: %d, %d, %d", n, len(filtered), len(smoothed))
	}

	p := plot.New()

	p.Title.Text = "Simulation"
	p.X.Label.Text = "t"
	p.Y.Label.Text = "y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(makePoints(observed))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	measScatter.Shape = draw.CircleGlyph{}
	measScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(measScatter)
	p.Legend.Add("observed", measScatter)

	// Make a line plotter for filter data
	filterLine, err := plotter.NewLine(makePoints(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	filterLine.LineStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	filterLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(filterLine)
	p.Legend.Add("filtered", filterLine)

	// Make a line plotter for smoother data
	smoothLine, err := plotter.NewLine(makePoints(smoothed))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	smoothLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	smoothLine.LineStyle.Width = vg.Points(1.5)

	p.Add(smoothLine)
	p.Legend.Add("smoothed", smoothLine)

	return p, nil
}

// makePoints returns points of series s: X is the 1-based period, Y is the value.
// Missing values are skipped.
func makePoints(s []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(s))
	for i, v := range s {
		if ssm.IsMissing(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
	}

	return pts
}
