// Package charts renders the calorie box plot and rating bar chart into a
// single PNG image.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/recipe-eda/internal/analysis"
	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

var (
	steelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	highRed   = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	wheat     = color.RGBA{R: 245, G: 222, B: 179, A: 255}
)

// ErrNoCalories is returned when the table has no calorie value to plot.
var ErrNoCalories = errors.New("no calorie values to plot")

// Options sizes the output image.
type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultOptions is a 14x5 inch canvas at 300 DPI.
func DefaultOptions() Options {
	return Options{WidthIn: 14, HeightIn: 5, DPI: 300}
}

// Render draws both panels side by side and encodes them as PNG to w.
func Render(w io.Writer, rows []dataset.RecipeRatingCalories, s *analysis.Stats, opt Options) error {
	box, err := CaloriePanel(dataset.Calories(rows), s)
	if err != nil {
		return err
	}
	bars, err := RatingPanel(s)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch),
		vgimg.UseDPI(opt.DPI),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: 2,
		PadX:   vg.Millimeter * 10,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{box, bars}}, tiles, dc)
	box.Draw(canvases[0][0])
	bars.Draw(canvases[0][1])

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// CaloriePanel builds the box plot of calories, clipped to the stats clip
// value and annotated with median, mean and quartiles.
func CaloriePanel(calories []float64, s *analysis.Stats) (*plot.Plot, error) {
	if len(calories) == 0 {
		return nil, ErrNoCalories
	}
	p := plot.New()
	p.Title.Text = "Distribution of Recipe Calories"
	p.Y.Label.Text = "Calories"

	bp, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(calories))
	if err != nil {
		return nil, fmt.Errorf("box plot: %w", err)
	}
	bp.FillColor = wheat
	p.Add(bp)

	ymax := s.ClipValue
	if math.IsNaN(ymax) || ymax <= 0 {
		ymax = s.Calories.Max
	}
	p.Y.Min = 0
	p.Y.Max = ymax
	p.X.Min = -1
	p.X.Max = 2
	p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
	p.X.Label.Text = fmt.Sprintf("Note: %d extreme outliers (>%.0f cal) not shown for clarity", s.Outliers, ymax)
	p.Add(plotter.NewGrid())

	c := s.Calories
	text := fmt.Sprintf("Median: %.1f\nMean: %.1f\nQ1: %.1f\nQ3: %.1f", c.Median, c.Mean, c.Q1, c.Q3)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.6, Y: ymax * 0.7}},
		Labels: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("box annotations: %w", err)
	}
	p.Add(labels)
	return p, nil
}

// RatingPanel builds the bar chart of recipe counts per distinct average
// rating. Bars at or above the high rating threshold are drawn in red.
func RatingPanel(s *analysis.Stats) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Recipe Ratings (Imbalanced)"
	p.X.Label.Text = "Average Rating"
	p.Y.Label.Text = "Number of Recipes"
	p.Add(plotter.NewGrid())

	ratings := make([]float64, len(s.RatingCounts))
	for i, rc := range s.RatingCounts {
		ratings[i] = rc.Rating
	}
	width := BarWidth(ratings)

	low := &plotter.Histogram{FillColor: steelBlue, LineStyle: plotter.DefaultLineStyle}
	high := &plotter.Histogram{FillColor: highRed, LineStyle: plotter.DefaultLineStyle}
	maxCount := 0
	for _, rc := range s.RatingCounts {
		bin := plotter.HistogramBin{Min: rc.Rating - width/2, Max: rc.Rating + width/2, Weight: float64(rc.Count)}
		if rc.Rating >= s.HighRating {
			high.Bins = append(high.Bins, bin)
		} else {
			low.Bins = append(low.Bins, bin)
		}
		if rc.Count > maxCount {
			maxCount = rc.Count
		}
	}
	if len(low.Bins) > 0 {
		p.Add(low)
		p.Legend.Add(fmt.Sprintf("rating < %.1f", s.HighRating), low)
	}
	if len(high.Bins) > 0 {
		p.Add(high)
		p.Legend.Add(fmt.Sprintf("rating >= %.1f", s.HighRating), high)
	}
	p.Legend.Top = true

	ymax := float64(maxCount) * 1.15
	if ymax == 0 {
		ymax = 1
	}
	p.Y.Min = 0
	p.Y.Max = ymax
	xmin, xmax := 0.0, 5.0
	if len(ratings) > 0 {
		xmin = math.Min(xmin, ratings[0]-width)
		xmax = math.Max(xmax, ratings[len(ratings)-1]+width)
	}
	p.X.Min = xmin - 0.25
	p.X.Max = xmax + 0.25

	text := fmt.Sprintf("Imbalance Alert:\n%.1f%% of recipes\nhave ratings >= %.1f", s.HighRatedPct, s.HighRating)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: p.X.Min + 0.05*(p.X.Max-p.X.Min), Y: ymax * 0.8}},
		Labels: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("bar annotations: %w", err)
	}
	p.Add(labels)
	return p, nil
}

// BarWidth picks a bar width in rating units: 80% of the smallest gap between
// neighbouring ratings, capped at 0.3.
func BarWidth(sortedRatings []float64) float64 {
	const maxWidth = 0.3
	w := maxWidth
	for i := 1; i < len(sortedRatings); i++ {
		if gap := (sortedRatings[i] - sortedRatings[i-1]) * 0.8; gap > 0 && gap < w {
			w = gap
		}
	}
	return w
}
