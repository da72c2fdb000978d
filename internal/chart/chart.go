// Package chart renders membership functions of linguistic variables.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/spboyer/gorjeta/internal/fuzzy"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default image size for a 2x2 grid of panels.
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// samplesPerUnit controls how finely curves are drawn.
const samplesPerUnit = 4

var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0xff, G: 0xbf, B: 0x00, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

// Panel builds one plot with every term of v drawn as a line.
func Panel(v *fuzzy.Variable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(v.Name())
	p.X.Label.Text = v.Name()
	p.Y.Label.Text = "membership"
	p.Y.Min, p.Y.Max = -0.1, 1.1
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	low, high := v.Bounds()
	n := int(math.Ceil(high-low))*samplesPerUnit + 1

	for i, term := range v.Terms() {
		xs, ys, err := v.Curve(term.Name, n)
		if err != nil {
			return nil, err
		}
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X, pts[j].Y = xs[j], ys[j]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plotting %s/%s: %w", v.Name(), term.Name, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(term.Name, line)
	}
	return p, nil
}

// Grid lays out one panel per variable, two per row, and writes the result
// as PNG.
func Grid(w io.Writer, vars []*fuzzy.Variable, width, height vg.Length) error {
	if len(vars) == 0 {
		return fmt.Errorf("no variables to plot")
	}

	const cols = 2
	rows := (len(vars) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}
	for i, v := range vars {
		p, err := Panel(v)
		if err != nil {
			return err
		}
		plots[i/cols][i%cols] = p
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)

	t := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, t, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}

// Title turns a variable name such as "service_time" into "Service Time".
func Title(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Describe writes a plain-text listing of every term's breakpoints.
func Describe(w io.Writer, vars []*fuzzy.Variable) error {
	for _, v := range vars {
		low, high := v.Bounds()
		if _, err := fmt.Fprintf(w, "%s [%g, %g]\n", Title(v.Name()), low, high); err != nil {
			return err
		}
		for _, term := range v.Terms() {
			a, b, c := term.Shape.Params()
			if _, err := fmt.Fprintf(w, "  %-12s tri(%g, %g, %g)\n", term.Name, a, b, c); err != nil {
				return err
			}
		}
	}
	return nil
}
