package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gilchrisn/cross-associations/pkg/autopart"
)

var (
	sparseColor = colorful.Color{R: 1, G: 1, B: 1}
	denseColor  = mustParseHex("#1f3a93")
)

// mustParseHex wraps colorful.Hex, panicking on a malformed literal
func mustParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// blockColor blends from white to dark blue in Lab space as p goes to 1
func blockColor(p float64) color.RGBA {
	r, g, b := sparseColor.BlendLab(denseColor, p).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Density renders the block model instead of the raw matrix: every cell is
// shaded with the estimated density of the block holding it.
func Density(view autopart.View, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	n := view.NumNodes()
	img := image.NewRGBA(image.Rect(0, 0, n*scale, n*scale))

	// start[g] is the first row of group g
	sizes := view.GroupSizes()
	start := make([]int, len(sizes)+1)
	for g, size := range sizes {
		start[g+1] = start[g] + size
	}
	for i := 0; i < view.K(); i++ {
		for j := 0; j < view.K(); j++ {
			col := blockColor(view.BlockDensity(i, j))
			for y := start[i] * scale; y < start[i+1]*scale; y++ {
				for x := start[j] * scale; x < start[j+1]*scale; x++ {
					img.SetRGBA(x, y, col)
				}
			}
		}
	}
	return img
}

// EncodeDensity writes the block density image as PNG
func EncodeDensity(w io.Writer, view autopart.View, scale int) error {
	return png.Encode(w, Density(view, scale))
}
