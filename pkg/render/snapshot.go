// Package render draws adjacency matrix snapshots of an Autopart run.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gilchrisn/cross-associations/pkg/autopart"
)

var (
	cellOn   = color.Gray{Y: 0}
	cellOff  = color.Gray{Y: 255}
	boundary = color.RGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff}
)

// Matrix renders a 0/1 matrix as a grey-scale image, set cells black,
// with group boundaries drawn as orange lines before the given rows and
// columns. Each cell is scale x scale pixels.
func Matrix(m mat.Matrix, boundaries []int, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	rows, cols := m.Dims()
	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			col := cellOff
			if m.At(r, c) != 0 {
				col = cellOn
			}
			for y := r * scale; y < (r+1)*scale; y++ {
				for x := c * scale; x < (c+1)*scale; x++ {
					img.Set(x, y, col)
				}
			}
		}
	}

	for _, b := range boundaries {
		pos := b * scale
		for i := 0; i < rows*scale && pos < cols*scale; i++ {
			img.Set(pos, i, boundary)
		}
		for i := 0; i < cols*scale && pos < rows*scale; i++ {
			img.Set(i, pos, boundary)
		}
	}
	return img
}

// Encode writes the view's matrix as PNG
func Encode(w io.Writer, view autopart.View, scale int) error {
	return png.Encode(w, Matrix(view.AdjacencyMatrix(), view.Boundaries(), scale))
}

// SnapshotWriter is an observer saving one PNG per step into Dir
type SnapshotWriter struct {
	Dir string
	// Size is the target image width in pixels; cells never go below one pixel
	Size int
	// Density also saves the shaded block model next to each matrix
	Density bool
}

// NewSnapshotWriter creates dir if needed
func NewSnapshotWriter(dir string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotWriter{Dir: dir, Size: 600}, nil
}

// FileName returns the snapshot name of a step
func FileName(step autopart.Step) string {
	return fmt.Sprintf("autopart_step_%d_%s_%d.png", step.Number, step.Kind, step.Iteration)
}

// Observe implements autopart.Observer
func (sw *SnapshotWriter) Observe(step autopart.Step, view autopart.View) error {
	scale := 1
	if n := view.NumNodes(); n > 0 && sw.Size > n {
		scale = sw.Size / n
	}

	file, err := os.Create(filepath.Join(sw.Dir, FileName(step)))
	if err != nil {
		return err
	}
	if err := Encode(file, view, scale); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil || !sw.Density {
		return err
	}

	name := strings.TrimSuffix(FileName(step), ".png") + "_density.png"
	file, err = os.Create(filepath.Join(sw.Dir, name))
	if err != nil {
		return err
	}
	if err := EncodeDensity(file, view, scale); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
