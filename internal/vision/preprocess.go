package vision

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// DefaultTargetSize is the square input size the reconstruction model was
// trained on.
const DefaultTargetSize = 256

// Tensor is a normalized RGB image laid out row-major, three float32 values
// per pixel in [0, 1].
type Tensor struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Data   []float32 `json:"data"`
}

// Preprocess converts an image into model input: scaled preserving aspect
// ratio so the long side fits the target square, centered over symmetric
// black padding, pixel values normalized to [0, 1].
func Preprocess(img image.Image, target int) (*Tensor, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has empty bounds %dx%d", w, h)
	}

	ratio := float64(target) / float64(max(w, h))
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	// The zero-valued canvas doubles as the black padding.
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	offX, offY := (target-nw)/2, (target-nh)/2
	draw.CatmullRom.Scale(dst, image.Rect(offX, offY, offX+nw, offY+nh), img, bounds, draw.Src, nil)

	data := make([]float32, 0, target*target*3)
	for y := 0; y < target; y++ {
		for x := 0; x < target; x++ {
			c := dst.RGBAAt(x, y)
			data = append(data, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
		}
	}

	return &Tensor{Width: target, Height: target, Data: data}, nil
}

// MSE returns the mean squared error between two equally sized value slices.
func MSE(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("mismatched value counts %d and %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum / float64(len(a)), nil
}
