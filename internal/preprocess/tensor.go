package preprocess

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Layout is the memory order of the image tensor.
type Layout string

const (
	NHWC Layout = "nhwc"
	NCHW Layout = "nchw"
)

// ParseLayout accepts "nhwc" or "nchw" (case-insensitive).
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case NHWC, NCHW:
		return l, nil
	default:
		return "", fmt.Errorf("unknown tensor layout %q", s)
	}
}

var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// ParseFilter maps a filter name to an imaging resample filter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resize filter %q", name)
	}
	return f, nil
}

// Options controls tensor construction. Zero values take defaults:
// Size 224, NHWC, Scale 1 (raw 0..255 values), CatmullRom.
type Options struct {
	Size   int
	Layout Layout
	Scale  float32
	Filter *imaging.ResampleFilter
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 224
	}
	if o.Layout == "" {
		o.Layout = NHWC
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Filter == nil {
		f := imaging.CatmullRom
		o.Filter = &f
	}
	return o
}

// Tensor is a dense float32 tensor with its shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// ToTensor resizes img to Size x Size, ignoring aspect ratio, and returns an
// RGB tensor of shape [1,S,S,3] or [1,3,S,S]. Alpha is dropped.
func ToTensor(img image.Image, opts Options) (Tensor, error) {
	if img == nil {
		return Tensor{}, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Tensor{}, fmt.Errorf("image has no pixels (%dx%d)", b.Dx(), b.Dy())
	}
	o := opts.withDefaults()
	s := o.Size
	// imaging always returns an NRGBA with origin (0,0) and stride 4*s.
	dst := imaging.Resize(img, s, s, *o.Filter)
	plane := s * s
	data := make([]float32, 3*plane)
	for y := 0; y < s; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+4*s]
		for x := 0; x < s; x++ {
			r := float32(row[4*x]) * o.Scale
			g := float32(row[4*x+1]) * o.Scale
			bl := float32(row[4*x+2]) * o.Scale
			i := y*s + x
			switch o.Layout {
			case NCHW:
				data[i] = r
				data[plane+i] = g
				data[2*plane+i] = bl
			default:
				data[3*i] = r
				data[3*i+1] = g
				data[3*i+2] = bl
			}
		}
	}
	t := Tensor{Data: data}
	if o.Layout == NCHW {
		t.Shape = []int64{1, 3, int64(s), int64(s)}
	} else {
		t.Shape = []int64{1, int64(s), int64(s), 3}
	}
	return t, nil
}

// Prepare decodes b and converts it with ToTensor.
func Prepare(b []byte, opts Options) (Tensor, error) {
	img, _, err := Decode(b)
	if err != nil {
		return Tensor{}, err
	}
	return ToTensor(img, opts)
}
