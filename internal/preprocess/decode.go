// Package preprocess turns uploaded image bytes into the float32 tensor a
// classification model consumes: decode, resize to a fixed square, convert
// to RGB and lay out with a leading batch dimension of 1.
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Registered decoders. GIF/JPEG/PNG from the standard library, the rest
	// from x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned when the upload carries no bytes.
var ErrEmptyImage = errors.New("empty image")

// Decode decodes b with any registered format and returns the image and the
// format name.
func Decode(b []byte) (image.Image, string, error) {
	if len(b) == 0 {
		return nil, "", ErrEmptyImage
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	return img, format, nil
}
