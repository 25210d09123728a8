package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// ImageSize is the spatial input size the image model expects.
const ImageSize = 32

// Tensor is a normalized float32 input with an explicit NCHW shape. The
// leading dimension is always the batch dimension of size 1.
type Tensor struct {
	Data  []float32
	Shape []int64
}

// DecodeError wraps a failure to decode raw bytes as an image.
type DecodeError struct{ cause error }

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.cause) }
func (e *DecodeError) Unwrap() error { return e.cause }

// IsDecode reports whether err indicates undecodable image bytes.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Image decodes raw bytes, converts to 3-channel RGB, resizes to
// ImageSize x ImageSize, scales pixels to [0,1], and lays the result out
// as a [1,3,H,W] tensor. Undecodable bytes fail with a DecodeError;
// malformed input is never coerced into a tensor.
func Image(raw []byte) (*Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{cause: err}
	}

	resized := resize.Resize(ImageSize, ImageSize, img, resize.Lanczos3)
	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]float32, 3*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*width + x
			data[idx] = float32(r) / 65535.0
			data[width*height+idx] = float32(g) / 65535.0
			data[2*width*height+idx] = float32(b) / 65535.0
		}
	}

	return &Tensor{
		Data:  data,
		Shape: []int64{1, 3, int64(height), int64(width)},
	}, nil
}
