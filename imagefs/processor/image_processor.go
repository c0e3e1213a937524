// Package processor decodes, resizes and re-encodes images.
package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/code19m/errx"
	"github.com/disintegration/imaging"
)

const (
	minQuality = 1
	maxQuality = 100

	// lossless re-encode used for the intermediate resize step.
	resizeQuality = 100
)

// Codec is the pluggable image primitive used by the variant deriver.
// ext is the lowercased file extension without a dot and selects the output format.
type Codec interface {
	// Resize scales src down to at most width pixels wide, keeping the aspect ratio.
	// Images already narrower than width are re-encoded at their own size.
	Resize(src []byte, ext string, width int) ([]byte, error)

	// Compress re-encodes src at the given quality in 0..100.
	// Lower quality never produces a larger file for the same input and format.
	Compress(src []byte, ext string, quality int) ([]byte, error)
}

// ImagingCodec implements Codec with github.com/disintegration/imaging.
type ImagingCodec struct{}

var _ Codec = ImagingCodec{}

// New creates the default codec.
func New() ImagingCodec {
	return ImagingCodec{}
}

func (ImagingCodec) Resize(src []byte, ext string, width int) ([]byte, error) {
	if width <= 0 {
		return nil, errx.New(fmt.Sprintf("invalid resize width %d", width))
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"extension": ext}))
	}

	img, err := decode(src)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	return encode(img, format, resizeQuality)
}

func (ImagingCodec) Compress(src []byte, ext string, quality int) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"extension": ext}))
	}

	img, err := decode(src)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return encode(img, format, quality)
}

func decode(src []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return img, nil
}

func encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	quality = clampQuality(quality)

	buf := new(bytes.Buffer)
	err := imaging.Encode(
		buf,
		img,
		format,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(pngLevel(quality)),
	)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"format": format.String()}))
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	return max(minQuality, min(maxQuality, q))
}

// pngLevel maps quality to a zlib effort. PNG stays lossless, lower quality trades CPU for size.
func pngLevel(quality int) png.CompressionLevel {
	switch {
	case quality <= 50:
		return png.BestCompression
	case quality <= 80:
		return png.DefaultCompression
	default:
		return png.BestSpeed
	}
}
