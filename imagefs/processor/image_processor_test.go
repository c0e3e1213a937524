package processor_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/imagefs/processor"
)

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x ^ y) * 3), A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, gradient(w, h), &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, gradient(w, h)))
	return buf.Bytes()
}

func dimensions(t *testing.T, src []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestResizeBoundsWidthAndKeepsAspect(t *testing.T) {
	codec := processor.New()

	out, err := codec.Resize(pngBytes(t, 800, 400), "png", 200)
	require.NoError(t, err)

	w, h := dimensions(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestResizeNeverUpscales(t *testing.T) {
	codec := processor.New()

	out, err := codec.Resize(pngBytes(t, 120, 60), "png", 200)
	require.NoError(t, err)

	w, h := dimensions(t, out)
	assert.Equal(t, 120, w)
	assert.Equal(t, 60, h)
}

func TestCompressKeepsResolution(t *testing.T) {
	codec := processor.New()

	out, err := codec.Compress(jpegBytes(t, 640, 480), "jpg", 40)
	require.NoError(t, err)

	w, h := dimensions(t, out)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestCompressQualityIsMonotonic(t *testing.T) {
	codec := processor.New()
	src := jpegBytes(t, 320, 240)

	low, err := codec.Compress(src, "jpeg", 10)
	require.NoError(t, err)
	high, err := codec.Compress(src, "jpeg", 90)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(low), len(high))
}

func TestCompressClampsQuality(t *testing.T) {
	codec := processor.New()
	src := jpegBytes(t, 64, 64)

	_, err := codec.Compress(src, "jpg", 0)
	require.NoError(t, err)
	_, err = codec.Compress(src, "jpg", 150)
	require.NoError(t, err)
}

func TestUnsupportedInput(t *testing.T) {
	codec := processor.New()

	_, err := codec.Compress([]byte("not an image"), "png", 50)
	require.Error(t, err)

	_, err = codec.Compress(pngBytes(t, 8, 8), "heic", 50)
	require.Error(t, err)

	_, err = codec.Resize(pngBytes(t, 8, 8), "png", 0)
	require.Error(t, err)
}
