package domain

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// pngWithHeader returns a 1x1 PNG whose IHDR claims w x h pixels.
func pngWithHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := encodePNG(t, 1, 1, color.NRGBA{A: 255})
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestNewImage_RejectsOversizedDimensions(t *testing.T) {
	data := pngWithHeader(t, 14000, 14000)
	require.Less(t, len(data), 1024)

	img, err := NewImage(data)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestDecodeImage_PixelCap(t *testing.T) {
	data := encodePNG(t, 100, 50, color.NRGBA{R: 1, A: 255})

	_, err := DecodeImage(data, 4999)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	img, err := DecodeImage(data, 5000)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	img, err = DecodeImage(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestNewImage_GrayPNG(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gray))

	img, err := NewImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 0xff}, img.RGBA().RGBAAt(2, 1))
}

func TestNewImage_Rejects(t *testing.T) {
	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), []color.Color{color.Black, color.White}), nil))

	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{name: "nil data", data: nil, expected: ErrEmptyImage},
		{name: "empty data", data: []byte{}, expected: ErrEmptyImage},
		{name: "garbage", data: []byte{0x00, 0x01, 0x02}, expected: ErrUnsupportedImageFormat},
		{name: "gif", data: gifBuf.Bytes(), expected: ErrUnsupportedImageFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.data)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestNewImage_PNGDropsAlpha(t *testing.T) {
	data := encodePNG(t, 4, 3, color.NRGBA{R: 200, G: 10, B: 30, A: 128})

	img, err := NewImage(data)
	require.NoError(t, err)

	assert.Equal(t, PNG, img.Format())
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())

	px := img.RGBA().RGBAAt(1, 1)
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 30, A: 0xff}, px)
}

func TestNewImage_JPEG(t *testing.T) {
	img, err := NewImage(encodeJPEG(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, JPEG, img.Format())
}

func TestImage_Resize(t *testing.T) {
	img, err := NewImage(encodePNG(t, 400, 200, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))
	require.NoError(t, err)

	t.Run("landscape keeps aspect ratio", func(t *testing.T) {
		out := img.Resize(100)
		assert.Equal(t, 100, out.Bounds().Dx())
		assert.Equal(t, 50, out.Bounds().Dy())
		assert.Equal(t, PNG, out.Format())
	})

	t.Run("fits already", func(t *testing.T) {
		assert.Same(t, img, img.Resize(400))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.Same(t, img, img.Resize(0))
	})

	t.Run("portrait", func(t *testing.T) {
		tall, err := NewImage(encodePNG(t, 100, 300, color.NRGBA{A: 255}))
		require.NoError(t, err)
		out := tall.Resize(150)
		assert.Equal(t, 50, out.Bounds().Dx())
		assert.Equal(t, 150, out.Bounds().Dy())
	})
}

func TestImage_Encodings(t *testing.T) {
	img, err := NewImage(encodePNG(t, 5, 5, color.NRGBA{R: 9, A: 255}))
	require.NoError(t, err)

	data, err := img.JPEG()
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	uri, err := img.DataURI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
}
