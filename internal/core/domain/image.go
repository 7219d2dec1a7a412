package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
)

const jpegQuality = 90

// DefaultMaxPixels caps decoded width*height, matching PIL's decompression
// bomb threshold.
const DefaultMaxPixels = 89_478_485

// Image is an uploaded picture decoded into an opaque RGB pixel buffer.
type Image struct {
	pixels *image.RGBA
	format ImageFormat
}

// NewImage decodes an upload with the DefaultMaxPixels cap.
func NewImage(data []byte) (*Image, error) {
	return DecodeImage(data, DefaultMaxPixels)
}

// DecodeImage validates and decodes an upload. Only JPEG and PNG are accepted;
// the alpha channel is dropped, not composited. Images with more than
// maxPixels pixels are rejected from the header alone, before decoding.
// A non-positive maxPixels disables the cap.
func DecodeImage(data []byte, maxPixels int) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	cfg, format, err := detectFormat(data)
	if err != nil {
		return nil, err
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	var src image.Image
	switch format {
	case JPEG:
		src, err = jpeg.Decode(bytes.NewReader(data))
	case PNG:
		src, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnsupportedImageFormat, format, err)
	}

	return &Image{pixels: toRGB(src), format: format}, nil
}

func (i *Image) Format() ImageFormat {
	return i.format
}

func (i *Image) Bounds() image.Rectangle {
	return i.pixels.Bounds()
}

// RGBA exposes the normalized pixels. Every pixel has alpha 0xff.
func (i *Image) RGBA() *image.RGBA {
	return i.pixels
}

// Resize returns a copy whose longest side is at most maxDim, keeping the
// aspect ratio. The receiver is returned when no resize is needed.
func (i *Image) Resize(maxDim int) *Image {
	b := i.pixels.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return i
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), i.pixels, b, draw.Src, nil)
	return &Image{pixels: dst, format: i.format}
}

// JPEG encodes the pixels for transport to a caption backend.
func (i *Image) JPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, i.pixels, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 is the transport JPEG as standard base64.
func (i *Image) Base64() (string, error) {
	data, err := i.JPEG()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURI renders the image for inline preview in an <img> tag.
func (i *Image) DataURI() (string, error) {
	b64, err := i.Base64()
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + b64, nil
}

func detectFormat(data []byte) (image.Config, ImageFormat, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrUnsupportedImageFormat, err)
	}

	switch format {
	case "jpeg":
		return cfg, JPEG, nil
	case "png":
		return cfg, PNG, nil
	default:
		return image.Config{}, "", fmt.Errorf("%w: %s", ErrUnsupportedImageFormat, format)
	}
}

type opaquer interface {
	Opaque() bool
}

// toRGB copies src into a zero-origin RGBA buffer with every alpha forced to
// 0xff. Color channels are taken unpremultiplied.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	if o, ok := src.(opaquer); ok && o.Opaque() {
		dst := image.NewRGBA(rect)
		draw.Draw(dst, rect, src, b.Min, draw.Src)
		return dst
	}

	var pix []uint8
	stride := rect.Dx() * 4
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		pix = append([]uint8(nil), n.Pix...)
		stride = n.Stride
	} else {
		n := image.NewNRGBA(rect)
		draw.Draw(n, rect, src, b.Min, draw.Src)
		pix = n.Pix
	}

	dst := &image.RGBA{Pix: pix, Stride: stride, Rect: rect}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
