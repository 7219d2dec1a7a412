package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lens-to-language/internal/core/domain"
)

const imageField = "image"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// limitBody must run before the multipart form is parsed.
func (h *Handler) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

// readUpload pulls the image form file and decodes it.
func (h *Handler) readUpload(c *gin.Context) (*domain.Image, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if isTooLarge(err) {
			return nil, domain.ErrImageTooLarge
		}
		return nil, domain.ErrMissingImage
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: file extension %q", domain.ErrUnsupportedImageFormat, ext)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return domain.DecodeImage(data, h.maxPixels)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
