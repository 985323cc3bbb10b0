// Package imaging normalises uploaded pictures to WebP before they are
// stored. Anything that is not a decodable image passes through untouched.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path"
	"strings"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
)

const (
	webpQuality = 80
	maxPixels   = 40_000_000
)

type Result struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Normalize re-encodes images to WebP and renames the file accordingly.
func Normalize(fileName string, data []byte) (*Result, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return &Result{Data: data, ContentType: contentType, FileName: fileName}, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// an image type we cannot decode (svg, heic, ...) is stored as is
		return &Result{Data: data, ContentType: contentType, FileName: fileName}, nil
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, httperr.ErrValidation("image_too_large", "Image dimensions are too large.")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_image", "The image could not be decoded.")
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
		FileName:    strings.TrimSuffix(fileName, path.Ext(fileName)) + ".webp",
	}, nil
}
