package asset

import (
	"bytes"
	"fmt"
	"image"
)

// Decoded images are bounded by side and by pixel count. The header is
// checked before any pixel buffer is allocated.
const (
	MaxSide   = 8192
	MaxPixels = 8192 * 4096
)

// decode reads the image header, rejects oversized images and then decodes
// the bitmap. It returns the sniffed format name.
func decode(data []byte) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > MaxSide || cfg.Height > MaxSide ||
		cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
