package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image encoding supported for render output
type Format int

const (
	// Auto picks the format from the output file extension
	Auto Format = iota
	PNG
	BMP
	TIFF
)

// ParseFormat returns the Format named by s, which may be a bare name or a
// file extension with or without the leading dot
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	switch s {
	case "", "auto":
		return Auto, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return Auto, fmt.Errorf("unsupported image format %q", s)
}

// FormatFromPath returns the Format for the extension of path
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return Auto, fmt.Errorf("output %q has no extension, cannot pick a format", path)
	}
	return ParseFormat(ext)
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "auto"
	}
}

// ContentType returns the MIME type of the encoding
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("cannot encode format %v", format)
	}
}
