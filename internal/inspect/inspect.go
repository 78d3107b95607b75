package inspect

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// ErrMismatch marks a deliverable that exists but does not look right.
var ErrMismatch = errors.New("deliverable mismatch")

// Dimensions is a raster's pixel size and detected format.
type Dimensions struct {
	Width  int
	Height int
	Format string
}

// ImageDimensions decodes only the header of the raster at path.
func ImageDimensions(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// PDFPageCount returns the number of pages in the PDF at path.
func PDFPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("read pdf %s: %w", path, err)
	}
	return count, nil
}

// VerifyRaster checks that the exported PNG has the expected width.
func VerifyRaster(path string, wantWidth int) (Dimensions, error) {
	dims, err := ImageDimensions(path)
	if err != nil {
		return Dimensions{}, err
	}
	if dims.Format != "png" {
		return dims, fmt.Errorf("%w: %s is %s, expected png", ErrMismatch, path, dims.Format)
	}
	if dims.Width != wantWidth {
		return dims, fmt.Errorf("%w: %s is %dpx wide, expected %dpx", ErrMismatch, path, dims.Width, wantWidth)
	}
	return dims, nil
}

// VerifyDocument checks that the exported PDF has at least one page.
func VerifyDocument(path string) (int, error) {
	pages, err := PDFPageCount(path)
	if err != nil {
		return 0, err
	}
	if pages < 1 {
		return pages, fmt.Errorf("%w: %s has no pages", ErrMismatch, path)
	}
	return pages, nil
}
