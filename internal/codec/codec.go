// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codec decodes source images and encodes them as PNG or JPEG.
// Decoding sniffs file contents rather than trusting the extension; WebP
// support comes from the registered golang.org/x/image decoder.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/paindog/webpconv/pkg/types"
)

// Options control how an image is encoded.
type Options struct {
	// Format selects the output encoding.
	Format types.TargetFormat

	// PreserveTransparency keeps the alpha channel in PNG output. JPEG
	// output is always flattened regardless of this setting.
	PreserveTransparency bool

	// JPEGQuality is the JPEG encoder quality (1-100).
	JPEGQuality int
}

// Codec decodes source files and encodes images in a target format. The
// engine depends on this interface so tests can substitute fakes.
type Codec interface {
	// Decode reads and decodes the image file at path.
	Decode(path string) (image.Image, error)

	// Encode writes img to w according to opts.
	Encode(w io.Writer, img image.Image, opts Options) error
}

// Imaging is the production Codec, backed by the imaging library and the
// image decoders registered at init time.
type Imaging struct{}

// Decode reads and decodes the image file at path. When the contents are
// not a recognized image format, the returned error satisfies
// IsUnrecognized.
func (Imaging) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Encode writes img to w in the requested format. JPEG output, and PNG
// output without transparency preservation, is flattened onto an opaque
// white background first.
func (Imaging) Encode(w io.Writer, img image.Image, opts Options) error {
	switch opts.Format {
	case types.FormatJPEG:
		q := opts.JPEGQuality
		if q <= 0 {
			q = types.DefaultJPEGQuality
		}
		return imaging.Encode(w, Flatten(img), imaging.JPEG, imaging.JPEGQuality(q))
	case types.FormatPNG:
		if !opts.PreserveTransparency {
			return imaging.Encode(w, Flatten(img), imaging.PNG)
		}
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return fmt.Errorf("unsupported target format %q", opts.Format)
	}
}

// Flatten composites img onto an opaque white background, discarding any
// alpha channel.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// IsUnrecognized reports whether err means the decoded bytes are not a known
// image format, as opposed to a recognized but corrupt image.
func IsUnrecognized(err error) bool {
	return errors.Is(err, image.ErrFormat)
}
