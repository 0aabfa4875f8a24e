// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/paindog/webpconv/pkg/types"
)

// losslessWebP is a minimal 2x1 lossless (VP8L) WebP image: the left pixel
// is fully transparent red, the right pixel opaque red. Every channel uses a
// simple Huffman code, so the whole file is 30 bytes.
var losslessWebP = []byte{
	'R', 'I', 'F', 'F', 22, 0, 0, 0, 'W', 'E', 'B', 'P',
	'V', 'P', '8', 'L', 10, 0, 0, 0,
	0x2f, 0x01, 0x00, 0x00, 0x10, 0x88, 0xfe, 0xc7, 0xfc, 0x87,
}

// testImage returns a 4x4 image whose left half is fully transparent red and
// whose right half is opaque red.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			a := uint8(255)
			if x < 2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: a})
		}
	}
	return img
}

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImagingDecode(t *testing.T) {
	path := writeTempImage(t, "sample.webp")

	img, err := Imaging{}.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got.Dx() != 4 || got.Dy() != 4 {
		t.Errorf("bounds = %v, want 4x4", got)
	}
}

func TestImagingDecode_WebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.webp")
	if err := os.WriteFile(path, losslessWebP, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Imaging{}.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got.Dx() != 2 || got.Dy() != 1 {
		t.Fatalf("bounds = %v, want 2x1", got)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("left pixel alpha = %d, want 0", a)
	}
	r, _, _, a := img.At(1, 0).RGBA()
	if a != 0xffff || r != 0xffff {
		t.Errorf("right pixel = r %d, a %d; want opaque red", r, a)
	}
}

func TestWebPEncode_Targets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.webp")
	if err := os.WriteFile(path, losslessWebP, 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := Imaging{}.Decode(path)
	if err != nil {
		t.Fatal(err)
	}

	var asPNG bytes.Buffer
	opts := Options{Format: types.FormatPNG, PreserveTransparency: true}
	if err := (Imaging{}).Encode(&asPNG, img, opts); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&asPNG)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := decoded.At(0, 0).RGBA(); a != 0 {
		t.Errorf("PNG left pixel alpha = %d, want 0", a)
	}
	if r, _, _, a := decoded.At(1, 0).RGBA(); a != 0xffff || r != 0xffff {
		t.Errorf("PNG right pixel = r %d, a %d; want opaque red", r, a)
	}

	var asJPEG bytes.Buffer
	opts = Options{Format: types.FormatJPEG}
	if err := (Imaging{}).Encode(&asJPEG, img, opts); err != nil {
		t.Fatal(err)
	}
	flat, _, err := image.Decode(&asJPEG)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 2; x++ {
		if _, _, _, a := flat.At(x, 0).RGBA(); a != 0xffff {
			t.Errorf("JPEG pixel %d alpha = %d, want opaque", x, a)
		}
	}
}

func TestImagingDecode_Errors(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "text.webp")
	if err := os.WriteFile(textPath, []byte("definitely not pixels"), 0o644); err != nil {
		t.Fatal(err)
	}
	corruptPath := filepath.Join(dir, "corrupt.webp")
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), []byte("truncated junk")...)
	if err := os.WriteFile(corruptPath, corrupt, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Imaging{}.Decode(textPath)
	if err == nil {
		t.Fatal("decoding text should fail")
	}
	if !IsUnrecognized(err) {
		t.Errorf("text file should be unrecognized, got %v", err)
	}

	_, err = Imaging{}.Decode(corruptPath)
	if err == nil {
		t.Fatal("decoding corrupt image should fail")
	}
	if IsUnrecognized(err) {
		t.Errorf("corrupt image of a known format should not count as unrecognized, got %v", err)
	}

	_, err = Imaging{}.Decode(filepath.Join(dir, "missing.webp"))
	if err == nil {
		t.Fatal("decoding a missing file should fail")
	}
	if IsUnrecognized(err) {
		t.Error("a missing file is not an unrecognized format")
	}
}

func TestEncode_PNGPreservesAlpha(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Format: types.FormatPNG, PreserveTransparency: true}
	if err := (Imaging{}).Encode(&buf, testImage(), opts); err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, a := decoded.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("transparent pixel alpha = %d, want 0", a)
	}
	_, _, _, a = decoded.At(3, 0).RGBA()
	if a != 0xffff {
		t.Errorf("opaque pixel alpha = %d, want 65535", a)
	}
}

func TestEncode_PNGFlattensWithoutPreserve(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Format: types.FormatPNG, PreserveTransparency: false}
	if err := (Imaging{}).Encode(&buf, testImage(), opts); err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := decoded.At(0, 0).RGBA()
	if a != 0xffff {
		t.Errorf("flattened pixel alpha = %d, want 65535", a)
	}
	// The transparent half lands on the white background.
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("flattened transparent pixel = (%d, %d, %d), want white", r, g, b)
	}
}

func TestEncode_JPEGIsOpaque(t *testing.T) {
	var buf bytes.Buffer
	// PreserveTransparency must be ignored for JPEG.
	opts := Options{Format: types.FormatJPEG, PreserveTransparency: true, JPEGQuality: 95}
	if err := (Imaging{}).Encode(&buf, testImage(), opts); err != nil {
		t.Fatal(err)
	}

	decoded, _, err := image.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	bounds := decoded.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := decoded.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("pixel (%d,%d) alpha = %d, want opaque", x, y, a)
			}
		}
	}
	// JPEG is lossy; the transparent half should still be near white.
	r, g, b, _ := decoded.At(0, 0).RGBA()
	for name, v := range map[string]uint32{"r": r, "g": g, "b": b} {
		if v < 0xe000 {
			t.Errorf("background channel %s = %d, want near white", name, v)
		}
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := (Imaging{}).Encode(&buf, testImage(), Options{Format: "bmp"})
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(testImage())

	if got := flat.Bounds(); got.Dx() != 4 || got.Dy() != 4 {
		t.Fatalf("bounds = %v, want 4x4", got)
	}
	if c := flat.NRGBAAt(0, 0); c.A != 255 || c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("transparent pixel flattened to %+v, want opaque white", c)
	}
	if c := flat.NRGBAAt(3, 0); c.A != 255 || c.R != 255 || c.G != 0 {
		t.Errorf("opaque pixel flattened to %+v, want opaque red", c)
	}
}
