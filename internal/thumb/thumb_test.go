package thumb

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}
	return buf.Bytes()
}

func decodeThumb(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("thumbnail format = %s; want jpeg", format)
	}
	return img
}

func TestMakeScalesDownLandscape(t *testing.T) {
	src := encodeJPEG(t, createTestImage(800, 400, color.White))

	out, err := Make(src, 200)
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}

	thumb := decodeThumb(t, out)
	bounds := thumb.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Errorf("thumbnail = %dx%d; want 200x100", bounds.Dx(), bounds.Dy())
	}
}

func TestMakeScalesDownPortrait(t *testing.T) {
	src := encodeJPEG(t, createTestImage(300, 600, color.White))

	out, err := Make(src, 200)
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}

	thumb := decodeThumb(t, out)
	bounds := thumb.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 200 {
		t.Errorf("thumbnail = %dx%d; want 100x200", bounds.Dx(), bounds.Dy())
	}
}

func TestMakeKeepsSmallImages(t *testing.T) {
	src := encodeJPEG(t, createTestImage(120, 80, color.White))

	out, err := Make(src, 200)
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}

	thumb := decodeThumb(t, out)
	bounds := thumb.Bounds()
	if bounds.Dx() != 120 || bounds.Dy() != 80 {
		t.Errorf("small image should not be upscaled, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestMakeConvertsPNGToJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(400, 400, color.RGBA{10, 200, 30, 255})); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}

	out, err := Make(buf.Bytes(), 200)
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}

	decodeThumb(t, out)
}

func TestMakeInvalidImage(t *testing.T) {
	_, err := Make([]byte("definitely not an image"), 200)
	if err == nil {
		t.Error("Make should fail for undecodable data")
	}
}
