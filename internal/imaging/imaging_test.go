package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestImage produces an encoded image of the given dimensions.
func encodeTestImage(t *testing.T, w, h int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	return png.Encode(buf, img)
}

func encodeJPEG(buf *bytes.Buffer, img image.Image) error {
	return jpeg.Encode(buf, img, nil)
}

func TestProcessAvatarDownscalesLargeImage(t *testing.T) {
	data := encodeTestImage(t, 1200, 800, encodePNG)

	out, err := ProcessAvatar(data)
	if err != nil {
		t.Fatalf("ProcessAvatar: %v", err)
	}
	if out.Width != AvatarSize || out.Height != AvatarSize {
		t.Errorf("dimensions = %dx%d, want %dx%d", out.Width, out.Height, AvatarSize, AvatarSize)
	}
	if out.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", out.ContentType)
	}

	decoded, _, err := image.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != AvatarSize || b.Dy() != AvatarSize {
		t.Errorf("decoded dimensions = %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessAvatarDoesNotUpscale(t *testing.T) {
	data := encodeTestImage(t, 200, 300, encodeJPEG)

	out, err := ProcessAvatar(data)
	if err != nil {
		t.Fatalf("ProcessAvatar: %v", err)
	}
	// Cropped to the 200px square, not upscaled to 512.
	if out.Width != 200 || out.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 200x200", out.Width, out.Height)
	}
}

func TestProcessAvatarRejectsGarbage(t *testing.T) {
	if _, err := ProcessAvatar([]byte("not an image at all")); err == nil {
		t.Error("expected an error for non-image input")
	}
}

func TestCenterCropIsSquare(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 400, 100))
	cropped := centerCrop(wide)
	if b := cropped.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("crop of wide image = %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	cropped = centerCrop(tall)
	if b := cropped.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("crop of tall image = %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	square := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if centerCrop(square) != square {
		t.Error("square input should be returned as-is")
	}
}
