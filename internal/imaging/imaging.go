// Package imaging processes uploaded avatar images. Uploads in JPEG,
// PNG, GIF, or WebP format are decoded, center-cropped to a square,
// downscaled to the display size, and re-encoded as JPEG. Re-encoding
// also strips metadata and neutralizes any malformed input.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// AvatarSize is the edge length of processed avatars in pixels.
	AvatarSize = 512

	// jpegQuality balances file size against visible artifacts for
	// photographic avatars.
	jpegQuality = 85

	// MaxUploadBytes caps the accepted upload size (5 MB).
	MaxUploadBytes = 5 << 20
)

// ProcessedImage is a decoded, cropped, and re-encoded avatar ready for
// upload to object storage.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ProcessAvatar decodes an uploaded image, center-crops it to a square,
// scales it down to AvatarSize, and encodes it as JPEG. Images already
// smaller than AvatarSize keep their cropped dimensions; nothing is
// upscaled.
func ProcessAvatar(data []byte) (*ProcessedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	square := centerCrop(src)

	size := AvatarSize
	if edge := square.Bounds().Dx(); edge < size {
		size = edge
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), square, square.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       size,
		Height:      size,
	}, nil
}

// centerCrop returns the largest centered square region of the image.
func centerCrop(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	edge := w
	if h < edge {
		edge = h
	}
	x0 := b.Min.X + (w-edge)/2
	y0 := b.Min.Y + (h-edge)/2
	rect := image.Rect(x0, y0, x0+edge, y0+edge)

	cropped := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(cropped, cropped.Bounds(), src, rect.Min, draw.Src)
	return cropped
}
