package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// maxImageEdge bounds uploaded reward/logo images; phones send multi-MB
// photos and the cards only render small.
const maxImageEdge = 800

const webpQuality = 85

// ProcessImage decodes, downsizes and re-encodes an uploaded image as webp.
func ProcessImage(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	src = shrink(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func shrink(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxImageEdge && h <= maxImageEdge {
		return src
	}

	if w >= h {
		h = h * maxImageEdge / w
		w = maxImageEdge
	} else {
		w = w * maxImageEdge / h
		h = maxImageEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
