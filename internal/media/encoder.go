package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Rendition widths per size class. Heights follow the aspect ratio.
var renditionWidths = map[string]int{
	"s": 320,
	"m": 720,
	"l": 1440,
}

// Encoder turns an uploaded source image into the derived renditions.
type Encoder interface {
	EncodeRenditions(data []byte) (map[string][]byte, error)
}

// WebpEncoder decodes the source and produces the three webp renditions.
type WebpEncoder struct {
	Quality float32
}

func NewWebpEncoder() *WebpEncoder {
	return &WebpEncoder{Quality: 90}
}

func (e *WebpEncoder) EncodeRenditions(data []byte) (map[string][]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	out := make(map[string][]byte, len(renditionWidths))
	for size, width := range renditionWidths {
		resized := src
		if src.Bounds().Dx() > width {
			resized = imaging.Resize(src, width, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := webp.Encode(&buf, resized, &webp.Options{Quality: e.Quality}); err != nil {
			return nil, fmt.Errorf("encode %s rendition: %w", size, err)
		}
		out[size] = buf.Bytes()
	}
	return out, nil
}
