package images

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/acmerocket/wikinator/diag"
	"github.com/acmerocket/wikinator/model"
)

// compress returns the bytes to embed for img. Images larger than
// MaxDimension on either side are halved; the result is re-encoded in the
// original format. The original bytes are kept whenever decoding or encoding
// fails, the format has no encoder, or re-encoding does not save space.
func (p *Processor) compress(img model.EmbeddedImage) []byte {
	src, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		p.warn.Warn(diag.ImageDecode, "image could not be decoded, embedding original",
			"image", img.Anchor(), "part", img.PartName, "contentType", img.ContentType, "error", err)
		return img.Data
	}

	bounds := src.Bounds()
	resized := src
	if bounds.Dx() > p.cfg.MaxDimension || bounds.Dy() > p.cfg.MaxDimension {
		resized = downsample(src)
	}

	out, err := p.encode(resized, format)
	if err != nil {
		p.warn.Warn(diag.ImageEncode, "image could not be re-encoded, embedding original",
			"image", img.Anchor(), "format", format, "error", err)
		return img.Data
	}
	if out == nil {
		p.warn.Note(diag.ImageEncode, "no encoder for format, embedding original",
			"image", img.Anchor(), "format", format)
		return img.Data
	}

	if len(out) >= len(img.Data) {
		out = img.Data
	}

	before, after := encodedLen(img.Data), encodedLen(out)
	p.logger.Info("image",
		"image", img.Anchor(),
		"before", humanize.Bytes(uint64(before)),
		"after", humanize.Bytes(uint64(after)),
		"ratio", sizeRatio(before, after),
		"dim", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
	)
	return out
}

// downsample halves both dimensions using Catmull-Rom resampling.
func downsample(src image.Image) image.Image {
	b := src.Bounds()
	w, h := max(b.Dx()/2, 1), max(b.Dy()/2, 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// encode writes img in format. It returns nil bytes and no error for formats
// that can be decoded but not encoded.
func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.cfg.JPEGQuality})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sniff reports the registered image format of data.
func sniff(data []byte) (string, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	return format, true
}
