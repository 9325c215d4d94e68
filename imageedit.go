package inanna

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/webp"
)

// jpegQuality matches the editor's save quality for lossy formats.
const jpegQuality = 90

// ImageCodec decodes and encodes one raster format. Codecs replace the
// original per-format closure tables with an explicit strategy map.
type ImageCodec struct {
	Decode func(r io.Reader) (image.Image, error)
	Encode func(w io.Writer, img image.Image) error

	// SaveExt is the extension of encoded output. It differs from the
	// source extension only for webp, which Go can decode but not encode;
	// edited webp images are saved as PNG.
	SaveExt string
}

var imageCodecs = map[string]ImageCodec{
	"jpg":  {Decode: jpeg.Decode, Encode: encodeJPEG, SaveExt: "jpg"},
	"jpeg": {Decode: jpeg.Decode, Encode: encodeJPEG, SaveExt: "jpeg"},
	"png":  {Decode: png.Decode, Encode: encodePNG, SaveExt: "png"},
	"gif":  {Decode: gif.Decode, Encode: encodeGIF, SaveExt: "gif"},
	"webp": {Decode: webp.Decode, Encode: encodePNG, SaveExt: "png"},
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}

func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

// CodecForExtension returns the codec for a file extension (with or
// without the leading dot).
func CodecForExtension(ext string) (ImageCodec, error) {
	codec, ok := imageCodecs[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return ImageCodec{}, fmt.Errorf("%w: %q", ErrUnknownImageFormat, ext)
	}
	return codec, nil
}

// EditableImageExtensions lists the extensions the editor accepts.
func EditableImageExtensions() []string {
	return []string{"jpg", "jpeg", "png", "gif", "webp"}
}

// EditImage applies the resource editor's transform: brightness, then
// contrast, then crop. The order is fixed; contrast operates on the
// already-brightened pixel values, so swapping the steps changes the
// result. Crop coordinates are clamped to the image bounds; a crop that
// degenerates entirely falls back to the filtered, uncropped image.
func EditImage(img image.Image, crop CropSelection, brightness, contrast int) image.Image {
	filtered := adjustImage(img, brightness, contrast)

	bounds := filtered.Bounds()
	crop = crop.Clamp(bounds.Dx(), bounds.Dy())
	if crop.Width < 1 || crop.Height < 1 {
		return filtered
	}

	rect := image.Rect(
		bounds.Min.X+crop.X,
		bounds.Min.Y+crop.Y,
		bounds.Min.X+crop.X+crop.Width,
		bounds.Min.Y+crop.Y+crop.Height,
	)
	return filtered.SubImage(rect)
}

// EditImageBytes decodes, transforms, and re-encodes an image using the
// codec for its extension. It returns the encoded bytes and the extension
// of the output format.
func EditImageBytes(data []byte, ext string, crop CropSelection, brightness, contrast int) ([]byte, string, error) {
	codec, err := CodecForExtension(ext)
	if err != nil {
		return nil, "", err
	}

	img, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	edited := EditImage(img, crop, brightness, contrast)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, edited); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageEncode, err)
	}
	return buf.Bytes(), codec.SaveExt, nil
}

// adjustImage applies brightness then contrast to a copy of img.
// Brightness is an additive shift of value*255/100 per channel; contrast
// scales around the 127 midpoint by (100+value)/100. Both values are
// clamped to [-100, 100].
func adjustImage(img image.Image, brightness, contrast int) *image.NRGBA {
	brightness = clampInt(brightness, -100, 100)
	contrast = clampInt(contrast, -100, 100)

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	shift := math.Round(float64(brightness) * 2.55)
	factor := float64(100+contrast) / 100

	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = adjustChannel(out.Pix[i], shift, factor)
		out.Pix[i+1] = adjustChannel(out.Pix[i+1], shift, factor)
		out.Pix[i+2] = adjustChannel(out.Pix[i+2], shift, factor)
		// Alpha passes through.
	}
	return out
}

func adjustChannel(v uint8, shift, factor float64) uint8 {
	f := float64(v) + shift
	f = (f-127)*factor + 127
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(math.Round(f))
}
