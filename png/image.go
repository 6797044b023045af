package png

import (
	"image"
	"image/color"
)

// PixelFormat is the normalized layout of Image.Pixels. Grayscale and
// palette sources are expanded away; only these two survive to the
// decoder's output, per spec §6.
type PixelFormat int

const (
	FormatRGB PixelFormat = iota
	FormatRGBA
)

func (f PixelFormat) String() string {
	if f == FormatRGBA {
		return "RGBA"
	}
	return "RGB"
}

// Image is the decoder's result: a header descriptor plus a contiguous,
// row-major, top-to-bottom pixel buffer with non-premultiplied alpha and
// 8 bits per channel.
type Image struct {
	Width, Height uint32
	Format        PixelFormat
	BytesPerRow   int
	Pixels        []byte

	// HasGamma and Gamma surface the file's gAMA chunk, if any, so a
	// consumer can decide whether to call ApplySRGB. Gamma is the raw
	// stored value (gamma * 100000); the sRGB-equivalent value is 45455.
	HasGamma bool
	Gamma    uint32
}

func (img *Image) channels() int {
	if img.Format == FormatRGBA {
		return 4
	}
	return 3
}

// AsImage adapts the decoded buffer to the standard image.Image
// interface, for callers that want to hand the result to image/draw or
// another image/* consumer instead of reading Pixels directly.
func (img *Image) AsImage() image.Image {
	return &rasterImage{img: img}
}

// rasterImage is a thin image.Image view over Image.Pixels. The standard
// library's image.RGBA and image.NRGBA always store 4 bytes per pixel,
// which would force RGB images through a wasteful conversion; this type
// reads directly out of the tight 3- or 4-byte-per-pixel buffer instead.
type rasterImage struct {
	img *Image
}

func (r *rasterImage) ColorModel() color.Model { return color.NRGBAModel }

func (r *rasterImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(r.img.Width), int(r.img.Height))
}

func (r *rasterImage) At(x, y int) color.Color {
	ch := r.img.channels()
	off := y*r.img.BytesPerRow + x*ch
	p := r.img.Pixels[off : off+ch]
	if ch == 4 {
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xFF}
}
