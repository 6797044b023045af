package png

import (
	"math"

	"github.com/kaelbrook/pngdecode/internal/perr"
)

// expandRow converts one native-bit-depth raw scanline (rowLen(width, ...)
// bytes) into one byte per channel sample: width*samplesPerPixel bytes.
//
// At bit depth 16, each two-byte sample collapses to one byte by
// `sample / 257` (spec §4.5 step 1). At bit depths below 8, each packed
// byte unpacks MSB-first into 8/bitDepth samples (spec §4.5 step 2); for
// every format except PALETTE the unpacked value is then bit-replicated
// to fill a byte, since it is a gray intensity, not an index.
func expandRow(raw []byte, width uint32, format colorFormat, bitDepth uint8) []byte {
	spp := format.samplesPerPixel()
	out := make([]byte, int(width)*spp)

	switch {
	case bitDepth == 16:
		for i := range out {
			hi, lo := raw[2*i], raw[2*i+1]
			sample := (uint16(hi) << 8) | uint16(lo)
			out[i] = byte(sample / 257)
		}

	case bitDepth == 8:
		copy(out, raw)

	default: // 1, 2, 4 -- only GRAY and PALETTE ever reach here
		perByte := 8 / int(bitDepth)
		mask := byte(1<<bitDepth) - 1
		for i := range out {
			byteIdx := i / perByte
			shift := uint(8) - bitDepth*uint8(i%perByte+1)
			v := (raw[byteIdx] >> shift) & mask
			if format == fmtPalette {
				out[i] = v
			} else {
				out[i] = replicateBits(v, bitDepth)
			}
		}
	}
	return out
}

// replicateBits expands a sub-byte gray sample to fill a full byte, e.g.
// a 4-bit value v becomes (v<<4)|v.
func replicateBits(v, bitDepth uint8) byte {
	switch bitDepth {
	case 1:
		if v != 0 {
			return 0xFF
		}
		return 0x00
	case 2:
		return v * 0x55
	case 4:
		return (v << 4) | v
	}
	return v
}

// toPixels turns channel-sample data (width*height*samplesPerPixel bytes,
// as produced by expandRow or scattered by deinterlace) into the final
// RGB or RGBA output buffer, applying palette lookup or grayscale
// expansion per spec §4.5 steps 3-4.
func toPixels(samples []byte, width, height uint32, format colorFormat, palette []rgbTriple) ([]byte, error) {
	spp := format.samplesPerPixel()
	outCh := 3
	if format.hasAlpha() {
		outCh = 4
	}

	n := int(width) * int(height)
	out := make([]byte, n*outCh)

	for i := 0; i < n; i++ {
		s := samples[i*spp : i*spp+spp]
		o := out[i*outCh : i*outCh+outCh]

		switch format {
		case fmtPalette:
			idx := int(s[0])
			if idx >= len(palette) {
				return nil, perr.New(perr.PaletteIndexOutOfRange, "palette index out of range")
			}
			o[0], o[1], o[2] = palette[idx].r, palette[idx].g, palette[idx].b
		case fmtGray:
			o[0], o[1], o[2] = s[0], s[0], s[0]
		case fmtGrayAlpha:
			o[0], o[1], o[2], o[3] = s[0], s[0], s[0], s[1]
		case fmtRGB:
			o[0], o[1], o[2] = s[0], s[1], s[2]
		case fmtRGBA:
			o[0], o[1], o[2], o[3] = s[0], s[1], s[2], s[3]
		}
	}
	return out, nil
}

// ApplySRGB re-encodes each color channel of img (alpha excluded) from a
// linear sample to the sRGB transfer curve, per spec §4.5 step 5. This is
// a display-time policy, not something Decode applies on its own — call
// it only when img.HasGamma is true and img.Gamma is not the sRGB-
// equivalent 45455, and only for non-palette images (a palette's RGB
// values are the literal display colors, not samples to re-encode).
func ApplySRGB(img *Image) {
	outCh := 3
	if img.Format == FormatRGBA {
		outCh = 4
	}
	for i := 0; i+outCh <= len(img.Pixels); i += outCh {
		img.Pixels[i] = srgbEncode(img.Pixels[i])
		img.Pixels[i+1] = srgbEncode(img.Pixels[i+1])
		img.Pixels[i+2] = srgbEncode(img.Pixels[i+2])
	}
}

func srgbEncode(v byte) byte {
	linear := float64(v) / 255
	var encoded float64
	if linear <= 0.0031308 {
		encoded = 12.92 * linear
	} else {
		encoded = 1.055*math.Pow(linear, 1/2.4) - 0.055
	}
	r := math.Round(encoded * 255)
	switch {
	case r < 0:
		r = 0
	case r > 255:
		r = 255
	}
	return byte(r)
}
