package png

import (
	"encoding/binary"
	"fmt"

	"github.com/kaelbrook/pngdecode/internal/perr"
)

// header holds the fields of IHDR plus the PixelFormat they derive to.
type header struct {
	width, height uint32
	bitDepth      uint8
	colorType     uint8
	interlace     uint8
	format        colorFormat
}

// rgbTriple is one PLTE entry.
type rgbTriple struct{ r, g, b byte }

func parseIHDR(data []byte) (header, error) {
	if len(data) != 13 {
		return header{}, perr.New(perr.InvalidIhdr, "IHDR chunk must be 13 bytes")
	}

	width := binary.BigEndian.Uint32(data[0:4])
	height := binary.BigEndian.Uint32(data[4:8])
	bitDepth := data[8]
	colorType := data[9]
	compression := data[10]
	filterMethod := data[11]
	interlace := data[12]

	if width == 0 || height == 0 {
		return header{}, perr.New(perr.InvalidIhdr, "width and height must be nonzero")
	}
	if compression != 0 {
		return header{}, perr.New(perr.InvalidIhdr, "unsupported compression method")
	}
	if filterMethod != 0 {
		return header{}, perr.New(perr.InvalidIhdr, "unsupported filter method")
	}
	if interlace != 0 && interlace != 1 {
		return header{}, perr.New(perr.InvalidIhdr, "unsupported interlace method")
	}

	format, ok := pixelFormatFor(colorType, bitDepth)
	if !ok {
		return header{}, perr.New(perr.InvalidColorDepth,
			fmt.Sprintf("color type %d does not permit bit depth %d", colorType, bitDepth))
	}

	return header{
		width:     width,
		height:    height,
		bitDepth:  bitDepth,
		colorType: colorType,
		interlace: interlace,
		format:    format,
	}, nil
}

// allowedBitDepths is the legal (color_type, bit_depth) table of spec §4.2.
var allowedBitDepths = map[uint8][]uint8{
	0: {1, 2, 4, 8, 16},
	2: {8, 16},
	3: {1, 2, 4, 8},
	4: {8, 16},
	6: {8, 16},
}

func pixelFormatFor(colorType, bitDepth uint8) (colorFormat, bool) {
	depths, ok := allowedBitDepths[colorType]
	if !ok {
		return 0, false
	}
	allowed := false
	for _, d := range depths {
		if d == bitDepth {
			allowed = true
			break
		}
	}
	if !allowed {
		return 0, false
	}
	switch colorType {
	case 0:
		return fmtGray, true
	case 2:
		return fmtRGB, true
	case 3:
		return fmtPalette, true
	case 4:
		return fmtGrayAlpha, true
	case 6:
		return fmtRGBA, true
	}
	return 0, false
}

// parsePalette decodes a PLTE chunk's RGB triples. PNG allows up to 256
// entries; a length that isn't a positive multiple of 3, or more entries
// than bitDepth's index space can address, is rejected. (The wire format
// has no dedicated error kind for "not a multiple of 3"; it's treated as
// a palette-size violation, the closest fit in spec §7's table.)
func parsePalette(data []byte, bitDepth uint8) ([]rgbTriple, error) {
	if len(data) == 0 || len(data)%3 != 0 {
		return nil, perr.New(perr.PaletteTooLarge, "PLTE length is not a positive multiple of 3")
	}
	count := len(data) / 3
	if count > (1 << bitDepth) {
		return nil, perr.New(perr.PaletteTooLarge, "PLTE has more entries than the bit depth allows")
	}
	palette := make([]rgbTriple, count)
	for i := 0; i < count; i++ {
		palette[i] = rgbTriple{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return palette, nil
}
