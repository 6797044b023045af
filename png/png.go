// Package png decodes PNG datastreams (RFC 2083 / ISO 15948) into a
// normalized, contiguous RGB or RGBA pixel buffer. It covers chunked
// container parsing with CRC validation, IDAT concatenation and DEFLATE
// decompression, per-scanline filter reversal, Adam7 deinterlacing, and
// sample normalization (bit-depth expansion, palette expansion, 16-bit
// downsampling). Encoding, APNG, and ancillary metadata beyond gamma and
// palette are out of scope.
package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/kaelbrook/pngdecode/internal/chunk"
	"github.com/kaelbrook/pngdecode/internal/perr"
)

// Decoder decodes PNG datastreams. The zero value is ready to use.
// Logger, if set, receives per-stage debug traces and the non-fatal
// warnings spec §7 calls out (a nonzero-length IEND, a gAMA chunk with
// no visible effect); it defaults to slog.Default() when nil.
type Decoder struct {
	Logger *slog.Logger
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Decode reads a complete PNG datastream from r using a default Decoder.
func Decode(r io.Reader) (*Image, error) {
	return (&Decoder{}).Decode(r)
}

// Decode reads a complete PNG datastream from r and returns the decoded,
// normalized image, or a *DecodeError describing why it was rejected.
// All transient buffers (the concatenated IDAT blob, the filtered
// scanline buffer, the per-pixel channel-sample buffer) are released
// before Decode returns, on every path.
func (d *Decoder) Decode(r io.Reader) (*Image, error) {
	log := d.logger()

	cr := chunk.NewReader(r)
	if err := cr.CheckSignature(); err != nil {
		return nil, err
	}

	var (
		hdr         header
		havePalette bool
		haveGamma   bool
		palette     []rgbTriple
		gamma       uint32
		idat        bytes.Buffer
		idatStarted bool
		idatEnded   bool
		sawIHDR     bool
		sawIEND     bool
		first       = true
	)

	for !sawIEND {
		c, err := cr.Next()
		if err != nil {
			return nil, err
		}

		if first {
			if c.Type != chunk.IHDR {
				return nil, perr.New(perr.InvalidIhdr, "first chunk is not IHDR")
			}
			first = false
		}

		if c.Type == chunk.IDAT {
			if idatEnded {
				return nil, perr.New(perr.NonContiguousIdat, "IDAT chunk follows a non-IDAT gap")
			}
			idatStarted = true
		} else if idatStarted {
			idatEnded = true
		}

		switch c.Type {
		case chunk.IHDR:
			if sawIHDR {
				return nil, perr.New(perr.MisorderedChunk, "duplicate IHDR")
			}
			hdr, err = parseIHDR(c.Data)
			if err != nil {
				return nil, err
			}
			sawIHDR = true
			log.Debug("parsed IHDR",
				"width", hdr.width, "height", hdr.height,
				"bitDepth", hdr.bitDepth, "colorType", hdr.colorType,
				"interlace", hdr.interlace)

		case chunk.PLTE:
			if idatStarted {
				return nil, perr.New(perr.MisorderedChunk, "PLTE after IDAT has started")
			}
			if havePalette {
				return nil, perr.New(perr.MisorderedChunk, "duplicate PLTE")
			}
			if hdr.format == fmtGray || hdr.format == fmtGrayAlpha {
				return nil, perr.New(perr.MisorderedChunk, "PLTE forbidden for grayscale color types")
			}
			palette, err = parsePalette(c.Data, hdr.bitDepth)
			if err != nil {
				return nil, err
			}
			havePalette = true
			log.Debug("parsed PLTE", "entries", len(palette))

		case chunk.GAMA:
			if haveGamma {
				return nil, perr.New(perr.MisorderedChunk, "duplicate gAMA")
			}
			if havePalette || idatStarted {
				return nil, perr.New(perr.MisorderedChunk, "gAMA must precede PLTE and IDAT")
			}
			if len(c.Data) < 4 {
				log.Warn("gAMA chunk shorter than 4 bytes, ignoring")
				break
			}
			gamma = binary.BigEndian.Uint32(c.Data[:4])
			haveGamma = true
			if gamma == 45455 || hdr.format == fmtPalette {
				log.Warn("gAMA chunk has no visible effect", "gamma", gamma)
			}

		case chunk.IDAT:
			idat.Write(c.Data)

		case chunk.IEND:
			if len(c.Data) != 0 {
				log.Warn("IEND chunk has nonzero length, accepting anyway")
			}
			if hdr.format == fmtPalette && !havePalette {
				return nil, perr.New(perr.MissingPalette, "color type 3 requires a PLTE chunk")
			}
			sawIEND = true

		default:
			if !c.Type.IsAncillary() {
				return nil, perr.New(perr.UnknownCriticalChunk, c.Type.String()+": unrecognized critical chunk")
			}
			log.Debug("skipping ancillary chunk", "type", c.Type.String())
		}
	}

	pixels, err := decodeImageData(&idat, hdr, palette, log)
	if err != nil {
		return nil, err
	}

	format := FormatRGB
	if hdr.format.hasAlpha() {
		format = FormatRGBA
	}
	channels := 3
	if format == FormatRGBA {
		channels = 4
	}

	return &Image{
		Width:       hdr.width,
		Height:      hdr.height,
		Format:      format,
		BytesPerRow: int(hdr.width) * channels,
		Pixels:      pixels,
		HasGamma:    haveGamma,
		Gamma:       gamma,
	}, nil
}

// decodeImageData turns the concatenated IDAT payload into the final
// per-pixel RGB/RGBA buffer: decompress, unfilter (directly or per Adam7
// pass), expand samples to 8 bits, then apply palette/grayscale
// expansion. idat is fully drained and the filtered and channel-sample
// intermediates are discarded once this returns.
func decodeImageData(idat *bytes.Buffer, hdr header, palette []rgbTriple, log *slog.Logger) ([]byte, error) {
	spp := hdr.format.samplesPerPixel()

	zr, err := zlib.NewReader(idat)
	if err != nil {
		return nil, perr.Wrap(perr.DecompressError, "opening zlib stream", err)
	}
	defer zr.Close()

	var expected int64
	if hdr.interlace == 1 {
		expected = expectedInterlacedSize(hdr.width, hdr.height, spp, hdr.bitDepth)
	} else {
		expected = int64(hdr.height) * int64(rowLen(hdr.width, spp, hdr.bitDepth)+1)
	}

	filtered := make([]byte, expected)
	if _, err := io.ReadFull(zr, filtered); err != nil {
		return nil, perr.Wrap(perr.SizeMismatch, "decompressed image data shorter than expected", err)
	}
	var probe [1]byte
	if n, err := zr.Read(probe[:]); n > 0 || (err != nil && err != io.EOF) {
		return nil, perr.New(perr.SizeMismatch, "decompressed image data longer than expected")
	}

	var samples []byte
	if hdr.interlace == 1 {
		samples, err = deinterlace(filtered, hdr.width, hdr.height, hdr.format, hdr.bitDepth)
		if err != nil {
			return nil, err
		}
	} else {
		rl := rowLen(hdr.width, spp, hdr.bitDepth)
		distance := filterDistance(spp, hdr.bitDepth)
		raw, err := unfilter(filtered, int(hdr.height), rl, distance)
		if err != nil {
			return nil, err
		}
		samples = make([]byte, int(hdr.width)*int(hdr.height)*spp)
		rowSamples := int(hdr.width) * spp
		for y := 0; y < int(hdr.height); y++ {
			row := raw[y*rl : (y+1)*rl]
			copy(samples[y*rowSamples:], expandRow(row, hdr.width, hdr.format, hdr.bitDepth))
		}
	}

	log.Debug("unfiltered image data", "sampleBytes", len(samples))

	return toPixels(samples, hdr.width, hdr.height, hdr.format, palette)
}
