package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"

	"github.com/kaelbrook/pngdecode/internal/chunk"
)

// writeChunk appends one length-tagged, CRC-protected chunk to buf. Tests
// compute the CRC with the standard library's hash/crc32 rather than
// going through internal/chunk, so a passing test is also an independent
// cross-check that the production CRC path (github.com/snksoft/crc) agrees
// with the textbook IEEE polynomial.
func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.WriteString(typ)
	buf.Write(data)

	h := crc32.NewIEEE()
	h.Write([]byte(typ))
	h.Write(data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], h.Sum32())
	buf.Write(crcBuf[:])
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// testPNG describes a minimal synthetic PNG for building test fixtures
// in-process, with no external test data files.
type testPNG struct {
	width, height       uint32
	bitDepth, colorType uint8
	interlace           uint8
	palette             []byte // raw PLTE payload, omitted if nil
	gamma               []byte // raw gAMA payload, omitted if nil
	filtered            []byte // pre-zlib filtered scanline bytes
	idatSplit           int    // at most this many IDAT chunks, each ceil(len/n) bytes; 0 means 1
}

func (t testPNG) build() []byte {
	var buf bytes.Buffer
	buf.Write(chunk.Signature[:])

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], t.width)
	binary.BigEndian.PutUint32(ihdr[4:8], t.height)
	ihdr[8] = t.bitDepth
	ihdr[9] = t.colorType
	ihdr[10] = 0
	ihdr[11] = 0
	ihdr[12] = t.interlace
	writeChunk(&buf, "IHDR", ihdr)

	if t.gamma != nil {
		writeChunk(&buf, "gAMA", t.gamma)
	}
	if t.palette != nil {
		writeChunk(&buf, "PLTE", t.palette)
	}

	compressed := zlibCompress(t.filtered)
	n := t.idatSplit
	if n <= 0 {
		n = 1
	}
	chunkSize := (len(compressed) + n - 1) / n
	if chunkSize == 0 {
		chunkSize = 1
	}
	for i := 0; i < len(compressed); i += chunkSize {
		end := i + chunkSize
		if end > len(compressed) {
			end = len(compressed)
		}
		writeChunk(&buf, "IDAT", compressed[i:end])
	}

	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}
