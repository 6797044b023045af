// Package chunk implements the PNG container format: the signature
// check and the length-tagged, CRC-protected chunk stream described in
// RFC 2083 section 5. It knows nothing about IHDR/IDAT semantics; that
// dispatch lives in the png package, which pulls chunks from Reader one
// at a time and decides what to do with each.
package chunk

import (
	"encoding/binary"
	"io"

	"github.com/snksoft/crc"

	"github.com/kaelbrook/pngdecode/internal/perr"
)

// Signature is the 8-byte magic every PNG datastream must begin with.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// maxLength is the largest chunk length PNG permits (2^31 - 1), chosen
// so implementations using a signed 32-bit length never overflow.
const maxLength = 1<<31 - 1

// Chunk is one parsed, CRC-verified unit of the chunk stream. By the
// time Reader.Next returns a Chunk, its CRC has already been checked;
// callers never see a chunk with a bad checksum.
type Chunk struct {
	Type Type
	Data []byte
}

// Reader pulls chunks off an underlying byte stream in file order. It
// holds no decode-state of its own (no idatStarted/idatEnded flags);
// that bookkeeping belongs to the caller, once per decode call, per the
// concurrency note in the decoder's design notes.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for chunk-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// CheckSignature reads and validates the 8-byte PNG magic. It must be
// called exactly once, before the first call to Next.
func (rd *Reader) CheckSignature() error {
	var buf [8]byte
	if _, err := io.ReadFull(rd.r, buf[:]); err != nil {
		return perr.Wrap(perr.TruncatedInput, "reading png signature", err)
	}
	if buf != Signature {
		return perr.New(perr.BadSignature, "first 8 bytes are not the png signature")
	}
	return nil
}

// Next reads the next chunk: length, type, payload and CRC. The CRC is
// computed over type+payload using the standard PNG CRC-32/IEEE
// parameters and compared against the stored value before the chunk is
// returned to the caller.
func (rd *Reader) Next() (Chunk, error) {
	var head [8]byte
	if _, err := io.ReadFull(rd.r, head[:]); err != nil {
		return Chunk{}, perr.Wrap(perr.TruncatedInput, "reading chunk header", err)
	}
	length := binary.BigEndian.Uint32(head[:4])
	if length > maxLength {
		return Chunk{}, perr.New(perr.LengthTooLarge, "chunk length exceeds 2^31-1")
	}

	var typ Type
	copy(typ[:], head[4:8])
	if !typ.isASCIILetter() {
		return Chunk{}, perr.New(perr.BadChunkType, "chunk type is not four ASCII letters")
	}

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(rd.r, data); err != nil {
			return Chunk{}, perr.Wrap(perr.TruncatedInput, "reading "+typ.String()+" payload", err)
		}
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(rd.r, crcBuf[:]); err != nil {
		return Chunk{}, perr.Wrap(perr.TruncatedInput, "reading "+typ.String()+" crc", err)
	}
	stored := binary.BigEndian.Uint32(crcBuf[:])

	checked := make([]byte, 4+len(data))
	copy(checked, typ[:])
	copy(checked[4:], data)
	computed := uint32(crc.CalculateCRC(crc.CRC32, checked))
	if computed != stored {
		return Chunk{}, perr.New(perr.CrcMismatch, typ.String()+": crc mismatch")
	}

	return Chunk{Type: typ, Data: data}, nil
}
