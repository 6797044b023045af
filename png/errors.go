package png

import "github.com/kaelbrook/pngdecode/internal/perr"

// DecodeError is the single fatal error type this package returns,
// re-exported from internal/perr so the chunk reader (which must not
// import this package) and the public API share one vocabulary.
type DecodeError = perr.DecodeError

// Kind identifies which stage of the pipeline rejected the input, and why.
type Kind = perr.Kind

const (
	TruncatedInput         = perr.TruncatedInput
	BadSignature           = perr.BadSignature
	LengthTooLarge         = perr.LengthTooLarge
	CrcMismatch            = perr.CrcMismatch
	BadChunkType           = perr.BadChunkType
	UnknownCriticalChunk   = perr.UnknownCriticalChunk
	InvalidIhdr            = perr.InvalidIhdr
	InvalidColorDepth      = perr.InvalidColorDepth
	NonContiguousIdat      = perr.NonContiguousIdat
	MissingPalette         = perr.MissingPalette
	MisorderedChunk        = perr.MisorderedChunk
	PaletteTooLarge        = perr.PaletteTooLarge
	DecompressError        = perr.DecompressError
	SizeMismatch           = perr.SizeMismatch
	BadFilterCode          = perr.BadFilterCode
	PaletteIndexOutOfRange = perr.PaletteIndexOutOfRange
	AllocationFailure      = perr.AllocationFailure
)

// IsKind reports whether err is, or wraps, a DecodeError of the given kind.
func IsKind(err error, kind Kind) bool { return perr.IsKind(err, kind) }
