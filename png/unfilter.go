package png

import "github.com/kaelbrook/pngdecode/internal/perr"

// unfilter reverses the per-row prediction described in spec §4.4. filtered
// holds `rows` scanlines, each rowLength+1 bytes (a filter-type byte
// followed by rowLength sample bytes); it returns the rows*rowLength raw
// sample bytes with the filter-type bytes stripped. distance is "bpp",
// the byte offset back to the left neighbor used by Sub/Average/Paeth.
//
// This operates on one contiguous raster section: the whole image when
// interlace_method is 0, or a single Adam7 pass's sub-image otherwise —
// each pass's first row treats "above"/"up-left" as zero, exactly as the
// top row of a non-interlaced image does.
func unfilter(filtered []byte, rows, rowLength, distance int) ([]byte, error) {
	raw := make([]byte, rows*rowLength)
	for y := 0; y < rows; y++ {
		fOff := y * (rowLength + 1)
		filterType := filtered[fOff]
		src := filtered[fOff+1 : fOff+1+rowLength]
		dst := raw[y*rowLength : (y+1)*rowLength]

		var prevRow []byte
		if y > 0 {
			prevRow = raw[(y-1)*rowLength : y*rowLength]
		}

		switch filterType {
		case 0: // None
			copy(dst, src)

		case 1: // Sub
			for x := 0; x < rowLength; x++ {
				var left byte
				if x >= distance {
					left = dst[x-distance]
				}
				dst[x] = src[x] + left
			}

		case 2: // Up
			for x := 0; x < rowLength; x++ {
				var above byte
				if prevRow != nil {
					above = prevRow[x]
				}
				dst[x] = src[x] + above
			}

		case 3: // Average
			for x := 0; x < rowLength; x++ {
				var left, above uint16
				if x >= distance {
					left = uint16(dst[x-distance])
				}
				if prevRow != nil {
					above = uint16(prevRow[x])
				}
				dst[x] = src[x] + byte((left+above)/2)
			}

		case 4: // Paeth
			for x := 0; x < rowLength; x++ {
				var left, above, upLeft byte
				if x >= distance {
					left = dst[x-distance]
				}
				if prevRow != nil {
					above = prevRow[x]
					if x >= distance {
						upLeft = prevRow[x-distance]
					}
				}
				dst[x] = src[x] + paethPredictor(left, above, upLeft)
			}

		default:
			return nil, perr.New(perr.BadFilterCode, "filter type not in 0..4")
		}
	}
	return raw, nil
}

// paethPredictor picks whichever of a (left), b (above), c (up-left) is
// closest to the linear estimator a+b-c, breaking ties in that order.
func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := absInt(p - int(a))
	pb := absInt(p - int(b))
	pc := absInt(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
