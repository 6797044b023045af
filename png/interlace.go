package png

// adam7Passes is the (start_x, start_y, step_x, step_y) table of spec §4.6.
var adam7Passes = [7]struct{ startX, startY, stepX, stepY uint32 }{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// passDims returns the width and height of Adam7 pass p (0-indexed) for a
// width x height image, or (0, 0) if the pass is empty and must be skipped
// entirely.
func passDims(width, height uint32, p int) (w, h uint32) {
	pp := adam7Passes[p]
	if width <= pp.startX || height <= pp.startY {
		return 0, 0
	}
	w = (width - pp.startX + pp.stepX - 1) / pp.stepX
	h = (height - pp.startY + pp.stepY - 1) / pp.stepY
	return w, h
}

// deinterlace reverses Adam7 subsampling. filtered is the concatenation of
// all seven passes' filtered scanlines in pass order, sized per
// expectedInterlacedSize. It unfilters each pass independently (a pass's
// first row has no row above it, exactly like the top of a non-interlaced
// image) then scatters each pass's samples into a full-resolution
// channel-sample buffer, ready for toPixels.
//
// Scattering happens after expandRow rather than on the still bit-packed
// raw bytes: once every sample is one byte, a pass pixel at (i,j) lands at
// a byte-aligned offset in the full buffer regardless of the original bit
// depth, sidestepping sub-byte bit arithmetic entirely.
func deinterlace(filtered []byte, width, height uint32, format colorFormat, bitDepth uint8) ([]byte, error) {
	spp := format.samplesPerPixel()
	full := make([]byte, int(width)*int(height)*spp)

	offset := 0
	for p := 0; p < 7; p++ {
		pw, ph := passDims(width, height, p)
		if pw == 0 || ph == 0 {
			continue
		}

		rl := rowLen(pw, spp, bitDepth)
		distance := filterDistance(spp, bitDepth)
		size := int(ph) * (rl + 1)
		section := filtered[offset : offset+size]
		offset += size

		raw, err := unfilter(section, int(ph), rl, distance)
		if err != nil {
			return nil, err
		}

		pass := adam7Passes[p]
		for j := uint32(0); j < ph; j++ {
			row := raw[int(j)*rl : int(j+1)*rl]
			samples := expandRow(row, pw, format, bitDepth)
			destY := pass.startY + j*pass.stepY
			for i := uint32(0); i < pw; i++ {
				destX := pass.startX + i*pass.stepX
				destOff := (int(destY)*int(width) + int(destX)) * spp
				copy(full[destOff:destOff+spp], samples[int(i)*spp:int(i+1)*spp])
			}
		}
	}
	return full, nil
}

// expectedInterlacedSize sums the filtered-size of every non-empty Adam7
// pass, per spec §4.3.
func expectedInterlacedSize(width, height uint32, spp int, bitDepth uint8) int64 {
	var total int64
	for p := 0; p < 7; p++ {
		pw, ph := passDims(width, height, p)
		if pw == 0 || ph == 0 {
			continue
		}
		total += int64(ph) * int64(rowLen(pw, spp, bitDepth)+1)
	}
	return total
}
