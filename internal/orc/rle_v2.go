package orc

import "io"

// fiveBitEncoding maps a 5-bit width code to its bit width. Index 0 means
// "1 bit" only outside delta frames; within a delta frame index 0 means
// "no bit-packed payload at all" (constant delta), handled by the caller.
var fiveBitEncoding = [32]int{
	0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24, 26, 28, 30, 32, 40, 48, 56, 64,
}

func fiveBitWidth(code byte, isDelta bool) int {
	if !isDelta && code == 0 {
		return 1
	}
	return fiveBitEncoding[code&0x1F]
}

// fixedBitWidths is the ORC canonical set that round_up_fixed maps into.
var fixedBitWidths = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24, 26, 28, 30, 32, 40, 48, 56, 64}

func roundUpFixed(bits int) int {
	if bits <= 0 {
		return 1
	}
	for _, w := range fixedBitWidths {
		if w >= bits {
			return w
		}
	}
	return 64
}

// bitReader consumes MSB-first bits from an underlying byte stream,
// matching ORC's big-endian bit-packed payloads.
type bitReader struct {
	r     io.ByteReader
	cur   byte
	nbits uint
}

func (br *bitReader) readBits(width int) (uint64, error) {
	var result uint64
	remaining := width
	for remaining > 0 {
		if br.nbits == 0 {
			b, err := br.r.ReadByte()
			if err != nil {
				return 0, errInvalidIntegerEncoding()
			}
			br.cur = b
			br.nbits = 8
		}
		take := remaining
		if take > int(br.nbits) {
			take = int(br.nbits)
		}
		shift := br.nbits - uint(take)
		mask := byte((1 << uint(take)) - 1)
		bits := (br.cur >> shift) & mask
		result = (result << uint(take)) | uint64(bits)
		br.nbits -= uint(take)
		remaining -= take
	}
	return result, nil
}

// align discards any partially-consumed byte, returning to a byte boundary.
func (br *bitReader) align() {
	br.nbits = 0
}

func readBEBytes(r io.ByteReader, width int) (uint64, error) {
	var value uint64
	for i := 0; i < width; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errInvalidIntegerEncoding()
		}
		value = value*256 + uint64(b)
	}
	return value, nil
}

func signum(v int64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// decodeIntRLEv2 decodes exactly count unsigned 64-bit words from an
// Integer RLE version 2 stream, dispatching on the two-bit tag in the
// leading header byte: short-repeat, direct, patched-base, or delta.
func decodeIntRLEv2(r io.ByteReader, count int) ([]uint64, error) {
	out := make([]uint64, 0, count)
	for len(out) < count {
		h0, err := r.ReadByte()
		if err != nil {
			return nil, errInvalidIntegerEncoding()
		}
		tag := (h0 >> 6) & 0x3
		switch tag {
		case 0: // short repeat
			width := int((h0>>3)&0x7) + 1
			repeatCount := int(h0&0x7) + 3
			v, err := readBEBytes(r, width)
			if err != nil {
				return nil, err
			}
			for i := 0; i < repeatCount && len(out) < count; i++ {
				out = append(out, v)
			}
		case 1: // direct
			h1, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			width := fiveBitWidth((h0>>1)&0x1F, false)
			length := int((int(h0&1)<<8)+int(h1)) + 1
			br := &bitReader{r: r}
			for i := 0; i < length && len(out) < count; i++ {
				v, err := br.readBits(width)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		case 2: // patched base
			h1, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			h2, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			h3, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			width := fiveBitWidth((h0>>1)&0x1F, false)
			length := int((int(h0&1)<<8)+int(h1)) + 1
			baseWidth := int((h2>>5)&0x7) + 1
			patchWidth := fiveBitWidth(h2&0x1F, false)
			patchGapWidth := int((h3>>5)&0x7) + 1
			patchListLen := int(h3 & 0x1F)

			base, err := readBEBytes(r, baseWidth)
			if err != nil {
				return nil, err
			}

			values := make([]uint64, length)
			br := &bitReader{r: r}
			for i := 0; i < length; i++ {
				v, err := br.readBits(width)
				if err != nil {
					return nil, err
				}
				values[i] = v + base
			}
			br.align()

			patchSlotWidth := roundUpFixed(patchGapWidth + patchWidth)
			pos := -1
			for i := 0; i < patchListLen; i++ {
				padding := patchSlotWidth - patchGapWidth - patchWidth
				if padding > 0 {
					if _, err := br.readBits(padding); err != nil {
						return nil, err
					}
				}
				gap, err := br.readBits(patchGapWidth)
				if err != nil {
					return nil, err
				}
				value, err := br.readBits(patchWidth)
				if err != nil {
					return nil, err
				}
				pos += int(gap) + 1
				if pos < 0 || pos >= length {
					return nil, errInvalidIntegerEncoding()
				}
				values[pos] += value << uint(width)
			}
			for _, v := range values {
				if len(out) >= count {
					break
				}
				out = append(out, v)
			}
		case 3: // delta
			h1, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			width := fiveBitWidth((h0>>1)&0x1F, true)
			length := int((int(h0&1)<<8)+int(h1)) + 1

			rawBase, err := readSvarint(r)
			if err != nil {
				return nil, err
			}
			var base uint64
			if rawBase < 0 {
				base = uint64(-2*rawBase - 1)
			} else {
				base = uint64(2 * rawBase)
			}
			firstDelta, err := readSvarint(r)
			if err != nil {
				return nil, err
			}
			sign := signum(firstDelta)

			if len(out) < count {
				out = append(out, base)
			}
			last := int64(base) + firstDelta
			if len(out) < count && length > 1 {
				out = append(out, uint64(last))
			}
			br := &bitReader{r: r}
			for i := 2; i < length && len(out) < count; i++ {
				if width == 0 {
					last += firstDelta
				} else {
					m, err := br.readBits(width)
					if err != nil {
						return nil, err
					}
					last += sign * int64(m)
				}
				out = append(out, uint64(last))
			}
		default:
			return nil, errInvalidIntegerEncoding()
		}
	}
	return out, nil
}
