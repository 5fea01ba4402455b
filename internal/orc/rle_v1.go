package orc

import "io"

// readUvarint reads a plain (non-zigzag) base-128 varint, continuation bit
// in the MSB of each byte, least-significant group first.
func readUvarint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, errInvalidIntegerEncoding()
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errInvalidIntegerEncoding()
		}
	}
}

// readSvarint reads a zigzag-encoded varint, returned as its signed value.
func readSvarint(r io.ByteReader) (int64, error) {
	u, err := readUvarint(r)
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// decodeIntRLEv1 decodes exactly count unsigned 64-bit words from an
// Integer RLE version 1 stream. Two frame shapes alternate:
//
//	control < 128: a run. The control byte gives (length - 3); the next
//	  byte is a signed delta applied, in two's-complement wraparound,
//	  against a plain-varint base, once per step.
//	control >= 128: (256 - control) plain-varint literals.
func decodeIntRLEv1(r io.ByteReader, count int) ([]uint64, error) {
	out := make([]uint64, 0, count)
	for len(out) < count {
		control, err := r.ReadByte()
		if err != nil {
			return nil, errInvalidIntegerEncoding()
		}
		if control < 128 {
			runLen := int(control) + 3
			deltaByte, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			delta := int64(int8(deltaByte))
			base, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			value := base
			for i := 0; i < runLen && len(out) < count; i++ {
				out = append(out, value)
				value = uint64(int64(value) + delta)
			}
		} else {
			literalLen := 256 - int(control)
			for i := 0; i < literalLen && len(out) < count; i++ {
				v, err := readUvarint(r)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
	}
	return out, nil
}
