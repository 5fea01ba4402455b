package orc

import "io"

// decodeByteRLE decodes exactly count bytes from a byte run-length encoded
// stream. Each control byte is either:
//
//	control < 128: a run of (control + 3) repetitions of the next byte
//	control >= 128: a literal span of (256 - control) following bytes
//
// These are the two canonical forms; count bounds how many decoded bytes
// are actually wanted (a literal or run may be only partially consumed).
func decodeByteRLE(r io.ByteReader, count int) ([]byte, error) {
	out := make([]byte, 0, count)
	for len(out) < count {
		control, err := r.ReadByte()
		if err != nil {
			return nil, errInvalidIntegerEncoding()
		}
		if control < 128 {
			runLen := int(control) + 3
			b, err := r.ReadByte()
			if err != nil {
				return nil, errInvalidIntegerEncoding()
			}
			for i := 0; i < runLen && len(out) < count; i++ {
				out = append(out, b)
			}
		} else {
			literalLen := 256 - int(control)
			for i := 0; i < literalLen && len(out) < count; i++ {
				b, err := r.ReadByte()
				if err != nil {
					return nil, errInvalidIntegerEncoding()
				}
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// decodeBitStream decodes a byte-RLE stream and unpacks it into count
// MSB-first bits, one bool per bit. Used for PRESENT streams and for
// BOOLEAN column DATA streams, both of which pack one bit per row into
// byte RLE output.
func decodeBitStream(r io.ByteReader, count int) ([]bool, error) {
	byteCount := (count + 7) / 8
	raw, err := decodeByteRLE(r, byteCount)
	if err != nil {
		return nil, err
	}
	bits := make([]bool, count)
	for i := 0; i < count; i++ {
		b := raw[i/8]
		shift := uint(7 - i%8)
		bits[i] = (b>>shift)&1 == 1
	}
	return bits, nil
}
