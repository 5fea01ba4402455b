package orc

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// decompressor reads an ORC compressed byte stream: a sequence of chunks,
// each prefixed by a 3-byte little-endian header packing a 23-bit length
// and a 1-bit "is original" (i.e. stored, not compressed) flag.
//
//	isOriginal = header[0] & 0x01 == 1
//	chunkLen   = (header[2] << 15) | (header[1] << 7) | (header[0] >> 1)
//
// This chunk framing is unconditional: even a NONE-compressed stream is
// written as a sequence of framed chunks, each carrying isOriginal=1 (there
// is no codec to run, so every chunk is stored), not as one bare run of
// bytes. Every stream is read through this header-parsing loop regardless
// of its compression kind.
type decompressor struct {
	r           io.Reader
	compression int32
	remaining   uint64 // bytes left in the framed region, across all chunks

	chunk io.Reader // current chunk's payload reader, nil when exhausted
}

func newDecompressor(r io.Reader, compression int32, length uint64) (*decompressor, error) {
	switch compression {
	case compressionNone, compressionZlib, compressionZstd:
	default:
		return nil, errUnsupportedCompression(compression)
	}
	return &decompressor{r: r, compression: compression, remaining: length}, nil
}

func (d *decompressor) Read(p []byte) (int, error) {
	for d.chunk == nil {
		if d.remaining == 0 {
			return 0, io.EOF
		}
		if err := d.openNextChunk(); err != nil {
			return 0, err
		}
	}
	n, err := d.chunk.Read(p)
	if err == io.EOF {
		d.chunk = nil
		err = nil
	}
	return n, err
}

func (d *decompressor) openNextChunk() error {
	var header [3]byte
	if _, err := io.ReadFull(d.r, header[:]); err != nil {
		return errIO(err)
	}
	isOriginal := header[0]&0x01 == 1
	chunkLen := (uint64(header[2]) << 15) | (uint64(header[1]) << 7) | (uint64(header[0]) >> 1)
	if d.remaining < chunkLen+3 {
		return errInvalidMetadata("compressed chunk exceeds declared stream length")
	}
	d.remaining -= chunkLen + 3

	payload := io.LimitReader(d.r, int64(chunkLen))
	if isOriginal || d.compression == compressionNone {
		d.chunk = payload
		return nil
	}
	switch d.compression {
	case compressionZstd:
		zr, err := zstd.NewReader(payload)
		if err != nil {
			return errIO(err)
		}
		d.chunk = zr.IOReadCloser()
	case compressionZlib:
		d.chunk = flate.NewReader(payload)
	default:
		return errUnsupportedCompression(d.compression)
	}
	return nil
}

// bufferedChunkReader wraps a decompressor with the small read-ahead
// buffer every consumer in this package wants (RLE decoders read one
// byte at a time).
func bufferedChunkReader(r io.Reader, compression int32, length uint64) (*bufio.Reader, error) {
	d, err := newDecompressor(r, compression, length)
	if err != nil {
		return nil, err
	}
	return bufio.NewReaderSize(d, 512), nil
}
