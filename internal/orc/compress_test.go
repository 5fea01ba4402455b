package orc

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
)

func chunkHeader(length int, isOriginal bool) []byte {
	v := uint32(length) << 1
	if isOriginal {
		v |= 1
	}
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

func TestDecompressorNone(t *testing.T) {
	t.Parallel()
	// Even a NONE-compressed stream carries chunk framing: there is no
	// codec to run, so every chunk is stored (isOriginal=1), but the
	// 3-byte header is still there and must still be parsed.
	payload := []byte("hello orc")
	var buf bytes.Buffer
	buf.Write(chunkHeader(len(payload), true))
	buf.Write(payload)

	d, err := newDecompressor(&buf, compressionNone, uint64(buf.Len()))
	if err != nil {
		t.Fatalf("newDecompressor: %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestDecompressorNoneMultiChunk(t *testing.T) {
	t.Parallel()
	a := []byte("first stored chunk")
	b := []byte("second stored chunk, a little longer")

	var buf bytes.Buffer
	buf.Write(chunkHeader(len(a), true))
	buf.Write(a)
	buf.Write(chunkHeader(len(b), true))
	buf.Write(b)

	d, err := newDecompressor(&buf, compressionNone, uint64(buf.Len()))
	if err != nil {
		t.Fatalf("newDecompressor: %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := append(append([]byte{}, a...), b...)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecompressorOriginalChunk(t *testing.T) {
	t.Parallel()
	payload := []byte("stored, not compressed")
	var buf bytes.Buffer
	buf.Write(chunkHeader(len(payload), true))
	buf.Write(payload)

	d, err := newDecompressor(&buf, compressionZlib, uint64(buf.Len()))
	if err != nil {
		t.Fatalf("newDecompressor: %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestDecompressorZlibChunk(t *testing.T) {
	t.Parallel()
	payload := []byte("this text compresses reasonably well when repeated, repeated, repeated")

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var buf bytes.Buffer
	buf.Write(chunkHeader(compressed.Len(), false))
	buf.Write(compressed.Bytes())

	d, err := newDecompressor(&buf, compressionZlib, uint64(buf.Len()))
	if err != nil {
		t.Fatalf("newDecompressor: %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestDecompressorMultiChunk(t *testing.T) {
	t.Parallel()
	a := []byte("first chunk")
	b := []byte("second chunk, a little longer")

	var buf bytes.Buffer
	buf.Write(chunkHeader(len(a), true))
	buf.Write(a)
	buf.Write(chunkHeader(len(b), true))
	buf.Write(b)

	d, err := newDecompressor(&buf, compressionZlib, uint64(buf.Len()))
	if err != nil {
		t.Fatalf("newDecompressor: %v", err)
	}
	got, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := append(append([]byte{}, a...), b...)
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecompressorUnsupportedCompression(t *testing.T) {
	t.Parallel()
	_, err := newDecompressor(bytes.NewReader(nil), 4 /* LZ4 */, 0)
	if err == nil {
		t.Fatal("expected error for unsupported compression kind")
	}
	var orcErr *Error
	if !errors.As(err, &orcErr) || orcErr.Kind != ErrUnsupportedCompression {
		t.Errorf("got %v, want ErrUnsupportedCompression", err)
	}
}
