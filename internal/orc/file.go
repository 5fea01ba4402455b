package orc

import (
	"bufio"
	"io"
	"os"
)

// supportedCompressionKinds are the only CompressionKind values this
// reader understands; anything else is rejected at open time.
var supportedCompressionKinds = map[int32]bool{
	compressionNone: true,
	compressionZlib: true,
	compressionZstd: true,
}

// File is an open ORC file: its parsed metadata plus the live OS file
// handle used to pull stripe data on demand. A File is not safe for
// concurrent use by multiple goroutines and must be closed with Close when
// done.
type File struct {
	f       *os.File
	fileLen int64

	compression int32
	schema      *leafSchema
	stripes     []stripeInformation

	nameIndex map[string]int
}

// Option configures Open. There are none defined yet; the slot exists so
// callers don't need an API break when one is added.
type Option func(*File)

// Open parses the PostScript, Footer, and per-stripe directory of the
// ORC file at path. Stripe data itself is not read until ReadColumn or
// Rows is called.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errIO(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errIO(err)
	}

	file := &File{f: f, fileLen: fi.Size()}
	for _, opt := range opts {
		opt(file)
	}

	if err := file.open(); err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

func (f *File) open() error {
	tailLen := int64(256)
	if f.fileLen < tailLen {
		tailLen = f.fileLen
	}
	tail := make([]byte, tailLen)
	if _, err := f.f.ReadAt(tail, f.fileLen-tailLen); err != nil {
		return errIO(err)
	}

	psLen := int(tail[len(tail)-1])
	if psLen+1 > len(tail) {
		return errInvalidMetadata("postscript length exceeds file tail")
	}
	psBytes := tail[len(tail)-1-psLen : len(tail)-1]
	ps, err := parsePostscript(psBytes)
	if err != nil {
		return err
	}
	if !supportedCompressionKinds[ps.compression] {
		return errUnsupportedCompression(ps.compression)
	}
	f.compression = ps.compression

	footerOffset := f.fileLen - 1 - int64(psLen) - int64(ps.footerLength)
	if footerOffset < 0 {
		return errInvalidMetadata("footer offset precedes start of file")
	}
	footerSection := io.NewSectionReader(f.f, footerOffset, int64(ps.footerLength))
	footerReader, err := bufferedChunkReader(footerSection, f.compression, ps.footerLength)
	if err != nil {
		return err
	}
	footerBytes, err := io.ReadAll(footerReader)
	if err != nil {
		return errIO(err)
	}
	ft, err := parseFooter(footerBytes)
	if err != nil {
		return err
	}

	schema, err := extractLeafSchema(ft)
	if err != nil {
		return err
	}
	f.schema = schema
	f.stripes = ft.stripes

	f.nameIndex = make(map[string]int, len(schema.fieldNames))
	for i, name := range schema.fieldNames {
		if _, exists := f.nameIndex[name]; !exists {
			f.nameIndex[name] = i
		}
	}
	return nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// FieldNames returns the column names declared by the root struct type,
// in schema order. Names may repeat; FieldIndex resolves the first
// occurrence of a repeated name.
func (f *File) FieldNames() []string {
	return f.schema.fieldNames
}

// FieldIndex returns the column index of the first field with the given
// name, or -1 if no field has that name.
func (f *File) FieldIndex(name string) int {
	if idx, ok := f.nameIndex[name]; ok {
		return idx
	}
	return -1
}

// StripeCount returns the number of stripes in the file.
func (f *File) StripeCount() int {
	return len(f.stripes)
}

// StripeInfo derives the stream layout plan for the given stripe index.
func (f *File) StripeInfo(stripe int) (*StripeInfo, error) {
	if stripe < 0 || stripe >= len(f.stripes) {
		return nil, errInvalidMetadata("stripe index out of range")
	}
	si := f.stripes[stripe]
	sfSection := io.NewSectionReader(f.f, int64(si.offset+si.indexLength+si.dataLength), int64(si.footerLength))
	sfReader, err := bufferedChunkReader(sfSection, f.compression, si.footerLength)
	if err != nil {
		return nil, err
	}
	sfBytes, err := io.ReadAll(sfReader)
	if err != nil {
		return nil, errIO(err)
	}
	sf, err := parseStripeFooter(sfBytes)
	if err != nil {
		return nil, err
	}
	return deriveStripeInfo(&si, sf, f.schema)
}

// ReadColumn decodes the full contents of one leaf column within one
// stripe. column is a zero-based leaf column index, not an ORC column id.
func (f *File) ReadColumn(stripe, column int) (*Column, error) {
	info, err := f.StripeInfo(stripe)
	if err != nil {
		return nil, err
	}
	if column < 0 || column >= len(info.columns) {
		return nil, errInvalidColumnIndex(column)
	}
	return f.readColumn(info, column)
}

func (f *File) readColumn(info *StripeInfo, column int) (*Column, error) {
	ci := info.columns[column]
	pos := int64(info.DataStart) + int64(ci.offset)

	var present []bool
	if ci.hasPresent {
		r, err := f.streamReader(pos, ci.presentLen)
		if err != nil {
			return nil, err
		}
		present, err = decodeBitStream(r, info.RowCount)
		if err != nil {
			return nil, err
		}
		pos += int64(ci.presentLen)
	}
	presentCount := info.RowCount
	if present != nil {
		presentCount = countTrue(present)
	}

	switch ci.kind {
	case ColumnBool:
		r, err := f.streamReader(pos, ci.dataLen)
		if err != nil {
			return nil, err
		}
		data, err := decodeBitStream(r, presentCount)
		if err != nil {
			return nil, err
		}
		return newBoolColumn(info.RowCount, present, data), nil

	case ColumnU64:
		r, err := f.streamReader(pos, ci.dataLen)
		if err != nil {
			return nil, err
		}
		values, err := decodeInts(r, ci.rleVersion, presentCount)
		if err != nil {
			return nil, err
		}
		return newU64Column(info.RowCount, present, values), nil

	case ColumnUtf8Direct:
		dataR, err := f.streamReader(pos, ci.dataLen)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(dataR)
		if err != nil {
			return nil, errIO(err)
		}
		lenR, err := f.streamReader(pos+int64(ci.dataLen), ci.lengthLen)
		if err != nil {
			return nil, err
		}
		lengths, err := decodeInts(lenR, ci.rleVersion, presentCount)
		if err != nil {
			return nil, err
		}
		return newUtf8DirectColumn(info.RowCount, present, data, lengths), nil

	case ColumnUtf8Dictionary:
		dataR, err := f.streamReader(pos, ci.dataLen)
		if err != nil {
			return nil, err
		}
		codes, err := decodeInts(dataR, ci.rleVersion, presentCount)
		if err != nil {
			return nil, err
		}
		lenR, err := f.streamReader(pos+int64(ci.dataLen), ci.lengthLen)
		if err != nil {
			return nil, err
		}
		dictLengths, err := decodeInts(lenR, ci.rleVersion, int(ci.dictSize))
		if err != nil {
			return nil, err
		}
		dictR, err := f.streamReader(pos+int64(ci.dataLen)+int64(ci.lengthLen), ci.dictDataLen)
		if err != nil {
			return nil, err
		}
		dictData, err := io.ReadAll(dictR)
		if err != nil {
			return nil, errIO(err)
		}
		return newUtf8DictionaryColumn(info.RowCount, present, codes, dictData, dictLengths, ci.dictSize)
	}
	return nil, errInvalidState()
}

func (f *File) streamReader(pos int64, length uint64) (*bufio.Reader, error) {
	section := io.NewSectionReader(f.f, pos, int64(length))
	return bufferedChunkReader(section, f.compression, length)
}

func decodeInts(r io.ByteReader, version rleVersion, count int) ([]uint64, error) {
	if version == rleV2 {
		return decodeIntRLEv2(r, count)
	}
	return decodeIntRLEv1(r, count)
}

func countTrue(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}
