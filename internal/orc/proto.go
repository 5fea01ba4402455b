package orc

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers and enum values below follow the orc_proto.proto message
// set as published by the Apache ORC project. There is no vendored
// .proto/protoc step in this repo: the messages actually consumed are few
// and stable, so they're walked field-by-field with protowire directly.

// CompressionKind values (PostScript.compression).
const (
	compressionNone int32 = 0
	compressionZlib int32 = 1
	compressionZstd int32 = 5
)

// Type.Kind values (Footer.types[*].kind). Only the leaf kinds this reader
// understands are named; anything else is rejected at extraction time.
const (
	typeKindBoolean int32 = 0
	typeKindLong    int32 = 4
	typeKindInt     int32 = 3
	typeKindString  int32 = 7
)

// ColumnEncoding.Kind values (StripeFooter.columns[*].kind).
const (
	encodingDirect       int32 = 0
	encodingDictionary   int32 = 1
	encodingDirectV2     int32 = 2
	encodingDictionaryV2 int32 = 3
)

// Stream.Kind values (StripeFooter.streams[*].kind).
const (
	streamKindPresent        int32 = 0
	streamKindData           int32 = 1
	streamKindLength         int32 = 2
	streamKindDictionaryData int32 = 3
)

// postscript mirrors the PostScript message.
//
//	message PostScript {
//	  1: optional uint64 footerLength;
//	  2: optional CompressionKind compression;
//	  3: optional uint64 compressionBlockSize;
//	  4: repeated uint32 version;
//	  5: optional uint64 metadataLength;
//	  8000: optional string magic;
//	}
type postscript struct {
	footerLength uint64
	compression  int32
	metaLength   uint64
}

func parsePostscript(data []byte) (*postscript, error) {
	ps := &postscript{compression: compressionNone}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed postscript tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed postscript.footerLength")
			}
			ps.footerLength = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed postscript.compression")
			}
			ps.compression = int32(v)
			data = data[m:]
		case 5:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed postscript.metadataLength")
			}
			ps.metaLength = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed postscript field")
			}
			data = data[m:]
		}
	}
	return ps, nil
}

// protoType mirrors Footer.Type.
//
//	message Type {
//	  1: optional Kind kind;
//	  2: repeated uint32 subtypes;
//	  3: repeated string fieldNames;
//	}
type protoType struct {
	kind       int32
	fieldNames []string
}

// footer mirrors the Footer message.
//
//	message Footer {
//	  1: optional uint64 headerLength;
//	  2: optional uint64 contentLength;
//	  3: repeated StripeInformation stripes;
//	  4: repeated Type types;
//	  5: repeated UserMetadataItem metadata;
//	  6: optional uint64 numberOfRows;
//	}
type footer struct {
	stripes []stripeInformation
	types   []protoType
}

// stripeInformation mirrors StripeInformation.
//
//	message StripeInformation {
//	  1: optional uint64 offset;
//	  2: optional uint64 indexLength;
//	  3: optional uint64 dataLength;
//	  4: optional uint64 footerLength;
//	  5: optional uint64 numberOfRows;
//	}
type stripeInformation struct {
	offset       uint64
	indexLength  uint64
	dataLength   uint64
	footerLength uint64
	numberOfRows uint64
}

func parseFooter(data []byte) (*footer, error) {
	f := &footer{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed footer tag")
		}
		data = data[n:]
		switch num {
		case 3:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed footer.stripes")
			}
			si, err := parseStripeInformation(v)
			if err != nil {
				return nil, err
			}
			f.stripes = append(f.stripes, *si)
			data = data[m:]
		case 4:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed footer.types")
			}
			t, err := parseType(v)
			if err != nil {
				return nil, err
			}
			f.types = append(f.types, *t)
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed footer field")
			}
			data = data[m:]
		}
	}
	return f, nil
}

func parseStripeInformation(data []byte) (*stripeInformation, error) {
	si := &stripeInformation{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed stripeInformation tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation.offset")
			}
			si.offset = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation.indexLength")
			}
			si.indexLength = v
			data = data[m:]
		case 3:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation.dataLength")
			}
			si.dataLength = v
			data = data[m:]
		case 4:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation.footerLength")
			}
			si.footerLength = v
			data = data[m:]
		case 5:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation.numberOfRows")
			}
			si.numberOfRows = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeInformation field")
			}
			data = data[m:]
		}
	}
	return si, nil
}

func parseType(data []byte) (*protoType, error) {
	t := &protoType{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed type tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed type.kind")
			}
			t.kind = int32(v)
			data = data[m:]
		case 3:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed type.fieldNames")
			}
			t.fieldNames = append(t.fieldNames, string(v))
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed type field")
			}
			data = data[m:]
		}
	}
	return t, nil
}

// stripeFooter mirrors the StripeFooter message.
//
//	message StripeFooter {
//	  1: repeated Stream streams;
//	  2: repeated ColumnEncoding columns;
//	}
type stripeFooter struct {
	streams []protoStream
	columns []columnEncoding
}

// protoStream mirrors Stream.
//
//	message Stream {
//	  1: optional Kind kind;
//	  2: optional uint32 column;
//	  3: optional uint64 length;
//	}
type protoStream struct {
	kind   int32
	column uint32
	length uint64
}

// columnEncoding mirrors ColumnEncoding.
//
//	message ColumnEncoding {
//	  1: optional Kind kind;
//	  2: optional uint32 dictionarySize;
//	}
type columnEncoding struct {
	kind           int32
	dictionarySize uint32
}

func parseStripeFooter(data []byte) (*stripeFooter, error) {
	sf := &stripeFooter{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed stripeFooter tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeFooter.streams")
			}
			s, err := parseStream(v)
			if err != nil {
				return nil, err
			}
			sf.streams = append(sf.streams, *s)
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeFooter.columns")
			}
			ce, err := parseColumnEncoding(v)
			if err != nil {
				return nil, err
			}
			sf.columns = append(sf.columns, *ce)
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stripeFooter field")
			}
			data = data[m:]
		}
	}
	return sf, nil
}

func parseStream(data []byte) (*protoStream, error) {
	s := &protoStream{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed stream tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stream.kind")
			}
			s.kind = int32(v)
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stream.column")
			}
			s.column = uint32(v)
			data = data[m:]
		case 3:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stream.length")
			}
			s.length = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed stream field")
			}
			data = data[m:]
		}
	}
	return s, nil
}

func parseColumnEncoding(data []byte) (*columnEncoding, error) {
	ce := &columnEncoding{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errInvalidMetadata("malformed columnEncoding tag")
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed columnEncoding.kind")
			}
			ce.kind = int32(v)
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed columnEncoding.dictionarySize")
			}
			ce.dictionarySize = uint32(v)
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, errInvalidMetadata("malformed columnEncoding field")
			}
			data = data[m:]
		}
	}
	return ce, nil
}
