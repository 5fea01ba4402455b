package orc

// rleVersion distinguishes the two Integer RLE frame formats.
type rleVersion int

const (
	rleV1 rleVersion = 1
	rleV2 rleVersion = 2
)

func rleVersionOf(encoding int32) rleVersion {
	switch encoding {
	case encodingDirectV2, encodingDictionaryV2:
		return rleV2
	default:
		return rleV1
	}
}

// columnInfo is the derived, per-stripe stream layout for one leaf column:
// which kind it materializes as, where its streams begin relative to the
// stripe's data region, and how large each of the (up to four) streams
// is. Streams always appear in the fixed order PRESENT, DATA, LENGTH,
// DICTIONARY_DATA; a stream of length zero is simply absent.
type columnInfo struct {
	kind ColumnKind

	offset      uint64
	hasPresent  bool
	presentLen  uint64
	dataLen     uint64
	lengthLen   uint64
	dictDataLen uint64

	rleVersion rleVersion
	dictSize   uint32
}

func (c *columnInfo) totalLen() uint64 {
	return c.presentLen + c.dataLen + c.lengthLen + c.dictDataLen
}

// StripeInfo is the derived, public-facing plan for one stripe: its row
// count and the absolute byte range of its data region within the file.
type StripeInfo struct {
	RowCount   int
	DataStart  uint64
	DataLength uint64

	columns []columnInfo
}

// leafSchema is the flattened, root-stripped column schema: ordered leaf
// type kinds and the field names carried by the root struct type.
type leafSchema struct {
	fieldNames []string
	leafKinds  []int32
}

func extractLeafSchema(f *footer) (*leafSchema, error) {
	if len(f.types) == 0 {
		return nil, errInvalidMetadata("footer has no type nodes")
	}
	root := f.types[0]
	schema := &leafSchema{fieldNames: root.fieldNames}
	for _, t := range f.types[1:] {
		switch t.kind {
		case typeKindBoolean, typeKindLong, typeKindInt, typeKindString:
			schema.leafKinds = append(schema.leafKinds, t.kind)
		default:
			return nil, errUnsupportedType(t.kind)
		}
	}
	return schema, nil
}

// streamTotals accumulates the four stream-length categories for a single
// column, regardless of the order those streams were declared in the
// stripe footer.
type streamTotals struct {
	hasPresent  bool
	presentLen  uint64
	dataLen     uint64
	lengthLen   uint64
	dictDataLen uint64
}

func deriveStripeInfo(si *stripeInformation, sf *stripeFooter, schema *leafSchema) (*StripeInfo, error) {
	numColumns := len(schema.leafKinds)
	totals := make([]streamTotals, numColumns)
	for _, s := range sf.streams {
		if s.column == 0 {
			continue // root struct column carries no leaf streams
		}
		idx := int(s.column) - 1
		if idx < 0 || idx >= numColumns {
			return nil, errInvalidColumnIndex(int(s.column))
		}
		switch s.kind {
		case streamKindPresent:
			totals[idx].hasPresent = true
			totals[idx].presentLen += s.length
		case streamKindData:
			totals[idx].dataLen += s.length
		case streamKindLength:
			totals[idx].lengthLen += s.length
		case streamKindDictionaryData:
			totals[idx].dictDataLen += s.length
		}
	}

	encodings := make([]columnEncoding, numColumns)
	// ColumnEncoding entries are indexed by column id, root (0) included.
	for i := 0; i < numColumns; i++ {
		id := i + 1
		if id >= len(sf.columns) {
			return nil, errInvalidMetadata("stripe footer missing column encoding")
		}
		encodings[i] = sf.columns[id]
	}

	columns := make([]columnInfo, numColumns)
	var offset uint64
	for i := 0; i < numColumns; i++ {
		t := totals[i]
		enc := encodings[i]
		ci := columnInfo{
			offset:      offset,
			hasPresent:  t.hasPresent,
			presentLen:  t.presentLen,
			dataLen:     t.dataLen,
			lengthLen:   t.lengthLen,
			dictDataLen: t.dictDataLen,
			rleVersion:  rleVersionOf(enc.kind),
			dictSize:    enc.dictionarySize,
		}

		switch schema.leafKinds[i] {
		case typeKindBoolean:
			if t.dictDataLen != 0 || t.lengthLen != 0 || enc.kind != encodingDirect {
				return nil, errInvalidMetadata("boolean column has unexpected stream layout")
			}
			ci.kind = ColumnBool
		case typeKindLong, typeKindInt:
			if t.dictDataLen != 0 || t.lengthLen != 0 {
				return nil, errInvalidMetadata("integer column has unexpected stream layout")
			}
			if enc.kind != encodingDirect && enc.kind != encodingDirectV2 {
				return nil, errInvalidMetadata("integer column has unexpected encoding")
			}
			ci.kind = ColumnU64
		case typeKindString:
			switch enc.kind {
			case encodingDirect, encodingDirectV2:
				if t.dictDataLen != 0 {
					return nil, errInvalidMetadata("direct string column has unexpected dictionary stream")
				}
				ci.kind = ColumnUtf8Direct
			case encodingDictionary, encodingDictionaryV2:
				ci.kind = ColumnUtf8Dictionary
			default:
				return nil, errInvalidMetadata("string column has unexpected encoding")
			}
		default:
			return nil, errUnsupportedType(schema.leafKinds[i])
		}

		columns[i] = ci
		offset += ci.totalLen()
	}

	if offset != si.dataLength {
		return nil, errInvalidMetadata("sum of column stream lengths does not match stripe data length")
	}

	return &StripeInfo{
		RowCount:   int(si.numberOfRows),
		DataStart:  si.offset + si.indexLength,
		DataLength: si.dataLength,
		columns:    columns,
	}, nil
}
