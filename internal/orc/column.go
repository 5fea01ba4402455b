package orc

import "unicode/utf8"

// ValueKind tags the dynamic type carried by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindU64
	KindUtf8
)

// Value is the tagged union yielded by column and row access. Utf8 holds a
// copy of the string's bytes; it does not alias the parent Column's byte
// store and stays valid after that Column is dropped.
type Value struct {
	Kind ValueKind
	Bool bool
	U64  uint64
	Utf8 string
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// ColumnKind identifies which of the four logical column shapes a Column
// holds.
type ColumnKind int

const (
	ColumnBool ColumnKind = iota
	ColumnU64
	ColumnUtf8Direct
	ColumnUtf8Dictionary
)

// span locates a byte range within a flat byte store; start == -1 marks a
// null row.
type span struct {
	start int
	len   int
}

// Column is a materialized, randomly-accessible column of row_count
// entries. The field groups below are populated according to Kind; nulls
// is shared by ColumnBool and ColumnU64.
type Column struct {
	Kind     ColumnKind
	RowCount int

	// ColumnBool (nulls also serves ColumnU64)
	bits  []bool
	nulls []bool

	// ColumnU64
	u64s []uint64

	// ColumnUtf8Direct
	bytes  []byte
	spans  []span // length RowCount; start == -1 marks null

	// ColumnUtf8Dictionary
	codes      []int64 // length RowCount; -1 marks null
	dictBytes  []byte
	dictSpans  []span
}

// Get returns the value at row, or ok=false if row is out of range.
func (c *Column) Get(row int) (Value, bool) {
	if row < 0 || row >= c.RowCount {
		return Value{}, false
	}
	switch c.Kind {
	case ColumnBool:
		if c.nulls != nil && c.nulls[row] {
			return Value{Kind: KindNull}, true
		}
		return Value{Kind: KindBool, Bool: c.bits[row]}, true
	case ColumnU64:
		if c.nulls != nil && c.nulls[row] {
			return Value{Kind: KindNull}, true
		}
		return Value{Kind: KindU64, U64: c.u64s[row]}, true
	case ColumnUtf8Direct:
		s := c.spans[row]
		if s.start < 0 {
			return Value{Kind: KindNull}, true
		}
		return Value{Kind: KindUtf8, Utf8: string(c.bytes[s.start : s.start+s.len])}, true
	case ColumnUtf8Dictionary:
		code := c.codes[row]
		if code < 0 {
			return Value{Kind: KindNull}, true
		}
		s := c.dictSpans[code]
		return Value{Kind: KindUtf8, Utf8: string(c.dictBytes[s.start : s.start+s.len])}, true
	}
	return Value{}, false
}

// GetChecked is like Get but additionally validates that a Utf8 span
// decodes as valid UTF-8, returning a typed error with (stripe, column,
// row) context instead of silently yielding malformed text.
func (c *Column) GetChecked(stripe, column, row int) (Value, error) {
	v, ok := c.Get(row)
	if !ok {
		return Value{}, errInvalidValue(stripe, column, row, "row index out of range")
	}
	if v.Kind == KindUtf8 && !utf8.ValidString(v.Utf8) {
		return Value{}, errInvalidValue(stripe, column, row, "column data is not valid UTF-8")
	}
	return v, nil
}

// weaveBoolNulls builds the row_count-length null mask from the decoded
// PRESENT bitstream and reports whether any row is null. present may be
// nil, meaning every row is present (no PRESENT stream in the stripe); the
// mask is then nil. Placing the decoded values is left to the caller.
func weaveBoolNulls(rowCount int, present []bool) (nulls []bool, hasNulls bool) {
	if present == nil {
		return nil, false
	}
	nulls = make([]bool, rowCount)
	for i, p := range present {
		if !p {
			nulls[i] = true
			hasNulls = true
		}
	}
	return nulls, hasNulls
}

func newBoolColumn(rowCount int, present []bool, data []bool) *Column {
	nulls, hasNulls := weaveBoolNulls(rowCount, present)
	bits := make([]bool, rowCount)
	if present == nil {
		copy(bits, data)
	} else {
		di := 0
		for i, p := range present {
			if p {
				bits[i] = data[di]
				di++
			}
		}
	}
	c := &Column{Kind: ColumnBool, RowCount: rowCount, bits: bits}
	if hasNulls {
		c.nulls = nulls
	}
	return c
}

func newU64Column(rowCount int, present []bool, data []uint64) *Column {
	nulls, hasNulls := weaveBoolNulls(rowCount, present)
	values := make([]uint64, rowCount)
	if present == nil {
		copy(values, data)
	} else {
		di := 0
		for i, p := range present {
			if p {
				values[i] = data[di]
				di++
			}
		}
	}
	c := &Column{Kind: ColumnU64, RowCount: rowCount, u64s: values}
	if hasNulls {
		c.nulls = nulls
	}
	return c
}

// newUtf8DirectColumn builds a Utf8Direct column from concatenated data
// bytes and a per-present-row length stream, weaving in null spans.
func newUtf8DirectColumn(rowCount int, present []bool, data []byte, lengths []uint64) *Column {
	spans := make([]span, rowCount)
	total := 0
	if present == nil {
		for i := 0; i < rowCount; i++ {
			l := int(lengths[i])
			spans[i] = span{start: total, len: l}
			total += l
		}
	} else {
		li := 0
		for i, p := range present {
			if !p {
				spans[i] = span{start: -1}
				continue
			}
			l := int(lengths[li])
			li++
			spans[i] = span{start: total, len: l}
			total += l
		}
	}
	return &Column{Kind: ColumnUtf8Direct, RowCount: rowCount, bytes: data, spans: spans}
}

// newUtf8DictionaryColumn builds a Utf8Dictionary column: codes reference
// entries in a dictionary whose byte spans are derived from a prefix sum
// over the LENGTH stream. dictSize must equal the number of decoded
// dictionary entries.
func newUtf8DictionaryColumn(rowCount int, present []bool, codes []uint64, dictData []byte, dictLengths []uint64, dictSize uint32) (*Column, error) {
	if uint32(len(dictLengths)) != dictSize {
		return nil, errInvalidDictionarySize(dictSize, uint32(len(dictLengths)))
	}
	dictSpans := make([]span, len(dictLengths))
	offset := 0
	for i, l := range dictLengths {
		dictSpans[i] = span{start: offset, len: int(l)}
		offset += int(l)
	}

	signedCodes := make([]int64, rowCount)
	if present == nil {
		for i, c := range codes {
			signedCodes[i] = int64(c)
		}
	} else {
		ci := 0
		for i, p := range present {
			if !p {
				signedCodes[i] = -1
				continue
			}
			signedCodes[i] = int64(codes[ci])
			ci++
		}
	}
	return &Column{
		Kind:      ColumnUtf8Dictionary,
		RowCount:  rowCount,
		codes:     signedCodes,
		dictBytes: dictData,
		dictSpans: dictSpans,
	}, nil
}
