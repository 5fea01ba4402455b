package orc

// RowIter walks every row of a file, one stripe at a time, yielding the
// values of a chosen set of columns per row. It is positioned before the
// first row; call Next to advance.
type RowIter struct {
	f       *File
	columns []int

	stripe   int
	row      int
	rowCount int

	columnData []*Column
	values     []Value

	err  error
	done bool
}

// Rows returns a RowIter over the given zero-based leaf column indices,
// in the order given. The values returned by Values are in that same
// order.
func (f *File) Rows(columns []int) *RowIter {
	cols := make([]int, len(columns))
	copy(cols, columns)
	return &RowIter{f: f, columns: cols, stripe: -1}
}

// Next advances to the next row, materializing the next stripe's columns
// as needed. It returns false at end of file or on the first decoding
// error; check Err afterward to distinguish the two.
func (it *RowIter) Next() bool {
	if it.done {
		return false
	}
	for {
		if it.stripe >= 0 && it.row < it.rowCount {
			if err := it.loadRow(it.row); err != nil {
				it.err = err
				it.done = true
				return false
			}
			it.row++
			return true
		}
		it.stripe++
		if it.stripe >= it.f.StripeCount() {
			it.done = true
			return false
		}
		info, err := it.f.StripeInfo(it.stripe)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		it.rowCount = info.RowCount
		it.row = 0
		it.columnData = make([]*Column, len(it.columns))
		for i, col := range it.columns {
			c, err := it.f.readColumn(info, col)
			if err != nil {
				it.err = err
				it.done = true
				return false
			}
			it.columnData[i] = c
		}
	}
}

func (it *RowIter) loadRow(row int) error {
	if it.values == nil {
		it.values = make([]Value, len(it.columns))
	}
	for i, c := range it.columnData {
		v, err := c.GetChecked(it.stripe, it.columns[i], row)
		if err != nil {
			return err
		}
		it.values[i] = v
	}
	return nil
}

// Values returns the row most recently produced by Next, one entry per
// requested column, in request order.
func (it *RowIter) Values() []Value {
	return it.values
}

// Err returns the first error encountered, if Next returned false because
// of a decoding failure rather than ordinary end of file.
func (it *RowIter) Err() error {
	return it.err
}
