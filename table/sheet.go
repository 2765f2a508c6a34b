package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowselect/selection"
)

// ErrRowIndexOutOfRange is returned when a row index is outside the table.
var ErrRowIndexOutOfRange = errors.New("row index out of range")

// Sheet is an in-memory table of string cells.
// Not goroutine-safe: predicates over a Sheet must be built while no
// goroutine mutates it.
type Sheet struct {
	names     []string
	rows      [][]string
	selection selection.Predicate
}

// NewSheet creates an empty sheet with no columns.
func NewSheet() *Sheet {
	return &Sheet{}
}

// SetColumnNames replaces the column names. Existing rows are kept.
// Duplicate names are allowed; lookups resolve to the first one.
func (s *Sheet) SetColumnNames(names ...string) {
	s.names = append([]string(nil), names...)
}

// AddRow appends a row. The cells are copied.
func (s *Sheet) AddRow(cells ...string) {
	s.rows = append(s.rows, append([]string(nil), cells...))
}

// NumRows implements selection.TableView.
func (s *Sheet) NumRows() int { return len(s.rows) }

// NumColumns returns the number of named columns.
func (s *Sheet) NumColumns() int { return len(s.names) }

// ColumnNames returns a copy of the column names.
func (s *Sheet) ColumnNames() []string {
	return append([]string(nil), s.names...)
}

// ColumnIndex implements selection.TableView with first-match semantics.
func (s *Sheet) ColumnIndex(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Cell implements selection.TableView.
// A row shorter than col reads as an empty cell.
func (s *Sheet) Cell(row, col int) string {
	r := s.rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Row returns a copy of the cells of row i.
func (s *Sheet) Row(i int) ([]string, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("%w: %d (rows: %d)", ErrRowIndexOutOfRange, i, len(s.rows))
	}
	return append([]string(nil), s.rows[i]...), nil
}

// SetSelection attaches p as the sheet's selection. nil selects every row.
func (s *Sheet) SetSelection(p selection.Predicate) {
	s.selection = p
}

// Selection returns the attached predicate, or nil.
func (s *Sheet) Selection() selection.Predicate {
	return s.selection
}

// PrintSelection writes every selected row to w in table order, cells
// separated by a single space and each row terminated by a newline.
// Without a selection all rows are written.
func (s *Sheet) PrintSelection(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, row := range s.rows {
		if s.selection != nil && !s.selection.IsSelected(i) {
			continue
		}
		if _, err := bw.WriteString(strings.Join(row, " ")); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Schema returns an Arrow schema with one utf8 field per column.
func (s *Sheet) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(s.names))
	for i, n := range s.names {
		fields[i] = arrow.Field{Name: n, Type: arrow.BinaryTypes.String}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecord copies the sheet into an Arrow record batch.
// Caller MUST call Release() on the result.
func (s *Sheet) ToRecord(mem memory.Allocator) (arrow.RecordBatch, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := array.NewRecordBuilder(mem, s.Schema())
	defer b.Release()

	for col := range s.names {
		fb, ok := b.Field(col).(*array.StringBuilder)
		if !ok {
			return nil, fmt.Errorf("table: column %d: unexpected builder %T", col, b.Field(col))
		}
		fb.Reserve(len(s.rows))
		for row := range s.rows {
			fb.Append(s.Cell(row, col))
		}
	}

	return b.NewRecordBatch(), nil
}
