package selection

import (
	"errors"
	"fmt"
)

// TableView is the read-only table surface predicates are evaluated against.
type TableView interface {
	// NumRows returns the number of rows.
	NumRows() int

	// ColumnIndex resolves a column name to its position.
	// With duplicate names it MUST return the first matching column.
	// Returns (-1, false) if no column has the name.
	ColumnIndex(name string) (int, bool)

	// Cell returns the content of the cell at (row, col).
	// Called only with 0 <= row < NumRows() and a col returned by ColumnIndex.
	Cell(row, col int) string
}

// Predicate is a row selection fixed at construction time.
// Implementations MUST be immutable once constructed.
type Predicate interface {
	// RowCount returns the number of rows the predicate was evaluated over.
	RowCount() int

	// IsSelected reports whether row is selected.
	// Returns false for rows outside [0, RowCount()).
	IsSelected(row int) bool
}

// ErrDimensionMismatch is returned when combining predicates evaluated over
// different row counts.
var ErrDimensionMismatch = errors.New("predicate row counts differ")

// DimensionMismatchError carries the row counts of the mismatched predicates.
type DimensionMismatchError struct {
	Op     string
	First  int
	Second int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %v: %d vs %d", e.Op, ErrDimensionMismatch, e.First, e.Second)
}

// Is makes errors.Is(err, ErrDimensionMismatch) report true.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// masked is implemented by predicates that expose their precomputed mask.
type masked interface {
	mask() *Mask
}

// MaskOf returns the selection mask of p.
// Predicates from this package share their own (read-only) mask; other
// implementations are copied through IsSelected. A negative RowCount is
// treated as zero.
func MaskOf(p Predicate) *Mask {
	if m, ok := p.(masked); ok {
		return m.mask()
	}
	n := max(p.RowCount(), 0)
	m := newMask(n)
	for i := 0; i < n; i++ {
		if p.IsSelected(i) {
			m.set(i)
		}
	}
	return m
}

// Rows returns the selected row indices of p in ascending order.
func Rows(p Predicate) []int {
	return MaskOf(p).Indices()
}

// Count returns the number of rows selected by p.
func Count(p Predicate) int {
	return MaskOf(p).Count()
}
