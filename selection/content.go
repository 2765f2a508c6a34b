package selection

import "strings"

// MatchMode selects how a Content predicate compares cells to its target.
type MatchMode uint8

const (
	// Contains selects cells that contain the target as a substring.
	// An empty target matches every cell.
	Contains MatchMode = iota
	// Equals selects cells that are byte-for-byte equal to the target.
	Equals
)

// String returns the lowercase mode name.
func (m MatchMode) String() string {
	switch m {
	case Contains:
		return "contains"
	case Equals:
		return "equals"
	default:
		return "unknown"
	}
}

func (m MatchMode) match(cell, target string) bool {
	if m == Equals {
		return cell == target
	}
	return strings.Contains(cell, target)
}

// Content selects rows by comparing one column against a target string.
type Content struct {
	column int // -1 when the column name did not resolve
	bits   *Mask
}

// NewContent scans the first column named column and selects the rows whose
// cell matches target under mode. Matching is case-sensitive.
// If no column has that name, no row is selected.
func NewContent(view TableView, column, target string, mode MatchMode) *Content {
	n := view.NumRows()
	c := &Content{column: -1, bits: newMask(n)}

	idx, ok := view.ColumnIndex(column)
	if !ok {
		return c
	}
	c.column = idx

	for i := 0; i < n; i++ {
		if mode.match(view.Cell(i, idx), target) {
			c.bits.set(i)
		}
	}
	return c
}

// NewContains selects rows whose cell in column contains target.
func NewContains(view TableView, column, target string) *Content {
	return NewContent(view, column, target, Contains)
}

// NewEquals selects rows whose cell in column equals target.
func NewEquals(view TableView, column, target string) *Content {
	return NewContent(view, column, target, Equals)
}

// Column returns the resolved column index, or -1 if the name did not resolve.
func (c *Content) Column() int { return c.column }

// RowCount implements Predicate.
func (c *Content) RowCount() int { return c.bits.Len() }

// IsSelected implements Predicate.
func (c *Content) IsSelected(row int) bool { return c.bits.Get(row) }

func (c *Content) mask() *Mask { return c.bits }
