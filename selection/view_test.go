package selection

import "testing"

// gridView is a minimal row-major TableView for tests.
type gridView struct {
	names []string
	rows  [][]string
}

func newGridView(names []string, rows ...[]string) *gridView {
	return &gridView{names: names, rows: rows}
}

// column builds a single-column view.
func column(name string, cells ...string) *gridView {
	v := &gridView{names: []string{name}}
	for _, c := range cells {
		v.rows = append(v.rows, []string{c})
	}
	return v
}

func (v *gridView) NumRows() int { return len(v.rows) }

func (v *gridView) ColumnIndex(name string) (int, bool) {
	for i, n := range v.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

func (v *gridView) Cell(row, col int) string { return v.rows[row][col] }

// countingView records every cell access.
type countingView struct {
	*gridView
	reads int
}

func (v *countingView) Cell(row, col int) string {
	v.reads++
	return v.gridView.Cell(row, col)
}

// fixedPredicate is a Predicate implemented outside this package's types.
type fixedPredicate []bool

func (p fixedPredicate) RowCount() int { return len(p) }

func (p fixedPredicate) IsSelected(row int) bool {
	if row < 0 || row >= len(p) {
		return false
	}
	return p[row]
}

func mustAnd(t testing.TB, a, b Predicate) *And {
	t.Helper()
	p, err := NewAnd(a, b)
	if err != nil {
		t.Fatalf("NewAnd failed: %v", err)
	}
	return p
}

func mustOr(t testing.TB, a, b Predicate) *Or {
	t.Helper()
	p, err := NewOr(a, b)
	if err != nil {
		t.Fatalf("NewOr failed: %v", err)
	}
	return p
}

func selections(p Predicate) []bool {
	out := make([]bool, p.RowCount())
	for i := range out {
		out[i] = p.IsSelected(i)
	}
	return out
}

var foods = []string{"apple", "apples", "Snapple", "orange", "watermelon", "hamburger", "fries", "salad"}
