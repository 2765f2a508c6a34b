// Package selection computes which rows of a table satisfy a boolean predicate.
//
// Predicates are built bottom-up from content matches and logical composites:
//
//	apple := selection.NewContains(view, "Food", "apple")
//	noS := selection.NewNot(selection.NewContains(view, "Food", "s"))
//	both, err := selection.NewAnd(apple, noS)
//	if err != nil {
//	    return err // children disagree on row count
//	}
//	for _, row := range selection.Rows(both) {
//	    fmt.Println(view.Cell(row, 0))
//	}
//
// # Evaluation
//
// Every predicate evaluates eagerly: the constructor scans the table (or the
// children's masks) once and stores a bit-packed Mask. IsSelected is a lookup
// afterwards and never touches the table again. Composites do not keep their
// children, so a tree can be dropped piecewise once its root is built.
//
// # Column Resolution
//
// Content predicates resolve the column name through TableView.ColumnIndex,
// which must return the first column carrying that name. Tables may contain
// duplicate column names; later duplicates are never consulted.
//
// A column that does not resolve is not an error. The predicate selects
// nothing, which keeps it composable under Not/And/Or.
//
// # Row Counts
//
// And and Or require both children to cover the same number of rows and
// return ErrDimensionMismatch otherwise. IsSelected returns false for any row
// outside [0, RowCount()).
package selection
