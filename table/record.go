package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// RecordView exposes an Arrow record batch as a selection.TableView.
// The view does not retain the batch; callers keep it alive while in use.
type RecordView struct {
	rec arrow.RecordBatch
}

// NewRecordView wraps rec.
func NewRecordView(rec arrow.RecordBatch) *RecordView {
	return &RecordView{rec: rec}
}

// NumRows implements selection.TableView.
func (v *RecordView) NumRows() int { return int(v.rec.NumRows()) }

// ColumnIndex implements selection.TableView with first-match semantics.
func (v *RecordView) ColumnIndex(name string) (int, bool) {
	idx := FindColumn(v.rec.Schema(), name)
	return idx, idx >= 0
}

// Cell implements selection.TableView.
// Null cells read as "". Non-string columns are rendered with ValueStr.
func (v *RecordView) Cell(row, col int) string {
	arr := v.rec.Column(col)
	if arr.IsNull(row) {
		return ""
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(row)
	case *array.LargeString:
		return a.Value(row)
	case *array.Binary:
		return string(a.Value(row))
	default:
		return arr.ValueStr(row)
	}
}

// FindColumn returns the index of the first field named name.
// Returns -1 if schema is nil or has no such field.
func FindColumn(schema *arrow.Schema, name string) int {
	if schema == nil {
		return -1
	}
	for i := 0; i < schema.NumFields(); i++ {
		if schema.Field(i).Name == name {
			return i
		}
	}
	return -1
}
