package table

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowselect/selection"
)

// Filter returns a new record batch with the rows of rec selected by p,
// in their original order.
// p MUST have been evaluated over rec (same row count); otherwise a
// *selection.DimensionMismatchError is returned.
// Caller MUST call Release() on the result.
func Filter(ctx context.Context, rec arrow.RecordBatch, p selection.Predicate, mem memory.Allocator) (arrow.RecordBatch, error) {
	if int64(p.RowCount()) != rec.NumRows() {
		return nil, &selection.DimensionMismatchError{
			Op:     "filter",
			First:  int(rec.NumRows()),
			Second: p.RowCount(),
		}
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	mask := selection.MaskOf(p).Boolean(mem)
	defer mask.Release()

	out, err := compute.FilterRecordBatch(compute.WithAllocator(ctx, mem), rec, mask, compute.DefaultFilterOptions())
	if err != nil {
		return nil, fmt.Errorf("table: filter record batch: %w", err)
	}
	return out, nil
}

// Project returns a record batch with only the named columns, in the order
// given. Each name resolves to its first matching field.
// Caller MUST call Release() on the result.
func Project(rec arrow.RecordBatch, columns []string) (arrow.RecordBatch, error) {
	schema := rec.Schema()
	fields := make([]arrow.Field, len(columns))
	cols := make([]arrow.Array, len(columns))
	for i, name := range columns {
		idx := FindColumn(schema, name)
		if idx < 0 {
			return nil, fmt.Errorf("table: column not found: %s", name)
		}
		fields[i] = schema.Field(idx)
		cols[i] = rec.Column(idx)
	}
	md := schema.Metadata()
	return array.NewRecordBatch(arrow.NewSchema(fields, &md), cols, rec.NumRows()), nil
}
