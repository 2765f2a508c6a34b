package flight

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/rowselect/table"
)

// ProjectSchema returns a projected schema containing only the specified columns.
// If columns is nil or empty, returns the full schema unchanged.
// Column order in the returned schema matches the order in columns slice.
// Each name resolves to its first matching field; unknown names are an error.
// Original schema metadata is preserved in the projected schema.
func ProjectSchema(schema *arrow.Schema, columns []string) (*arrow.Schema, error) {
	if len(columns) == 0 {
		return schema, nil
	}

	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		idx := table.FindColumn(schema, col)
		if idx < 0 {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidTicket, col)
		}
		fields = append(fields, schema.Field(idx))
	}

	meta := schema.Metadata()
	return arrow.NewSchema(fields, &meta), nil
}
