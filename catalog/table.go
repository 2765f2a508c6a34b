package catalog

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Table is a named source of record batches sharing one schema.
// Implementations MUST be goroutine-safe.
type Table interface {
	// Name is the non-empty key the table is served under.
	Name() string

	// Comment is free-form documentation; may be empty.
	Comment() string

	// ArrowSchema is the schema every scanned batch carries.
	ArrowSchema() *arrow.Schema

	// Scan opens a fresh reader over all rows. The reader schema MUST equal
	// ArrowSchema(). Caller MUST call Release() on the reader.
	Scan(ctx context.Context) (array.RecordReader, error)
}

// ScanFunc produces the rows of a table on demand.
type ScanFunc func(ctx context.Context) (array.RecordReader, error)
