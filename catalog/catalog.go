// Package catalog provides the set of tables a Flight server exposes.
//
// A catalog is a flat namespace of named tables. Each table has a fixed
// Arrow schema and produces its rows as a stream of record batches, which
// the Flight service filters with selection predicates.
package catalog

import (
	"context"
)

// Catalog looks tables up by name. Implementations MUST be goroutine-safe
// and honour context cancellation.
type Catalog interface {
	// Tables lists every table ordered by name. An empty catalog returns
	// an empty slice.
	Tables(ctx context.Context) ([]Table, error)

	// Table resolves name. A missing table is (nil, nil); err is reserved
	// for lookup failures.
	Table(ctx context.Context, name string) (Table, error)
}
