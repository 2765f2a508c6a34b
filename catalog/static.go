package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ErrDuplicateTable is returned when a table name is registered twice.
var ErrDuplicateTable = errors.New("duplicate table")

// StaticCatalog is an in-memory catalog populated by AddTable.
type StaticCatalog struct {
	mu     sync.RWMutex
	tables map[string]Table
}

var _ Catalog = (*StaticCatalog)(nil)

// NewStaticCatalog creates an empty static catalog.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		tables: make(map[string]Table),
	}
}

// AddTable registers t under its name.
func (c *StaticCatalog) AddTable(t Table) error {
	if t == nil || t.Name() == "" {
		return errors.New("catalog: table must have a name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[t.Name()]; ok {
		return fmt.Errorf("catalog: %w: %s", ErrDuplicateTable, t.Name())
	}
	c.tables[t.Name()] = t
	return nil
}

// Tables implements Catalog interface.
func (c *StaticCatalog) Tables(ctx context.Context) ([]Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	result := make([]Table, 0, len(c.tables))
	for _, t := range c.tables {
		result = append(result, t)
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

// Table implements Catalog interface.
func (c *StaticCatalog) Table(ctx context.Context, name string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[name]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return t, nil
}

// StaticTable is an immutable table backed by record batches held in memory.
type StaticTable struct {
	name    string
	comment string
	schema  *arrow.Schema
	batches []arrow.RecordBatch
	scan    ScanFunc
}

var _ Table = (*StaticTable)(nil)

// NewStaticTable creates a table serving the given batches.
// The table retains every batch; call Release when the table is no
// longer served.
func NewStaticTable(name, comment string, schema *arrow.Schema, batches []arrow.RecordBatch) (*StaticTable, error) {
	for i, b := range batches {
		if !b.Schema().Equal(schema) {
			return nil, fmt.Errorf("catalog: table %s: batch %d schema does not match table schema", name, i)
		}
	}
	for _, b := range batches {
		b.Retain()
	}
	return &StaticTable{
		name:    name,
		comment: comment,
		schema:  schema,
		batches: append([]arrow.RecordBatch(nil), batches...),
	}, nil
}

// NewFuncTable creates a table whose rows are produced by scan on every request.
func NewFuncTable(name, comment string, schema *arrow.Schema, scan ScanFunc) *StaticTable {
	return &StaticTable{
		name:    name,
		comment: comment,
		schema:  schema,
		scan:    scan,
	}
}

// Name implements Table interface.
func (t *StaticTable) Name() string {
	return t.name
}

// Comment implements Table interface.
func (t *StaticTable) Comment() string {
	return t.comment
}

// ArrowSchema implements Table interface.
func (t *StaticTable) ArrowSchema() *arrow.Schema {
	return t.schema
}

// Scan implements Table interface.
func (t *StaticTable) Scan(ctx context.Context) (array.RecordReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.scan != nil {
		return t.scan(ctx)
	}
	return array.NewRecordReader(t.schema, t.batches)
}

// Release drops the references taken by NewStaticTable.
func (t *StaticTable) Release() {
	for _, b := range t.batches {
		b.Release()
	}
	t.batches = nil
}
