package rowselect

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowselect/catalog"
	"github.com/hugr-lab/rowselect/table"
)

// CatalogBuilder provides a fluent API for constructing a static catalog.
// Errors are deferred and returned by Build.
//
// Example:
//
//	cat, err := rowselect.NewCatalogBuilder().
//	    Sheet("foods", "Things to eat", sheet).
//	    Table(rowselect.TableDef{Name: "users", Schema: schema, ScanFunc: scan}).
//	    Build()
type CatalogBuilder struct {
	allocator memory.Allocator
	tables    []catalog.Table
	err       error
	built     bool
}

// TableDef defines a table whose rows are produced by a scan function.
type TableDef struct {
	Name     string
	Comment  string
	Schema   *arrow.Schema
	ScanFunc catalog.ScanFunc
}

// NewCatalogBuilder creates a new catalog builder.
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		allocator: memory.DefaultAllocator,
	}
}

// Allocator sets the allocator used to materialize sheets.
func (b *CatalogBuilder) Allocator(mem memory.Allocator) *CatalogBuilder {
	if mem != nil {
		b.allocator = mem
	}
	return b
}

// Table adds a table backed by a scan function.
func (b *CatalogBuilder) Table(def TableDef) *CatalogBuilder {
	if b.err != nil {
		return b
	}
	if err := validateTableDef(def.Name, def.Schema); err != nil {
		b.err = err
		return b
	}
	if def.ScanFunc == nil {
		b.err = fmt.Errorf("table %q: scan function is required", def.Name)
		return b
	}
	b.tables = append(b.tables, catalog.NewFuncTable(def.Name, def.Comment, def.Schema, def.ScanFunc))
	return b
}

// Sheet adds a table holding a snapshot of sheet's current rows.
// Later changes to sheet are not visible through the catalog.
func (b *CatalogBuilder) Sheet(name, comment string, sheet *table.Sheet) *CatalogBuilder {
	if b.err != nil {
		return b
	}
	if sheet == nil {
		b.err = fmt.Errorf("table %q: sheet is required", name)
		return b
	}

	rec, err := sheet.ToRecord(b.allocator)
	if err != nil {
		b.err = fmt.Errorf("table %q: %w", name, err)
		return b
	}
	defer rec.Release()

	return b.Records(name, comment, rec.Schema(), rec)
}

// Records adds a table serving the given record batches.
// The table retains the batches; the caller keeps its own references.
func (b *CatalogBuilder) Records(name, comment string, schema *arrow.Schema, batches ...arrow.RecordBatch) *CatalogBuilder {
	if b.err != nil {
		return b
	}
	if err := validateTableDef(name, schema); err != nil {
		b.err = err
		return b
	}

	t, err := catalog.NewStaticTable(name, comment, schema, batches)
	if err != nil {
		b.err = err
		return b
	}
	b.tables = append(b.tables, t)
	return b
}

// Build creates the catalog from the accumulated definitions.
// Returns the first error recorded by a previous call.
// A builder can only be built once.
func (b *CatalogBuilder) Build() (*catalog.StaticCatalog, error) {
	if b.built {
		return nil, ErrCatalogBuilt
	}
	b.built = true

	if b.err != nil {
		b.releaseTables()
		return nil, b.err
	}

	cat := catalog.NewStaticCatalog()
	for _, t := range b.tables {
		if err := cat.AddTable(t); err != nil {
			b.releaseTables()
			return nil, err
		}
	}
	return cat, nil
}

func (b *CatalogBuilder) releaseTables() {
	for _, t := range b.tables {
		if st, ok := t.(*catalog.StaticTable); ok {
			st.Release()
		}
	}
	b.tables = nil
}

func validateTableDef(name string, schema *arrow.Schema) error {
	if name == "" {
		return errors.New("table name is required")
	}
	if schema == nil {
		return fmt.Errorf("table %q: schema is required", name)
	}
	return nil
}
