// Package serialize provides the binary encodings used by the Flight service:
// ZStandard compression and the Arrow IPC table listing.
package serialize

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowselect/catalog"
)

// TablesSchema is the schema of the table listing produced by SerializeTables.
// table_schema holds each table's Arrow schema in Flight serialized form.
var TablesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "table_name", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "comment", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "num_columns", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
	{Name: "table_schema", Type: arrow.BinaryTypes.Binary, Nullable: false},
}, nil)

// SerializeTables writes one row per catalog table as an Arrow IPC stream.
func SerializeTables(ctx context.Context, cat catalog.Catalog, allocator memory.Allocator) ([]byte, error) {
	tables, err := cat.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}

	builder := array.NewRecordBuilder(allocator, TablesSchema)
	defer builder.Release()

	nameBuilder := builder.Field(0).(*array.StringBuilder)
	commentBuilder := builder.Field(1).(*array.StringBuilder)
	columnsBuilder := builder.Field(2).(*array.Int32Builder)
	schemaBuilder := builder.Field(3).(*array.BinaryBuilder)

	for _, t := range tables {
		schema := t.ArrowSchema()
		if schema == nil {
			return nil, fmt.Errorf("table %s has nil Arrow schema", t.Name())
		}

		nameBuilder.Append(t.Name())
		if c := t.Comment(); c != "" {
			commentBuilder.Append(c)
		} else {
			commentBuilder.AppendNull()
		}
		columnsBuilder.Append(int32(schema.NumFields()))
		schemaBuilder.Append(flight.SerializeSchema(schema, allocator))
	}

	record := builder.NewRecordBatch()
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(TablesSchema), ipc.WithAllocator(allocator))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeTables reads a listing written by SerializeTables.
// Caller MUST call Release() on the result.
func DeserializeTables(data []byte, allocator memory.Allocator) (arrow.RecordBatch, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(allocator), ipc.WithSchema(TablesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC reader: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read IPC record: %w", err)
		}
		return nil, fmt.Errorf("table listing is empty")
	}
	rec := reader.RecordBatch()
	rec.Retain()
	return rec, nil
}
