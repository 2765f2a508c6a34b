package flight

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowselect/filter"
	"github.com/hugr-lab/rowselect/internal/recovery"
	"github.com/hugr-lab/rowselect/selection"
	"github.com/hugr-lab/rowselect/table"
)

// DoGet streams the rows of a table selected by the ticket's filter.
//
// The ticket must be encoded using EncodeTicket.
// The handler:
//  1. Decodes the ticket to get the table, filter and projection
//  2. Looks up the table in the catalog and scans it
//  3. For every record batch, builds the filter predicate over the batch and
//     keeps the selected rows
//  4. Projects the requested columns
//  5. Streams the result using Arrow IPC format
//  6. Respects context cancellation
func (s *Server) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx, logger := s.startRequest(stream.Context(), "DoGet")

	logger.Debug("DoGet called", "ticket_size", len(ticket.GetTicket()))

	td, err := DecodeTicket(ticket.GetTicket())
	if err != nil {
		logger.Error("Failed to decode ticket", "error", err)
		return status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
	}

	logger = logger.With("table", td.Table)
	logger.Debug("DoGet request",
		"has_filter", td.Filter != nil,
		"columns", td.Columns,
	)

	tbl, err := s.lookupTable(ctx, td.Table)
	if err != nil {
		return err
	}

	fullSchema := tbl.ArrowSchema()
	outSchema, err := ProjectSchema(fullSchema, td.Columns)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid projection: %v", err)
	}

	reader, err := recovery.RecoverToValue(logger, "Scan", func() (array.RecordReader, error) {
		return tbl.Scan(ctx)
	})
	if err != nil {
		logger.Error("Table scan failed", "error", err)
		return status.Errorf(statusCode(err), "table scan failed: %v", err)
	}
	if reader == nil {
		logger.Error("Table scan returned nil reader")
		return status.Errorf(codes.Internal, "table %s scan returned nil reader", td.Table)
	}
	defer reader.Release()

	if !fullSchema.Equal(reader.Schema()) {
		logger.Error("RecordReader schema does not match table schema",
			"table_schema_fields", fullSchema.NumFields(),
			"reader_schema_fields", reader.Schema().NumFields(),
		)
		return status.Errorf(codes.Internal,
			"schema mismatch: table has %d fields, reader has %d fields",
			fullSchema.NumFields(), reader.Schema().NumFields())
	}

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(outSchema), ipc.WithAllocator(s.allocator))
	defer writer.Close()

	var (
		batchCount   int
		scannedRows  int64
		selectedRows int64
	)

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			logger.Debug("DoGet cancelled by client",
				"batches_sent", batchCount,
				"rows_sent", selectedRows,
			)
			return status.Error(statusCode(err), "request cancelled")
		}

		record := reader.RecordBatch()
		batchCount++
		scannedRows += record.NumRows()

		out, err := s.selectRows(ctx, logger, record, td)
		if err != nil {
			logger.Error("Failed to select rows", "batch", batchCount, "error", err)
			return status.Errorf(statusCode(err), "batch %d: %v", batchCount, err)
		}
		selectedRows += out.NumRows()

		err = writer.Write(out)
		out.Release()
		if err != nil {
			logger.Error("Failed to write record batch", "batch", batchCount, "error", err)
			return status.Errorf(codes.Internal, "failed to write batch %d: %v", batchCount, err)
		}

		logger.Debug("Sent record batch",
			"batch", batchCount,
			"rows_in_batch", record.NumRows(),
			"rows_selected", out.NumRows(),
		)
	}

	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("RecordReader error during iteration", "batch", batchCount, "error", err)
		return status.Errorf(statusCode(err), "scan error after batch %d: %v", batchCount, err)
	}

	logger.Debug("DoGet completed successfully",
		"batches_sent", batchCount,
		"rows_scanned", scannedRows,
		"rows_selected", selectedRows,
	)
	return nil
}

// selectRows applies the ticket's filter and projection to one batch.
// Caller MUST call Release() on the result.
func (s *Server) selectRows(ctx context.Context, logger *slog.Logger, record arrow.RecordBatch, td *TicketData) (arrow.RecordBatch, error) {
	selected := record
	if td.Filter != nil {
		p, err := recovery.RecoverToValue(logger, "BuildPredicate", func() (selection.Predicate, error) {
			return filter.Build(table.NewRecordView(record), td.Filter)
		})
		if err != nil {
			return nil, err
		}

		selected, err = table.Filter(ctx, record, p, s.allocator)
		if err != nil {
			return nil, err
		}
		defer selected.Release()
	}

	if len(td.Columns) == 0 {
		selected.Retain()
		return selected, nil
	}
	return table.Project(selected, td.Columns)
}
