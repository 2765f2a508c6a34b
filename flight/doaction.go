package flight

import (
	"context"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowselect/filter"
	"github.com/hugr-lab/rowselect/internal/msgpack"
	"github.com/hugr-lab/rowselect/internal/serialize"
)

// Action types understood by DoAction.
const (
	// ActionListTables returns the table listing as a ZStandard-compressed
	// Arrow IPC stream (see serialize.TablesSchema).
	ActionListTables = "list_tables"
	// ActionEncodeTicket turns a JSON filter request into a ticket.
	// The body is MessagePack: {"table": ..., "filter": <JSON>, "columns": [...]}.
	ActionEncodeTicket = "encode_ticket"
)

var actionTypes = []*flight.ActionType{
	{Type: ActionListTables, Description: "List tables with their schemas"},
	{Type: ActionEncodeTicket, Description: "Build a filtered ticket from a JSON filter expression"},
}

// ListActions advertises the supported actions.
func (s *Server) ListActions(_ *flight.Empty, stream flight.FlightService_ListActionsServer) error {
	for _, a := range actionTypes {
		if err := stream.Send(a); err != nil {
			return status.Errorf(codes.Internal, "failed to send action type: %v", err)
		}
	}
	return nil
}

// DoAction executes custom actions.
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx, logger := s.startRequest(stream.Context(), "DoAction")

	logger.Debug("DoAction called",
		"type", action.GetType(),
		"body_size", len(action.GetBody()),
	)

	switch action.GetType() {
	case ActionListTables:
		return s.handleListTables(ctx, logger, stream)
	case ActionEncodeTicket:
		return s.handleEncodeTicket(ctx, action, stream)
	default:
		return status.Errorf(codes.Unimplemented, "unknown action type: %s", action.GetType())
	}
}

func (s *Server) handleListTables(ctx context.Context, logger *slog.Logger, stream flight.FlightService_DoActionServer) error {
	tables, err := s.visibleTables(ctx)
	if err != nil {
		logger.Error("Failed to list tables", "error", err)
		return status.Errorf(statusCode(err), "failed to list tables: %v", err)
	}

	data, err := serialize.SerializeTables(ctx, tableList(tables), s.allocator)
	if err != nil {
		logger.Error("Failed to serialize tables", "error", err)
		return status.Errorf(statusCode(err), "failed to serialize tables: %v", err)
	}

	compressed, err := serialize.Compress(data)
	if err != nil {
		logger.Error("Failed to compress tables", "error", err)
		return status.Errorf(codes.Internal, "failed to compress tables: %v", err)
	}

	logger.Debug("Tables serialized",
		"uncompressed_bytes", len(data),
		"compressed_bytes", len(compressed),
	)

	if err := stream.Send(&flight.Result{Body: compressed}); err != nil {
		logger.Error("Failed to send tables", "error", err)
		return status.Errorf(codes.Internal, "failed to send result: %v", err)
	}
	return nil
}

func (s *Server) handleEncodeTicket(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	var params struct {
		Table   string   `msgpack:"table"`
		Filter  string   `msgpack:"filter"`
		Columns []string `msgpack:"columns"`
	}
	if err := msgpack.Decode(action.GetBody(), &params); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid parameters: %v", err)
	}

	expr, err := filter.Parse([]byte(params.Filter))
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid filter: %v", err)
	}

	td := &TicketData{Table: params.Table, Filter: expr, Columns: params.Columns}
	tbl, err := s.lookupTable(ctx, td.Table)
	if err != nil {
		return err
	}
	if _, err := ProjectSchema(tbl.ArrowSchema(), td.Columns); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid projection: %v", err)
	}

	ticket, err := EncodeTicket(td)
	if err != nil {
		return status.Errorf(statusCode(err), "failed to encode ticket: %v", err)
	}

	if err := stream.Send(&flight.Result{Body: ticket}); err != nil {
		return status.Errorf(codes.Internal, "failed to send result: %v", err)
	}
	return nil
}
