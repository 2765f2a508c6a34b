package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetFlightInfo returns schema metadata and ticket for a table query.
//
// Two descriptor forms are accepted:
//   - PATH with a single element, the table name: all rows and columns
//   - CMD holding a ticket produced by EncodeTicket: the schema is projected
//     to the ticket's columns and the same ticket is returned
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx, logger := s.startRequest(ctx, "GetFlightInfo")

	logger.Debug("GetFlightInfo called",
		"type", desc.GetType(),
		"path_length", len(desc.GetPath()),
	)

	var (
		td     *TicketData
		ticket []byte
		err    error
	)

	switch desc.GetType() {
	case flight.DescriptorPATH:
		path := desc.GetPath()
		if len(path) != 1 {
			return nil, status.Error(codes.InvalidArgument, "path must contain exactly 1 element: [table_name]")
		}
		td = &TicketData{Table: path[0]}
		ticket, err = EncodeTicket(td)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid table name: %v", err)
		}
	case flight.DescriptorCMD:
		ticket = desc.GetCmd()
		td, err = DecodeTicket(ticket)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
		}
	default:
		return nil, status.Error(codes.InvalidArgument, "descriptor must be PATH or CMD type")
	}

	tbl, err := s.lookupTable(ctx, td.Table)
	if err != nil {
		return nil, err
	}

	arrowSchema, err := ProjectSchema(tbl.ArrowSchema(), td.Columns)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid projection: %v", err)
	}

	logger.Debug("GetFlightInfo successful",
		"table", td.Table,
		"num_fields", arrowSchema.NumFields(),
	)

	return &flight.FlightInfo{
		Schema:           flight.SerializeSchema(arrowSchema, s.allocator),
		FlightDescriptor: desc,
		Endpoint: []*flight.FlightEndpoint{
			{
				Ticket: &flight.Ticket{
					Ticket: ticket,
				},
			},
		},
		TotalRecords: -1, // Unknown until scan
		TotalBytes:   -1, // Unknown until scan
	}, nil
}
