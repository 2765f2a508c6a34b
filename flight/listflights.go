package flight

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ListFlights returns one FlightInfo per catalog table, in name order.
// Each carries the table schema, a PATH descriptor naming the table and an
// unfiltered ticket.
//
// When criteria carries an expression it is treated as a table name prefix.
func (s *Server) ListFlights(criteria *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	ctx, logger := s.startRequest(stream.Context(), "ListFlights")

	logger.Debug("ListFlights called")

	tables, err := s.visibleTables(ctx)
	if err != nil {
		logger.Error("Failed to list tables", "error", err)
		return status.Errorf(statusCode(err), "failed to list tables: %v", err)
	}

	prefix := string(criteria.GetExpression())
	sent := 0
	for _, tbl := range tables {
		if !strings.HasPrefix(tbl.Name(), prefix) {
			continue
		}

		ticket, err := EncodeTicket(&TicketData{Table: tbl.Name()})
		if err != nil {
			return status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
		}

		info := &flight.FlightInfo{
			Schema: flight.SerializeSchema(tbl.ArrowSchema(), s.allocator),
			FlightDescriptor: &flight.FlightDescriptor{
				Type: flight.DescriptorPATH,
				Path: []string{tbl.Name()},
			},
			Endpoint: []*flight.FlightEndpoint{
				{Ticket: &flight.Ticket{Ticket: ticket}},
			},
			TotalRecords: -1,
			TotalBytes:   -1,
		}

		if err := stream.Send(info); err != nil {
			logger.Error("Failed to send FlightInfo", "table", tbl.Name(), "error", err)
			return status.Errorf(codes.Internal, "failed to send flight info: %v", err)
		}
		sent++
	}

	logger.Debug("ListFlights completed successfully", "tables", sent)
	return nil
}
