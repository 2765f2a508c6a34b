// Package rowselect serves tables over Apache Arrow Flight, returning only the
// rows selected by a predicate carried in the request ticket.
//
// Predicates are built from content matches on named string columns
// (contains, equals) combined with NOT, AND and OR. The core lives in
// package selection; package filter gives predicates a serializable form.
// This package wires a catalog of tables into a gRPC server.
//
// # Quick Start
//
//	sheet := table.NewSheet()
//	sheet.SetColumnNames("Food")
//	sheet.AddRow("apples")
//	sheet.AddRow("apple pie")
//
//	cat, _ := rowselect.NewCatalogBuilder().
//	    Sheet("foods", "Things to eat", sheet).
//	    Build()
//
//	grpcServer := grpc.NewServer()
//	rowselect.NewServer(grpcServer, rowselect.ServerConfig{Catalog: cat})
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
//
// Clients request rows with a ticket:
//
//	ticket, _ := rowselect.EncodeTicket(&rowselect.TicketData{
//	    Table:  "foods",
//	    Filter: filter.And(filter.Contains("Food", "apple"), filter.Not(filter.Contains("Food", "s"))),
//	})
//	stream, _ := client.DoGet(ctx, &flight.Ticket{Ticket: ticket})
//
// # Server Lifecycle
//
// The package registers Flight service handlers on a user-provided grpc.Server
// but does NOT manage server lifecycle (start/stop/listen). This gives users
// full control over:
//   - TLS configuration via grpc.Creds()
//   - Server options and interceptors
//   - Graceful shutdown via grpcServer.GracefulStop()
//
// # Authentication
//
// Bearer token authentication is supported via the BearerAuth helper.
// TableAllowList restricts each identity to a set of tables:
//
//	tokens := rowselect.BearerAuth(func(token string) (string, error) {
//	    if token == "secret-api-key" {
//	        return "user1", nil
//	    }
//	    return "", rowselect.ErrUnauthorized
//	})
//
//	rowselect.NewServer(grpcServer, rowselect.ServerConfig{
//	    Catalog: cat,
//	    Auth:    rowselect.TableAllowList(tokens, map[string][]string{"user1": {"foods"}}),
//	})
//
// # Logging
//
// The server logs through ServerConfig.Logger, or slog.Default() if unset.
// Setting only ServerConfig.LogLevel creates a text logger at that level.
//
// # Memory Management
//
// Arrow uses manual reference counting. Callers MUST call Release() on:
//   - RecordReaders returned by scan functions
//   - Records and Arrays created during processing
//
// Use defer record.Release() immediately after creation to ensure cleanup.
package rowselect
