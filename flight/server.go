// Package flight provides Flight RPC handlers that serve catalog tables
// filtered by selection predicates.
package flight

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/catalog"
)

// Server implements the Flight service handlers.
// Embeds BaseFlightServer for forward compatibility with protocol changes.
type Server struct {
	flight.BaseFlightServer

	catalog    catalog.Catalog
	allocator  memory.Allocator
	logger     *slog.Logger
	authorizer auth.TableAuthorizer
}

// NewServer creates a new Flight server with the given catalog and allocator.
// The logger is used for internal logging of errors and important events.
// Nil allocator and logger fall back to the Arrow and slog defaults.
// A nil authorizer allows every table.
func NewServer(cat catalog.Catalog, allocator memory.Allocator, logger *slog.Logger, authorizer auth.TableAuthorizer) *Server {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog:    cat,
		allocator:  allocator,
		logger:     logger,
		authorizer: authorizer,
	}
}

// RegisterFlightServer registers the Flight service on the provided gRPC server.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
