package rowselect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/flight"
)

// NewServer registers Flight service handlers on the provided gRPC server.
// This is the main entry point for the rowselect package.
//
// The function:
//  1. Validates the ServerConfig
//  2. Creates Flight service implementation
//  3. Registers it on grpcServer
//
// Returns error if config is invalid (e.g., nil Catalog).
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
//
// For authentication, use ServerOptions() to create a gRPC server with auth interceptors:
//
//	opts := rowselect.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	err := rowselect.NewServer(grpcServer, config)
func NewServer(grpcServer *grpc.Server, config ServerConfig) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := newLogger(config)

	var authorizer auth.TableAuthorizer
	if config.Auth != nil {
		authorizer, _ = config.Auth.(auth.TableAuthorizer)
	}

	flight.RegisterFlightServer(grpcServer, flight.NewServer(config.Catalog, allocator, logger, authorizer))

	logger.Info("Flight server registered",
		"has_auth", config.Auth != nil,
		"has_table_authorizer", authorizer != nil,
		"max_message_size", config.MaxMessageSize,
	)

	return nil
}

// validateConfig checks that required ServerConfig fields are valid.
func validateConfig(config ServerConfig) error {
	if config.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must not be negative, got %d", config.MaxMessageSize)
	}
	return nil
}

// newLogger resolves the logger described by config.
func newLogger(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	if config.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
	}
	return slog.Default()
}

// ServerOptions returns gRPC server options with authentication interceptors.
// Use this when creating a gRPC server if you want authentication enabled.
//
// Example:
//
//	config := rowselect.ServerConfig{
//	    Catalog: catalog,
//	    Auth: rowselect.BearerAuth(validateToken),
//	}
//	opts := rowselect.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	rowselect.NewServer(grpcServer, config)
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
