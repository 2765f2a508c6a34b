package rowselect

import (
	"errors"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/catalog"
)

// ServerConfig contains configuration for the Flight server.
type ServerConfig struct {
	// Catalog provides the tables to serve.
	// REQUIRED: MUST NOT be nil.
	Catalog catalog.Catalog

	// Auth provides authentication logic. If it also implements
	// auth.TableAuthorizer, table access is checked per request.
	// OPTIONAL: If nil, no authentication (all requests allowed).
	Auth auth.Authenticator

	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses the Logger as is.
	// If Logger is nil and LogLevel is set, a text logger writing to stderr
	// is created at this level. If Logger is also provided, LogLevel is
	// ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	// Recommended: 16MB for large Arrow batches.
	MaxMessageSize int
}

// Standard errors returned by rowselect package.
var (
	// ErrUnauthorized indicates authentication failed.
	// Return this from BearerAuth validation functions for invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidConfig indicates ServerConfig validation failed.
	ErrInvalidConfig = errors.New("invalid server config")

	// ErrCatalogBuilt indicates a CatalogBuilder was used after Build.
	ErrCatalogBuilt = errors.New("catalog already built")
)
