package flight

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/catalog"
	"github.com/hugr-lab/rowselect/internal/recovery"
)

// authorize checks table access for the request identity.
func (s *Server) authorize(ctx context.Context, table string) error {
	if s.authorizer == nil {
		return nil
	}
	if err := s.authorizer.AuthorizeTable(ctx, table); err != nil {
		s.logger.Debug("Table access denied",
			"table", table,
			"identity", auth.IdentityFromContext(ctx),
			"error", err,
		)
		if errors.Is(err, auth.ErrUnauthenticated) {
			return status.Errorf(codes.Unauthenticated, "access to table %s requires authentication", table)
		}
		return status.Errorf(codes.PermissionDenied, "access to table %s denied", table)
	}
	return nil
}

// lookupTable authorizes and resolves a table, mapping failures to gRPC status.
func (s *Server) lookupTable(ctx context.Context, name string) (catalog.Table, error) {
	if err := s.authorize(ctx, name); err != nil {
		return nil, err
	}

	var tbl catalog.Table
	err := recovery.RecoverToError(s.logger, "Table", func() (err error) {
		tbl, err = s.catalog.Table(ctx, name)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to get table from catalog", "table", name, "error", err)
		return nil, status.Errorf(statusCode(err), "failed to get table: %v", err)
	}
	if tbl == nil {
		return nil, status.Errorf(codes.NotFound, "table not found: %s", name)
	}
	if tbl.ArrowSchema() == nil {
		s.logger.Error("Table returned nil Arrow schema", "table", name)
		return nil, status.Errorf(codes.Internal, "table %s has nil Arrow schema", name)
	}
	return tbl, nil
}

// visibleTables lists the tables the request identity may read.
func (s *Server) visibleTables(ctx context.Context) ([]catalog.Table, error) {
	var tables []catalog.Table
	err := recovery.RecoverToError(s.logger, "Tables", func() (err error) {
		tables, err = s.catalog.Tables(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.authorizer == nil {
		return tables, nil
	}

	visible := tables[:0:0]
	for _, t := range tables {
		if s.authorizer.AuthorizeTable(ctx, t.Name()) == nil {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// tableList is a read-only catalog over an already resolved table slice.
type tableList []catalog.Table

func (l tableList) Tables(ctx context.Context) ([]catalog.Table, error) {
	return l, nil
}

func (l tableList) Table(ctx context.Context, name string) (catalog.Table, error) {
	for _, t := range l {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, nil
}
