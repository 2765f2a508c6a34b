package flight

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowselect/filter"
)

// ErrInvalidTicket is returned when a ticket cannot be decoded or is incomplete.
var ErrInvalidTicket = errors.New("invalid ticket")

// statusCode maps an error to the gRPC code reported to clients.
func statusCode(err error) codes.Code {
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, ErrInvalidTicket), errors.Is(err, filter.ErrInvalidExpression):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
