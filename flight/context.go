package flight

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/metadata"

	"github.com/hugr-lab/rowselect/auth"
)

// Metadata header keys for request correlation.
const (
	HeaderTraceID   = "rowselect-trace-id"
	HeaderSessionID = "rowselect-session-id"
)

type requestMetaKey struct{}

// RequestMeta holds the correlation ids sent by the client.
type RequestMeta struct {
	TraceID   string
	SessionID string
}

// RequestMetaFromContext returns the ids recorded for the current request.
// The zero value is returned outside a Flight handler.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// requestMetaFromHeaders reads the correlation headers of an incoming call.
func requestMetaFromHeaders(ctx context.Context) RequestMeta {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return RequestMeta{}
	}
	first := func(key string) string {
		if v := md.Get(key); len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return RequestMeta{
		TraceID:   first(HeaderTraceID),
		SessionID: first(HeaderSessionID),
	}
}

// startRequest records the request ids in ctx and returns a logger tagged
// with the method, the ids and the caller identity.
func (s *Server) startRequest(ctx context.Context, method string) (context.Context, *slog.Logger) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	if !ok {
		meta = requestMetaFromHeaders(ctx)
		ctx = context.WithValue(ctx, requestMetaKey{}, meta)
	}

	attrs := []any{"method", method}
	if meta.TraceID != "" {
		attrs = append(attrs, "trace_id", meta.TraceID)
	}
	if meta.SessionID != "" {
		attrs = append(attrs, "session_id", meta.SessionID)
	}
	if id := auth.IdentityFromContext(ctx); id != "" {
		attrs = append(attrs, "identity", id)
	}
	return ctx, s.logger.With(attrs...)
}
