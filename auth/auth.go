// Package auth provides authentication interfaces and helpers for the Flight server.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated is returned when authentication fails.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrPermissionDenied is returned by TableAuthorizer implementations
	// to refuse access to a table.
	ErrPermissionDenied = errors.New("permission denied")
)

// Authenticator validates bearer tokens and returns user identity.
// Implementations MUST be goroutine-safe.
type Authenticator interface {
	// Authenticate validates a bearer token and returns user identity.
	// Returns error if token is invalid or expired.
	// Context allows timeout for auth backend calls.
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// TableAuthorizer is an optional interface that Authenticator implementations
// can also implement to restrict which tables an identity may read.
//
// AuthorizeTable is called with the request context (identity already set
// by Authenticate) before a table is described or scanned, and while
// listing tables. A non-nil error hides the table from listings and fails
// other requests with PermissionDenied.
type TableAuthorizer interface {
	AuthorizeTable(ctx context.Context, table string) error
}

// noAuthenticator is an Authenticator that allows all requests.
type noAuthenticator struct{}

// NoAuth returns an Authenticator that allows all requests.
// Useful for development/testing. DO NOT use in production.
func NoAuth() Authenticator {
	return &noAuthenticator{}
}

// Authenticate implements Authenticator for noAuthenticator.
// Always returns "anonymous" as the identity.
func (n *noAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return "anonymous", nil
}

// bearerAuthenticator wraps a user-provided validation function.
type bearerAuthenticator struct {
	validateFunc func(token string) (identity string, err error)
}

// BearerAuth creates an Authenticator from a validation function.
//
// Example:
//
//	auth := BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", err
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{
		validateFunc: validateFunc,
	}
}

// Authenticate implements Authenticator for bearerAuthenticator.
func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return b.validateFunc(token)
}

// tableAllowList authenticates with a token map and authorizes by table name.
type tableAllowList struct {
	Authenticator
	tables map[string]map[string]struct{}
}

// TableAllowList wraps authenticator so that each identity may only read the
// listed tables. Identities missing from grants may read nothing.
func TableAllowList(authenticator Authenticator, grants map[string][]string) Authenticator {
	tables := make(map[string]map[string]struct{}, len(grants))
	for identity, names := range grants {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		tables[identity] = set
	}
	return &tableAllowList{Authenticator: authenticator, tables: tables}
}

// AuthorizeTable implements TableAuthorizer.
// A context without an identity fails with ErrUnauthenticated.
func (a *tableAllowList) AuthorizeTable(ctx context.Context, table string) error {
	identity, ok := identityOf(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if _, ok := a.tables[identity][table]; ok {
		return nil
	}
	return ErrPermissionDenied
}
