package rowselect

import (
	"context"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/flight"
)

// Authenticator validates bearer tokens and returns user identity.
// This is re-exported from the auth package for convenience.
type Authenticator = auth.Authenticator

// TicketData is the decoded content of a DoGet ticket.
// This is re-exported from the flight package for convenience.
type TicketData = flight.TicketData

// EncodeTicket creates an opaque DoGet ticket.
func EncodeTicket(td *TicketData) ([]byte, error) {
	return flight.EncodeTicket(td)
}

// DecodeTicket parses a ticket created by EncodeTicket.
func DecodeTicket(ticket []byte) (*TicketData, error) {
	return flight.DecodeTicket(ticket)
}

// BearerAuth creates an Authenticator from a validation function.
// This is the simplest way to add authentication to your Flight server.
//
// Example:
//
//	auth := rowselect.BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", rowselect.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return auth.BearerAuth(validateFunc)
}

// NoAuth returns an Authenticator that allows all requests without validation.
// Useful for development and testing. DO NOT use in production.
func NoAuth() Authenticator {
	return auth.NoAuth()
}

// TableAllowList restricts each authenticated identity to the listed tables.
func TableAllowList(authenticator Authenticator, grants map[string][]string) Authenticator {
	return auth.TableAllowList(authenticator, grants)
}

// IdentityFromContext retrieves the authenticated user identity from context.
// Returns empty string if no identity is set (unauthenticated request).
// This can be used in scan functions to check who is making the request.
func IdentityFromContext(ctx context.Context) string {
	return auth.IdentityFromContext(ctx)
}
