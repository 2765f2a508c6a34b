package flight

import (
	"fmt"

	"github.com/hugr-lab/rowselect/filter"
	"github.com/hugr-lab/rowselect/internal/msgpack"
	"github.com/hugr-lab/rowselect/internal/serialize"
)

// Ticket encoding markers, stored in the first byte.
const (
	ticketRaw  byte = 0x00
	ticketZstd byte = 0x01
)

// compressThreshold is the encoded size above which tickets are compressed.
const compressThreshold = 512

// TicketData represents the decoded content of a Flight ticket.
type TicketData struct {
	// Table is the table name (e.g., "foods").
	Table string `msgpack:"table"`

	// Filter selects the rows to return (optional, nil means all rows).
	Filter *filter.Expression `msgpack:"filter,omitempty"`

	// Columns to project (optional, nil means all columns).
	// Duplicate table column names resolve to the first one.
	Columns []string `msgpack:"columns,omitempty"`
}

// Validate checks that the ticket names a table and carries a valid filter.
func (td *TicketData) Validate() error {
	if td.Table == "" {
		return fmt.Errorf("%w: table name cannot be empty", ErrInvalidTicket)
	}
	if td.Filter != nil {
		if err := td.Filter.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTicket, err)
		}
	}
	return nil
}

// EncodeTicket creates an opaque ticket from td.
// The payload is MessagePack; payloads larger than 512 bytes are
// compressed with ZStandard.
func EncodeTicket(td *TicketData) ([]byte, error) {
	if err := td.Validate(); err != nil {
		return nil, err
	}

	data, err := msgpack.Encode(td)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}

	if len(data) <= compressThreshold {
		return append([]byte{ticketRaw}, data...), nil
	}

	compressed, err := serialize.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress ticket: %w", err)
	}
	return append([]byte{ticketZstd}, compressed...), nil
}

// DecodeTicket parses an opaque ticket.
// Returns an error wrapping ErrInvalidTicket if the ticket is malformed.
func DecodeTicket(ticket []byte) (*TicketData, error) {
	if len(ticket) == 0 {
		return nil, fmt.Errorf("%w: ticket cannot be empty", ErrInvalidTicket)
	}

	data := ticket[1:]
	switch ticket[0] {
	case ticketRaw:
	case ticketZstd:
		var err error
		data, err = serialize.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTicket, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown encoding 0x%02x", ErrInvalidTicket, ticket[0])
	}

	var td TicketData
	if err := msgpack.Decode(data, &td); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTicket, err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return &td, nil
}
