package filter

import (
	"encoding/json"
	"fmt"
)

// Parse decodes a JSON expression and validates it.
// Empty input yields a nil expression and no error.
func Parse(data []byte) (*Expression, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var e Expression
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("filter: invalid JSON: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Marshal encodes e as JSON. A nil expression encodes as empty output.
func Marshal(e *Expression) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}
