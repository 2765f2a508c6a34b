package filter

import "strings"

// DuckDBEncoder encodes expressions to DuckDB SQL syntax.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

var _ Encoder = (*DuckDBEncoder)(nil)

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// Encode converts an expression tree to a DuckDB boolean expression.
// Returns empty string if expr is nil or fails validation.
func (e *DuckDBEncoder) Encode(expr *Expression) string {
	if expr == nil || expr.Validate() != nil {
		return ""
	}
	return e.encode(expr)
}

func (e *DuckDBEncoder) encode(expr *Expression) string {
	switch expr.Kind {
	case KindContains, KindEquals:
		return e.encodeLeaf(expr)
	case KindNot:
		return "NOT (" + e.encode(expr.Children[0]) + ")"
	default:
		return e.encodeConjunction(expr)
	}
}

// encodeLeaf encodes a content match.
func (e *DuckDBEncoder) encodeLeaf(expr *Expression) string {
	if !e.opts.hasColumn(expr.Column) {
		return "false"
	}

	col := e.encodeColumn(expr.Column)
	if expr.Kind == KindContains {
		return "contains(" + col + ", " + quoteLiteral(expr.Value) + ")"
	}
	return col + " = " + quoteLiteral(expr.Value)
}

// encodeConjunction encodes AND/OR nodes.
func (e *DuckDBEncoder) encodeConjunction(expr *Expression) string {
	if len(expr.Children) == 1 {
		return e.encode(expr.Children[0])
	}

	parts := make([]string, len(expr.Children))
	for i, c := range expr.Children {
		parts[i] = e.encode(c)
	}

	op := " AND "
	if expr.Kind == KindOr {
		op = " OR "
	}
	return "(" + strings.Join(parts, op) + ")"
}

// encodeColumn applies the column mapping and quotes the result.
func (e *DuckDBEncoder) encodeColumn(name string) string {
	if e.opts.ColumnMapping != nil {
		if mapped, ok := e.opts.ColumnMapping[name]; ok {
			name = mapped
		}
	}
	return quoteIdentifier(name)
}
