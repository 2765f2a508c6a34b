package filter

import "strings"

// Encoder converts expressions to SQL boolean expressions.
// Implementations handle dialect-specific syntax.
type Encoder interface {
	// Encode converts an expression tree to SQL.
	// Returns empty string if the expression is nil or invalid.
	Encode(expr *Expression) string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// ColumnMapping maps expression column names to target names.
	// Columns not in the map use their original names.
	ColumnMapping map[string]string

	// Columns lists the columns of the target table. When set, leaves on
	// any other column encode as false, matching in-memory evaluation.
	Columns []string
}

func (o *EncoderOptions) hasColumn(name string) bool {
	if o.Columns == nil {
		return true
	}
	for _, c := range o.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// escapeString escapes single quotes in a string value for SQL.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteLiteral returns a SQL string literal with proper escaping.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}

// quoteIdentifier returns a quoted identifier if needed.
// DuckDB uses double quotes for identifiers.
func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// needsQuoting returns true if the identifier needs quoting.
// Unquoted identifiers are case-insensitive in DuckDB, so any upper-case
// letter forces quoting.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLower(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLower(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"TABLE", "JOIN", "ON", "AS", "IN", "IS", "LIKE", "BETWEEN", "CASE",
		"WHEN", "THEN", "ELSE", "END", "ORDER", "BY", "GROUP", "HAVING",
		"LIMIT", "OFFSET", "UNION", "ALL", "DISTINCT", "CAST", "DEFAULT":
		return true
	}
	return false
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
