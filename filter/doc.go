// Package filter provides a serializable form of selection predicates.
//
// An Expression describes a predicate tree without evaluating it, so it can
// travel inside Flight tickets (MessagePack) or configuration (JSON) and be
// evaluated later against any selection.TableView, or rendered to SQL.
//
// # Basic Usage
//
// Describe, evaluate and render an expression:
//
//	e := filter.Or(
//	    filter.And(filter.Contains("Food", "apple"), filter.Not(filter.Contains("Food", "s"))),
//	    filter.Contains("Food", "cake"),
//	)
//
//	p, err := filter.Build(sheet, e)
//	if err != nil {
//	    return err
//	}
//	rows := selection.Rows(p)
//
//	enc := filter.NewDuckDBEncoder(nil)
//	query := "SELECT * FROM foods WHERE " + enc.Encode(e)
//
// # JSON Form
//
// Expressions marshal as nested objects:
//
//	{"kind":"or","children":[
//	    {"kind":"contains","column":"Food","value":"apple"},
//	    {"kind":"equals","column":"Food","value":"cake"}]}
//
// # Missing Columns
//
// A leaf over a column the table does not have selects no rows. The SQL
// encoder mirrors this when EncoderOptions.Columns lists the table's columns:
// leaves on other columns render as the literal false.
//
// # Custom Dialects
//
// Implement the Encoder interface for other SQL dialects:
//
//	type PostgreSQLEncoder struct { ... }
//	func (e *PostgreSQLEncoder) Encode(expr *Expression) string { ... }
package filter
