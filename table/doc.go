// Package table provides the row storage that selection predicates run over.
//
// Two selection.TableView implementations are offered:
//   - Sheet: a mutable spreadsheet of string cells with an attached selection
//     and a plain-text printer
//   - RecordView: a read-only view over an Arrow record batch
//
// Filter materialises the rows selected by a predicate as a new record batch.
//
// Both views resolve duplicate column names to the first matching column.
package table
