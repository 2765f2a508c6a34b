package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is returned for malformed expression trees.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Kind identifies the operation of an expression node.
type Kind string

const (
	KindContains Kind = "contains"
	KindEquals   Kind = "equals"
	KindNot      Kind = "not"
	KindAnd      Kind = "and"
	KindOr       Kind = "or"
)

// IsLeaf reports whether k is a content match.
func (k Kind) IsLeaf() bool {
	return k == KindContains || k == KindEquals
}

// Expression is one node of a predicate tree.
// Leaves (contains, equals) use Column and Value; not, and, or use Children.
type Expression struct {
	Kind     Kind          `json:"kind" msgpack:"kind"`
	Column   string        `json:"column,omitempty" msgpack:"column,omitempty"`
	Value    string        `json:"value,omitempty" msgpack:"value,omitempty"`
	Children []*Expression `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Contains matches rows whose column contains value as a substring.
func Contains(column, value string) *Expression {
	return &Expression{Kind: KindContains, Column: column, Value: value}
}

// Equals matches rows whose column is exactly value.
func Equals(column, value string) *Expression {
	return &Expression{Kind: KindEquals, Column: column, Value: value}
}

// Not negates child.
func Not(child *Expression) *Expression {
	return &Expression{Kind: KindNot, Children: []*Expression{child}}
}

// And matches rows selected by every child.
func And(children ...*Expression) *Expression {
	return &Expression{Kind: KindAnd, Children: children}
}

// Or matches rows selected by at least one child.
func Or(children ...*Expression) *Expression {
	return &Expression{Kind: KindOr, Children: children}
}

// Validate checks the shape of the whole tree.
func (e *Expression) Validate() error {
	return e.validate("$")
}

func (e *Expression) validate(path string) error {
	if e == nil {
		return fmt.Errorf("%w: %s: nil node", ErrInvalidExpression, path)
	}

	switch e.Kind {
	case KindContains, KindEquals:
		if e.Column == "" {
			return fmt.Errorf("%w: %s: %s requires a column", ErrInvalidExpression, path, e.Kind)
		}
		if len(e.Children) != 0 {
			return fmt.Errorf("%w: %s: %s takes no children", ErrInvalidExpression, path, e.Kind)
		}
		return nil
	case KindNot:
		if len(e.Children) != 1 {
			return fmt.Errorf("%w: %s: not requires exactly one child, got %d", ErrInvalidExpression, path, len(e.Children))
		}
	case KindAnd, KindOr:
		if len(e.Children) == 0 {
			return fmt.Errorf("%w: %s: %s requires at least one child", ErrInvalidExpression, path, e.Kind)
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidExpression, path, e.Kind)
	}

	for i, c := range e.Children {
		if err := c.validate(fmt.Sprintf("%s.%s[%d]", path, e.Kind, i)); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns the distinct column names referenced by the tree,
// in first-seen order.
func (e *Expression) Columns() []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(*Expression)
	walk = func(n *Expression) {
		if n == nil {
			return
		}
		if n.Kind.IsLeaf() {
			if _, ok := seen[n.Column]; !ok {
				seen[n.Column] = struct{}{}
				out = append(out, n.Column)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}
