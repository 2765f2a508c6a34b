package filter

import (
	"fmt"

	"github.com/hugr-lab/rowselect/selection"
)

// Build evaluates e against view and returns the resulting predicate.
// Children are built before their parent. And/or nodes with more than two
// children fold from the left; a single child is returned as is.
func Build(view selection.TableView, e *Expression) (selection.Predicate, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return build(view, e)
}

func build(view selection.TableView, e *Expression) (selection.Predicate, error) {
	switch e.Kind {
	case KindContains:
		return selection.NewContains(view, e.Column, e.Value), nil
	case KindEquals:
		return selection.NewEquals(view, e.Column, e.Value), nil
	case KindNot:
		child, err := build(view, e.Children[0])
		if err != nil {
			return nil, err
		}
		return selection.NewNot(child), nil
	}

	acc, err := build(view, e.Children[0])
	if err != nil {
		return nil, err
	}
	for _, c := range e.Children[1:] {
		next, err := build(view, c)
		if err != nil {
			return nil, err
		}
		if e.Kind == KindAnd {
			acc, err = selection.NewAnd(acc, next)
		} else {
			acc, err = selection.NewOr(acc, next)
		}
		if err != nil {
			return nil, fmt.Errorf("filter: %s: %w", e.Kind, err)
		}
	}
	return acc, nil
}
