package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		e, err := Parse(data)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e != nil {
			t.Errorf("expected nil expression, got %+v", e)
		}
	}
}

func TestParseNested(t *testing.T) {
	data := []byte(`{
		"kind": "or",
		"children": [
			{
				"kind": "and",
				"children": [
					{"kind": "contains", "column": "Food", "value": "apple"},
					{"kind": "not", "children": [{"kind": "contains", "column": "Food", "value": "s"}]}
				]
			},
			{"kind": "contains", "column": "Food", "value": "cake"}
		]
	}`)

	e, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Or(
		And(Contains("Food", "apple"), Not(Contains("Food", "s"))),
		Contains("Food", "cake"),
	)
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"syntax", `{"kind":`, false},
		{"wrong type", `{"kind": 1}`, false},
		{"unknown kind", `{"kind": "like", "column": "a"}`, true},
		{"missing column", `{"kind": "equals", "value": "a"}`, true},
		{"not arity", `{"kind": "not"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidExpression); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidExpression) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestMarshalParse(t *testing.T) {
	e := And(Equals("name", "it's"), Or(Contains("tag", ""), Not(Equals("tag", "x"))))

	data, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(e, got); diff != "" {
		t.Errorf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalNilAndInvalid(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil || data != nil {
		t.Errorf("Marshal(nil) = %q, %v", data, err)
	}
	if _, err := Marshal(Not(nil)); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("Marshal(invalid) error = %v", err)
	}
}
