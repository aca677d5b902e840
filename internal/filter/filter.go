// Package filter applies an optional jq pre-filter to sample documents
// before type inference.
package filter

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq program.
type Filter struct {
	expr string
	code *gojq.Code
}

// New parses and compiles a jq expression.
func New(expr string) (*Filter, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression %q: %w", expr, err)
	}
	return &Filter{expr: expr, code: code}, nil
}

// Expr returns the original expression.
func (f *Filter) Expr() string {
	return f.expr
}

// Apply runs the filter over one decoded document and returns every value it
// yields, in order. A filter error is fatal for the document: inference over
// a partially filtered document would silently skew the result.
func (f *Filter) Apply(input any) ([]any, error) {
	var out []any
	iter := f.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter %q: %w", f.expr, err)
		}
		out = append(out, v)
	}
	return out, nil
}
