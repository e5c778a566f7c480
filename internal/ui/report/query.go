package report

import (
	"context"
	"encoding/json"
	"io"

	"eosindex/internal/core/errors"
	"eosindex/internal/engine/index"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression evaluated against an index document.
type Query struct {
	expr string
	code *gojq.Code
}

// CompileQuery parses and compiles a jq expression such as
// `.functions[].methodname_flat`.
func CompileQuery(expr string) (*Query, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, "invalid query"),
			"query", expr,
		)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeValidationError, "invalid query"),
			"query", expr,
		)
	}
	return &Query{expr: expr, code: code}, nil
}

func (q *Query) String() string {
	return q.expr
}

// Run evaluates the query against doc and collects every emitted value.
// The document is passed through its JSON form so the query sees exactly
// the keys and ordering of the written output.
func (q *Query) Run(ctx context.Context, doc *index.Document) ([]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode document for query")
	}
	var input interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to decode document for query")
	}

	var results []interface{}
	iter := q.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
				break
			}
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "query failed"),
				"query", q.expr,
			)
		}
		results = append(results, v)
	}
	return results, nil
}

// WriteResults writes one compact JSON value per line.
func WriteResults(w io.Writer, results []interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, v := range results {
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to write query result")
		}
	}
	return nil
}
