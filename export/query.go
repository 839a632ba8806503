package export

import (
	"context"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var queryCodeCache sync.Map

// applyQuery filters the document with a jq expression before rendering.
// Multiple outputs collect into an array, mirroring jq's stream semantics.
func applyQuery(ctx context.Context, document any, expression string) (any, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return document, nil
	}

	code, err := cachedQueryCode(trimmed)
	if err != nil {
		return nil, validationError("invalid export query", err)
	}

	iterator := code.RunWithContext(ctx, document)
	results := make([]any, 0, 1)
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if valueErr, isErr := value.(error); isErr {
			return nil, validationError("failed to evaluate export query", valueErr)
		}
		results = append(results, value)
	}

	if len(results) == 0 {
		return []any{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func cachedQueryCode(expression string) (*gojq.Code, error) {
	if cached, ok := queryCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	queryCodeCache.Store(expression, code)
	return code, nil
}
