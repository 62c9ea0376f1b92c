package gql

import (
	"context"
	"encoding/json"
	"fmt"
)

// Directive is a post-write instruction applied after a mutation is
// acknowledged.
type Directive interface {
	apply(ctx context.Context, c *Client) error
}

type refetch struct {
	op Operation
}

// Refetch re-executes the read op against the network and replaces its cache
// slot wholesale.
func Refetch(op Operation) Directive {
	return refetch{op: op}
}

func (r refetch) apply(ctx context.Context, c *Client) error {
	c.logger.Debug("refetching", "op", r.op.Name)
	if _, err := c.fetch(ctx, r.op); err != nil {
		return fmt.Errorf("%w: %w", ErrRefetch, err)
	}
	return nil
}

type patch struct {
	op Operation
	fn func(json.RawMessage) (json.RawMessage, error)
}

// Patch rewrites the cached result of the read op with fn, without a network
// round-trip. Nothing happens when op has no cached result.
func Patch[T any](op Operation, fn func(T) T) Directive {
	return patch{
		op: op,
		fn: func(raw json.RawMessage) (json.RawMessage, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return json.Marshal(fn(v))
		},
	}
}

func (p patch) apply(_ context.Context, c *Client) error {
	found, err := c.cache.update(p.op.Key(), p.fn)
	if err != nil {
		return fmt.Errorf("%s: patch cache: %w", p.op.Name, err)
	}
	if !found {
		c.logger.Debug("nothing cached to patch", "op", p.op.Name)
	}
	return nil
}
