package gql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ErrRefetch marks a write that was acknowledged by the server but whose
// refresh read failed afterwards.
var ErrRefetch = errors.New("refetch after write")

// Client executes operations through a Transport and owns the read cache.
// It is safe for concurrent use.
type Client struct {
	transport Transport
	cache     *cache
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request and cache tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client over t.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		cache:     newCache(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops the cached result of op so the next Read goes to the
// network.
func (c *Client) Invalidate(op Operation) {
	c.cache.drop(op.Key())
}

// execute sends op and returns the raw data object. Transport failures and
// server-side errors are reported the same way.
func (c *Client) execute(ctx context.Context, op Operation) (json.RawMessage, error) {
	c.logger.Debug("executing operation", "op", op.Name)
	raw, err := c.transport.Execute(ctx, op.Document, op.Vars)
	if err != nil {
		c.logger.Warn("operation failed", "op", op.Name, "err", err)
		return nil, fmt.Errorf("%s: %w", op.Name, err)
	}
	return raw, nil
}

// fetch runs a read against the network and replaces its cache slot.
func (c *Client) fetch(ctx context.Context, op Operation) (json.RawMessage, error) {
	raw, err := c.execute(ctx, op)
	if err != nil {
		return nil, err
	}
	c.cache.set(op.Key(), raw)
	return raw, nil
}

// Read returns the result of op, from the cache when present and from the
// network otherwise.
func Read[T any](ctx context.Context, c *Client, op Operation) (T, error) {
	var out T
	raw, ok := c.cache.get(op.Key())
	if ok {
		c.logger.Debug("cache hit", "op", op.Name)
	} else {
		var err error
		if raw, err = c.fetch(ctx, op); err != nil {
			return out, err
		}
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Peek returns the cached result of op without touching the network.
func Peek[T any](c *Client, op Operation) (T, bool) {
	var out T
	raw, ok := c.cache.get(op.Key())
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("cached result does not decode", "op", op.Name, "err", err)
		return out, false
	}
	return out, true
}

// Write executes a mutation and, once acknowledged, applies the directives
// in order. A failed mutation applies none of them.
func Write[T any](ctx context.Context, c *Client, op Operation, directives ...Directive) (T, error) {
	var ack T
	raw, err := c.execute(ctx, op)
	if err != nil {
		return ack, err
	}
	if err := decode(op, raw, &ack); err != nil {
		return ack, err
	}
	for _, d := range directives {
		if err := d.apply(ctx, c); err != nil {
			return ack, err
		}
	}
	return ack, nil
}

func decode(op Operation, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: decode: %w", op.Name, err)
	}
	return nil
}
