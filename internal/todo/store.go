package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/checklist/internal/gql"
	"github.com/idilsaglam/checklist/internal/model"
)

// ErrNotFound is returned when a mutation matched no row.
var ErrNotFound = errors.New("todo not found")

// Store runs the todo operations through a shared data client. Every write
// keeps the cached getTodos result in step with the server:
// add re-reads it, toggle and delete patch it in place.
type Store struct {
	client *gql.Client
}

// NewStore returns a Store over client.
func NewStore(client *gql.Client) *Store {
	return &Store{client: client}
}

// List returns the todo list, from the cache when it has one.
func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	res, err := gql.Read[ListResult](ctx, s.client, GetTodos)
	if err != nil {
		return nil, err
	}
	return res.Todos, nil
}

// Cached returns the cached todo list without a network round-trip.
func (s *Store) Cached() ([]model.Item, bool) {
	res, ok := gql.Peek[ListResult](s.client, GetTodos)
	return res.Todos, ok
}

// Reload drops the cached list and reads it again.
func (s *Store) Reload(ctx context.Context) ([]model.Item, error) {
	s.client.Invalidate(GetTodos)
	return s.List(ctx)
}

// Add creates a todo and refreshes the list so it carries the server-assigned
// id. If the mutation succeeded but the refresh did not, the created item is
// returned together with an error wrapping gql.ErrRefetch.
func (s *Store) Add(ctx context.Context, text string) (model.Item, error) {
	op := AddTodo.With(map[string]any{"text": text})
	res, err := gql.Write[insertResult](ctx, s.client, op, gql.Refetch(GetTodos))
	return first(op, res.Insert.Returning, err)
}

// Toggle sets the done flag of the todo with id and patches the cached list.
func (s *Store) Toggle(ctx context.Context, id string, done bool) (model.Item, error) {
	op := ToggleTodo.With(map[string]any{"id": id, "done": done})
	setDone := gql.Patch(GetTodos, func(r ListResult) ListResult {
		for i := range r.Todos {
			if r.Todos[i].ID == id {
				r.Todos[i].Done = done
			}
		}
		return r
	})
	res, err := gql.Write[updateResult](ctx, s.client, op, setDone)
	return first(op, res.Update.Returning, err)
}

// Delete removes the todo with id and prunes it from the cached list.
func (s *Store) Delete(ctx context.Context, id string) (model.Item, error) {
	op := DeleteTodos.With(map[string]any{"id": id})
	prune := gql.Patch(GetTodos, func(r ListResult) ListResult {
		kept := r.Todos[:0]
		for _, it := range r.Todos {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		r.Todos = kept
		return r
	})
	res, err := gql.Write[deleteResult](ctx, s.client, op, prune)
	return first(op, res.Delete.Returning, err)
}

func first(op gql.Operation, rows []model.Item, err error) (model.Item, error) {
	if len(rows) == 0 {
		if err != nil {
			return model.Item{}, err
		}
		return model.Item{}, fmt.Errorf("%s: %w", op.Name, ErrNotFound)
	}
	return rows[0], err
}
