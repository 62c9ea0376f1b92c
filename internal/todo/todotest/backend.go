// Package todotest provides an in-memory stand-in for the remote todo
// GraphQL service. It serves the same four operations both as a
// gql.Transport and as an http.Handler.
package todotest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/checklist/internal/model"
)

var opName = regexp.MustCompile(`^\s*(?:query|mutation)\s+(\w+)`)

// Backend is a fake todo service. The zero value is not usable; call
// NewBackend.
type Backend struct {
	mu    sync.Mutex
	items []model.Item
	newID func() string
	calls map[string]int
	fails map[string]error
}

// NewBackend returns a backend holding items. New items get uuid ids.
func NewBackend(items ...model.Item) *Backend {
	return &Backend{
		items: slices.Clone(items),
		newID: uuid.NewString,
		calls: make(map[string]int),
		fails: make(map[string]error),
	}
}

// WithSequentialIDs makes new items get ids "n+1", "n+2", ... where n is the
// current number of items.
func (b *Backend) WithSequentialIDs() *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := len(b.items)
	b.newID = func() string {
		next++
		return strconv.Itoa(next)
	}
	return b
}

// Fail makes every call of the named operation fail with err until it is
// cleared with a nil err.
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fails, op)
		return
	}
	b.fails[op] = err
}

// Calls reports how many times the named operation was requested.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// Items returns a copy of the server-side list.
func (b *Backend) Items() []model.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Execute implements gql.Transport.
func (b *Backend) Execute(_ context.Context, document string, vars map[string]any) ([]byte, error) {
	m := opName.FindStringSubmatch(document)
	if m == nil {
		return nil, errors.New("todotest: unnamed operation")
	}
	name := m[1]

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
	if err := b.fails[name]; err != nil {
		return nil, err
	}

	var data any
	switch name {
	case "getTodos":
		data = map[string]any{"todos": nonNil(slices.Clone(b.items))}
	case "addTodo":
		text, _ := vars["text"].(string)
		it := model.Item{ID: b.newID(), Text: text}
		b.items = append(b.items, it)
		data = returning("insert_todos", []model.Item{it})
	case "toggleTodo":
		id, _ := vars["id"].(string)
		done, _ := vars["done"].(bool)
		var changed []model.Item
		for i := range b.items {
			if b.items[i].ID == id {
				b.items[i].Done = done
				changed = append(changed, b.items[i])
			}
		}
		data = returning("update_todos", changed)
	case "deleteTodos":
		id, _ := vars["id"].(string)
		var removed []model.Item
		b.items = slices.DeleteFunc(b.items, func(it model.Item) bool {
			if it.ID == id {
				removed = append(removed, it)
				return true
			}
			return false
		})
		data = returning("delete_todos", removed)
	default:
		return nil, fmt.Errorf("todotest: unknown operation %q", name)
	}
	return json.Marshal(data)
}

// ServeHTTP answers GraphQL-over-HTTP requests.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	raw, err := b.Execute(r.Context(), req.Query, req.Variables)
	if err != nil {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": err.Error()}},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]json.RawMessage{"data": raw})
}

func returning(field string, rows []model.Item) map[string]any {
	return map[string]any{field: map[string]any{"returning": nonNil(rows)}}
}

func nonNil(rows []model.Item) []model.Item {
	if rows == nil {
		return []model.Item{}
	}
	return rows
}
