// Package checklist implements the checklist view: it reads the todo list
// through a Store, tracks whether that read is loading, failed or ready, and
// turns create, toggle and delete intents into writes.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/checklist/internal/gql"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/ui"
)

// Literal messages rendered for the non-ready states.
const (
	LoadingMessage = "Loading..."
	ErrorMessage   = "Error fetching todos"
	Heading        = "GraphQL Checklist ✔"
)

// State is the view's top-level state for the current render cycle.
type State int

const (
	Loading State = iota
	Error
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is what the view needs from the data layer. *todo.Store satisfies it.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Cached() ([]model.Item, bool)
	Reload(ctx context.Context) ([]model.Item, error)
	Add(ctx context.Context, text string) (model.Item, error)
	Toggle(ctx context.Context, id string, done bool) (model.Item, error)
	Delete(ctx context.Context, id string) (model.Item, error)
}

// View is the checklist view. It is safe for concurrent use, so writes may
// run on background goroutines while the list is being drawn; the lock is
// never held across a network call.
type View struct {
	store   Store
	confirm Confirmer
	logger  *log.Logger

	mu      sync.Mutex
	state   State
	readErr error
	input   string
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger used for failed writes.
func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// New returns a view in the Loading state. A nil confirm declines every
// delete.
func New(store Store, confirm Confirmer, opts ...Option) *View {
	if confirm == nil {
		confirm = NeverConfirm
	}
	v := &View{
		store:   store,
		confirm: confirm,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the read error behind the Error state.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.readErr
}

// Mount performs the initial read and leaves the view Ready or Error.
func (v *View) Mount(ctx context.Context) error {
	_, err := v.store.List(ctx)
	v.settle(err)
	return err
}

// Reload drops the cached list and mounts again.
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	v.state = Loading
	v.mu.Unlock()
	_, err := v.store.Reload(ctx)
	v.settle(err)
	return err
}

func (v *View) settle(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state, v.readErr = Error, err
		v.logger.Error("reading todos", "err", err)
		return
	}
	v.state, v.readErr = Ready, nil
}

// Items returns the list as currently cached, in server order.
func (v *View) Items() []model.Item {
	items, _ := v.store.Cached()
	return items
}

// SetInput replaces the create input field.
func (v *View) SetInput(s string) {
	v.mu.Lock()
	v.input = s
	v.mu.Unlock()
}

// Input returns the create input field.
func (v *View) Input() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

// Create adds the trimmed input as a new todo. Blank input is a no-op and
// reports created=false. The input is cleared once the server acknowledged
// the write, even if the follow-up refresh failed.
func (v *View) Create(ctx context.Context) (created bool, err error) {
	text := strings.TrimSpace(v.Input())
	if text == "" {
		return false, nil
	}
	_, err = v.store.Add(ctx, text)
	if err != nil && !errors.Is(err, gql.ErrRefetch) {
		v.logger.Error("adding todo", "err", err)
		return false, err
	}
	v.SetInput("")
	if err != nil {
		v.logger.Warn("todo added but list refresh failed", "err", err)
	}
	return true, err
}

// Toggle flips the done flag of it.
func (v *View) Toggle(ctx context.Context, it model.Item) error {
	if _, err := v.store.Toggle(ctx, it.ID, !it.Done); err != nil {
		v.logger.Error("toggling todo", "id", it.ID, "err", err)
		return err
	}
	return nil
}

// Delete asks for confirmation and, if given, deletes it. The item leaves
// the cached list as soon as the server acknowledges the delete.
func (v *View) Delete(ctx context.Context, it model.Item) (deleted bool, err error) {
	if !v.confirm.Confirm(DeletePrompt) {
		return false, nil
	}
	if _, err := v.store.Delete(ctx, it.ID); err != nil {
		v.logger.Error("deleting todo", "id", it.ID, "err", err)
		return false, err
	}
	return true, nil
}

// Render draws the view for the current state.
func (v *View) Render() string {
	t := ui.Current()
	switch v.State() {
	case Loading:
		return LoadingMessage
	case Error:
		return t.Error.Render(ErrorMessage)
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(Heading))
	b.WriteString("\n")
	for _, line := range Lines(v.Items()) {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// Lines renders one line per item: checkbox then text, struck through when
// done.
func Lines(items []model.Item) []string {
	t := ui.Current()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, Line(t, it))
	}
	return out
}

// Line renders a single item with theme t.
func Line(t ui.Theme, it model.Item) string {
	if it.Done {
		return t.Success.Render(t.BoxChecked) + " " + t.Done.Render(it.Text)
	}
	return t.Muted.Render(t.BoxUnchecked) + " " + it.Text
}
