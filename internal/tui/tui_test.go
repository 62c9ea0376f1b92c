package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/gql"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/todo"
	"github.com/idilsaglam/checklist/internal/todo/todotest"
	"github.com/idilsaglam/checklist/internal/ui"
)

type harness struct {
	m    modelTUI
	b    *todotest.Backend
	sent chan tea.Msg
}

func newHarness(t *testing.T, items ...model.Item) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{
		b:    todotest.NewBackend(items...).WithSequentialIDs(),
		sent: make(chan tea.Msg, 1),
	}
	conf := &promptConfirmer{send: func(msg tea.Msg) { h.sent <- msg }, done: ctx.Done()}
	view := checklist.New(todo.NewStore(gql.New(h.b)), conf)
	h.m = newModel(ctx, view)
	return h
}

func (h *harness) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(modelTUI)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	h.m = m
	return cmd
}

// run executes cmd synchronously and feeds its message back.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if msg := cmd(); msg != nil {
		h.update(t, msg)
	}
}

func (h *harness) mount(t *testing.T) {
	t.Helper()
	h.run(t, h.m.mountCmd(false))
}

func (h *harness) listed() []model.Item {
	var out []model.Item
	for _, it := range h.m.list.Items() {
		out = append(out, it.(listItem).Item)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestLoadingThenReady(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "Buy milk"})

	if out := h.m.View(); !strings.Contains(out, checklist.LoadingMessage) {
		t.Errorf("loading view:\n%s", out)
	}
	h.mount(t)

	if got := h.listed(); len(got) != 1 || got[0].Text != "Buy milk" {
		t.Fatalf("listed: %+v", got)
	}
	if out := h.m.View(); !strings.Contains(out, "[ ] Buy milk") {
		t.Errorf("ready view:\n%s", out)
	}
}

func TestErrorView(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "Buy milk"})
	h.b.Fail(todo.OpGetTodos, errors.New("unreachable"))
	h.mount(t)

	out := h.m.View()
	if !strings.Contains(out, checklist.ErrorMessage) || strings.Contains(out, "Buy milk") {
		t.Errorf("error view:\n%s", out)
	}

	// Toggle is not offered without a list.
	if cmd := h.update(t, keySpace); cmd != nil {
		t.Error("toggle dispatched in error state")
	}
}

func TestAddItem(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "Buy milk"})
	h.mount(t)

	h.update(t, keyRunes("a"))
	if !h.m.adding {
		t.Fatal("not in add mode")
	}
	h.update(t, keyRunes("Walk dog"))
	h.run(t, h.update(t, keyEnter))

	got := h.listed()
	if len(got) != 2 || got[1] != (model.Item{ID: "2", Text: "Walk dog"}) {
		t.Fatalf("listed: %+v", got)
	}
	if h.m.adding || h.m.ti.Value() != "" {
		t.Error("add mode not closed")
	}
	if h.m.status != "added" {
		t.Errorf("status: %q", h.m.status)
	}
}

func TestAddBlankIsNoop(t *testing.T) {
	h := newHarness(t)
	h.mount(t)

	h.update(t, keyRunes("a"))
	h.update(t, keyRunes("   "))
	cmd := h.update(t, keyEnter)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("blank add produced %T", msg)
	}
	if n := h.b.Calls(todo.OpAddTodo); n != 0 {
		t.Errorf("addTodo calls: %d", n)
	}
}

func TestToggleSelected(t *testing.T) {
	h := newHarness(t,
		model.Item{ID: "1", Text: "a"},
		model.Item{ID: "2", Text: "b"},
	)
	h.mount(t)
	h.m.list.Select(1)

	h.run(t, h.update(t, keySpace))

	got := h.listed()
	if got[0].Done || !got[1].Done {
		t.Errorf("listed after toggle: %+v", got)
	}
}

func TestWriteFailureShowsStatus(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "a"})
	h.mount(t)
	h.b.Fail(todo.OpToggleTodo, errors.New("denied"))

	h.run(t, h.update(t, keySpace))

	if !h.m.statusErr || !strings.Contains(h.m.status, "toggle failed") {
		t.Errorf("status: %q err=%v", h.m.status, h.m.statusErr)
	}
	if !strings.Contains(h.m.View(), "toggle failed") {
		t.Error("status not rendered")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	tests := []struct {
		name   string
		answer tea.KeyMsg
		want   []model.Item
	}{
		{"confirmed", keyRunes("y"), []model.Item{{ID: "2", Text: "b"}}},
		{"declined", keyRunes("n"), []model.Item{{ID: "1", Text: "a"}, {ID: "2", Text: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t,
				model.Item{ID: "1", Text: "a"},
				model.Item{ID: "2", Text: "b"},
			)
			h.mount(t)
			reads := h.b.Calls(todo.OpGetTodos)

			cmd := h.update(t, keyRunes("d"))
			if cmd == nil {
				t.Fatal("expected delete command")
			}
			done := make(chan tea.Msg, 1)
			go func() { done <- cmd() }()

			select {
			case req := <-h.sent:
				h.update(t, req)
			case <-time.After(2 * time.Second):
				t.Fatal("no confirmation request")
			}
			if out := h.m.View(); !strings.Contains(out, checklist.DeletePrompt) {
				t.Errorf("modal not shown:\n%s", out)
			}
			h.update(t, tt.answer)

			select {
			case msg := <-done:
				h.update(t, msg)
			case <-time.After(2 * time.Second):
				t.Fatal("delete command did not finish")
			}

			got := h.listed()
			if len(got) != len(tt.want) {
				t.Fatalf("listed: %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("item %d: %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if h.b.Calls(todo.OpGetTodos) != reads {
				t.Error("delete triggered a read")
			}
		})
	}
}

func TestSecondConfirmationIsDeclined(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "a"})
	h.mount(t)

	first := make(chan bool, 1)
	second := make(chan bool, 1)
	h.update(t, confirmRequestMsg{prompt: checklist.DeletePrompt, reply: first})
	h.update(t, confirmRequestMsg{prompt: checklist.DeletePrompt, reply: second})

	select {
	case ok := <-second:
		if ok {
			t.Error("second request confirmed")
		}
	default:
		t.Fatal("second request left waiting")
	}

	h.update(t, keyRunes("y"))
	select {
	case ok := <-first:
		if !ok {
			t.Error("first request not confirmed")
		}
	default:
		t.Fatal("first request not answered")
	}
	if h.m.confirm != nil {
		t.Error("modal still open")
	}
}

func TestReloadKey(t *testing.T) {
	h := newHarness(t, model.Item{ID: "1", Text: "a"})
	h.b.Fail(todo.OpGetTodos, errors.New("down"))
	h.mount(t)
	h.b.Fail(todo.OpGetTodos, nil)

	cmd := h.update(t, keyRunes("r"))
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	h.run(t, h.m.mountCmd(true))

	if h.m.view.State() != checklist.Ready || len(h.listed()) != 1 {
		t.Errorf("state=%v listed=%+v", h.m.view.State(), h.listed())
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	h.mount(t)

	cmd := h.update(t, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
