// Package tui is the interactive Bubble Tea front end of the checklist view.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders items on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+checklist.Line(t, it.Item))
}

// Messages produced by commands.
type (
	mountedMsg struct{ err error }

	wroteMsg struct {
		action string // "add", "toggle", "delete", "keep"
		err    error
	}

	confirmRequestMsg struct {
		prompt string
		reply  chan<- bool
	}
)

// promptConfirmer turns the view's blocking confirmation into a modal: the
// delete command's goroutine sends a request to the program and waits for
// the answer typed by the user.
type promptConfirmer struct {
	send func(tea.Msg)
	done <-chan struct{}
}

func (c *promptConfirmer) Confirm(prompt string) bool {
	reply := make(chan bool, 1)
	c.send(confirmRequestMsg{prompt: prompt, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-c.done:
		return false
	}
}

var outcomes = map[string]string{
	"add":    "added",
	"toggle": "toggled",
	"delete": "deleted",
	"keep":   "kept",
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete"))
	reloadBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	quitBind   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

type modelTUI struct {
	ctx  context.Context
	view *checklist.View

	list list.Model
	spin spinner.Model

	// Inline add
	adding bool
	ti     textinput.Model

	// Pending delete confirmation, nil when none
	confirm *confirmRequestMsg

	status    string
	statusErr bool
	width     int
	height    int
}

func newModel(ctx context.Context, view *checklist.View) modelTUI {
	l := list.New(nil, itemDelegate{}, 76, 20)
	l.Title = ui.Current().Title.Render(checklist.Heading)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, toggleBind, deleteBind, reloadBind}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Write your todo"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return modelTUI{
		ctx:    ctx,
		view:   view,
		list:   l,
		spin:   sp,
		ti:     ti,
		width:  80,
		height: 24,
	}
}

// Run starts the interactive checklist over store.
func Run(ctx context.Context, store checklist.Store, logger *log.Logger) error {
	conf := &promptConfirmer{done: ctx.Done()}
	view := checklist.New(store, conf, checklist.WithLogger(logger))
	p := tea.NewProgram(newModel(ctx, view), tea.WithAltScreen(), tea.WithContext(ctx))
	conf.send = p.Send
	_, err := p.Run()
	return err
}

func (m modelTUI) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.mountCmd(false))
}

func (m modelTUI) mountCmd(reload bool) tea.Cmd {
	return func() tea.Msg {
		if reload {
			return mountedMsg{err: m.view.Reload(m.ctx)}
		}
		return mountedMsg{err: m.view.Mount(m.ctx)}
	}
}

func (m modelTUI) createCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.view.SetInput(text)
		created, err := m.view.Create(m.ctx)
		if !created && err == nil {
			return nil
		}
		return wroteMsg{action: "add", err: err}
	}
}

func (m modelTUI) toggleCmd(it model.Item) tea.Cmd {
	return func() tea.Msg {
		return wroteMsg{action: "toggle", err: m.view.Toggle(m.ctx, it)}
	}
}

func (m modelTUI) deleteCmd(it model.Item) tea.Cmd {
	return func() tea.Msg {
		deleted, err := m.view.Delete(m.ctx, it)
		if !deleted && err == nil {
			return wroteMsg{action: "keep"}
		}
		return wroteMsg{action: "delete", err: err}
	}
}

// selected returns the highlighted item.
func (m modelTUI) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.Item, ok
}

// syncList reloads the list from the view's cached items.
func (m *modelTUI) syncList() tea.Cmd {
	items := m.view.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{Item: it})
	}
	done, pending := model.Stats(items)
	t := ui.Current()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d",
		t.Title.Render(checklist.Heading),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
	)
	return m.list.SetItems(li)
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case mountedMsg:
		return m, m.syncList()

	case wroteMsg:
		m.status, m.statusErr = outcomes[msg.action], false
		if msg.err != nil {
			m.status, m.statusErr = msg.action+" failed: "+msg.err.Error(), true
		}
		return m, m.syncList()

	case confirmRequestMsg:
		// One modal at a time; a second delete is declined.
		if m.confirm != nil {
			msg.reply <- false
			return m, nil
		}
		m.confirm = &msg
		return m, nil

	case spinner.TickMsg:
		if m.view.State() != checklist.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// confirmation modal
	if m.confirm != nil {
		if !isKey {
			return m, nil
		}
		switch keyMsg.String() {
		case "y", "Y":
			m.confirm.reply <- true
			m.confirm = nil
		case "n", "N", "esc", "q":
			m.confirm.reply <- false
			m.confirm = nil
		case "ctrl+c":
			m.confirm.reply <- false
			m.confirm = nil
			return m, tea.Quit
		}
		return m, nil
	}

	// add mode
	if m.adding {
		if isKey {
			switch keyMsg.String() {
			case "enter":
				text := m.ti.Value()
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				return m, m.createCmd(text)
			case "esc":
				m.adding = false
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	if isKey && m.list.FilterState() != list.Filtering {
		state := m.view.State()
		switch {
		case key.Matches(keyMsg, quitBind):
			return m, tea.Quit
		case key.Matches(keyMsg, addBind):
			m.adding = true
			m.status = ""
			m.ti.SetValue("")
			return m, m.ti.Focus()
		case key.Matches(keyMsg, reloadBind):
			m.status = ""
			return m, tea.Batch(m.spin.Tick, m.mountCmd(true))
		case key.Matches(keyMsg, toggleBind) && state == checklist.Ready:
			if it, ok := m.selected(); ok {
				return m, m.toggleCmd(it)
			}
			return m, nil
		case key.Matches(keyMsg, deleteBind) && state == checklist.Ready:
			if it, ok := m.selected(); ok {
				return m, m.deleteCmd(it)
			}
			return m, nil
		}
	}

	if m.view.State() != checklist.Ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	t := ui.Current()
	listHeight := m.height - 4
	if m.adding || m.confirm != nil {
		listHeight -= 4
	}
	if m.status != "" {
		listHeight--
	}
	m.list.SetSize(m.width-4, max(listHeight, 1))

	var content string
	switch m.view.State() {
	case checklist.Loading:
		content = m.spin.View() + " " + checklist.LoadingMessage
	case checklist.Error:
		content = m.view.Render() + "\n" + t.Muted.Render("r reload • a add • q quit")
	default:
		content = m.list.View()
	}

	bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	switch {
	case m.confirm != nil:
		content += "\n" + bar.Render(m.confirm.prompt+"\n"+t.Muted.Render("y yes • n no"))
	case m.adding:
		content += "\n" + bar.Render("Add new todo\n"+m.ti.View())
	}

	if m.status != "" {
		style := t.Success
		if m.statusErr {
			style = t.Error
		}
		content += "\n" + style.Render(m.status)
	}
	return ui.Panel([]string{content})
}
