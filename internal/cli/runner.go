package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/checklist/internal/auth"
	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/gql"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/todo"
	"github.com/idilsaglam/checklist/internal/tui"
	"github.com/idilsaglam/checklist/internal/ui"
)

// Options carries root flags and the process environment into subcommands.
type Options struct {
	Group bool // list grouped by pending/done

	Ctx    context.Context
	Config *config.Config
	Logger *log.Logger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	// Store connects to the remote todo store. It is called lazily so that
	// auth subcommands work without an endpoint.
	Store func() (checklist.Store, error)
}

// RemoteStore connects to the configured GraphQL endpoint, sending the
// stored admin secret when there is one.
func RemoteStore(cfg *config.Config, logger *log.Logger) (checklist.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []gql.TransportOption{gql.WithTimeout(cfg.Timeout)}
	cred, err := auth.Get(cfg.CredentialsPath())
	switch {
	case errors.Is(err, auth.ErrNoCredential):
		logger.Warn("no admin secret configured, sending unauthenticated requests")
	case err != nil:
		return nil, err
	default:
		logger.Debug("using admin secret", "source", cred.Source)
		opts = append(opts, gql.WithHeader(cfg.SecretHeader, cred.Secret))
	}
	client := gql.New(gql.NewHTTPTransport(cfg.Endpoint, opts...), gql.WithLogger(logger))
	return todo.NewStore(client), nil
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp(opt.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "ui":
		return doUI(opt)

	case "ls":
		for _, s := range a {
			if s != "-group" && s != "--group" {
				ui.Fail(opt.Err, "usage: checklist ls [--group]")
				return 2
			}
			opt.Group = true
		}
		return doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Err, "usage: checklist add <text...>")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail(opt.Err, "usage: checklist done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(opt.Err, "done: not a number: "+a[0])
			return 2
		}
		return doToggle(opt, n)

	case "rm":
		var yes bool
		var rest []string
		for _, s := range a {
			if s == "-y" || s == "--yes" {
				yes = true
				continue
			}
			rest = append(rest, s)
		}
		if len(rest) != 1 {
			ui.Fail(opt.Err, "usage: checklist rm [-y] <index>")
			return 2
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			ui.Fail(opt.Err, "rm: not a number: "+rest[0])
			return 2
		}
		return doRemove(opt, n, yes)

	case "auth":
		if len(a) == 0 {
			ui.Fail(opt.Err, "usage: checklist auth <login|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(opt)
		case "logout":
			return doAuthLogout(opt)
		case "status":
			return doAuthStatus(opt)
		default:
			ui.Fail(opt.Err, "usage: checklist auth <login|logout|status>")
			return 2
		}
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `checklist - a GraphQL-backed checklist

Usage:
  checklist [flags] <subcommand> [args]

Subcommands:
  ui                 Interactive checklist
  ls [--group]       List todos, optionally grouped by pending/done
  add <text...>      Add a todo (text can be multiple words)
  done <index>       Toggle done for the todo at 1-based index
  rm [-y] <index>    Delete the todo at 1-based index (asks first unless -y)
  auth <login|logout|status>   Manage the admin secret

Flags:
  -endpoint URL      GraphQL endpoint (or CHECKLIST_ENDPOINT)
  -group             Group ls output by pending/done
  -theme NAME        classic, neon or mono

Examples:
  checklist add "Buy milk"
  checklist ls
  checklist done 2
  checklist rm 3
`)
}

// -------------- subcommand impls ----------------

// mounted builds a view over the remote store and performs its initial read.
func mounted(opt Options, confirm checklist.Confirmer) (*checklist.View, bool) {
	store, err := opt.Store()
	if err != nil {
		ui.Fail(opt.Err, "connect: "+err.Error())
		return nil, false
	}
	v := checklist.New(store, confirm, checklist.WithLogger(opt.Logger))
	if err := v.Mount(opt.Ctx); err != nil {
		ui.Fail(opt.Err, checklist.ErrorMessage+": "+err.Error())
		return nil, false
	}
	return v, true
}

func doUI(opt Options) int {
	store, err := opt.Store()
	if err != nil {
		ui.Fail(opt.Err, "connect: "+err.Error())
		return 1
	}
	if err := tui.Run(opt.Ctx, store, opt.Logger); err != nil {
		ui.Fail(opt.Err, "ui: "+err.Error())
		return 1
	}
	return 0
}

func doList(opt Options) int {
	v, ok := mounted(opt, checklist.NeverConfirm)
	if !ok {
		return 1
	}
	printPanel(opt, v.Items())
	return 0
}

func doAdd(opt Options, text string) int {
	store, err := opt.Store()
	if err != nil {
		ui.Fail(opt.Err, "connect: "+err.Error())
		return 1
	}
	v := checklist.New(store, checklist.NeverConfirm, checklist.WithLogger(opt.Logger))
	v.SetInput(text)
	created, err := v.Create(opt.Ctx)
	switch {
	case err != nil && !created:
		ui.Fail(opt.Err, "add: "+err.Error())
		return 1
	case err != nil:
		ui.OK(opt.Out, "added")
		ui.Fail(opt.Err, "refresh: "+err.Error())
		return 1
	case !created:
		fmt.Fprintln(opt.Out, ui.Current().Muted.Render("nothing to add"))
		return 0
	}
	ui.OK(opt.Out, "added")
	return 0
}

// pick resolves a 1-based index against the mounted list.
func pick(opt Options, v *checklist.View, userIndex int) (model.Item, bool) {
	items := v.Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(opt.Err, fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(opt.Err, ui.Current().Muted.Render("Hint: run `checklist ls` to see valid indexes"))
		return model.Item{}, false
	}
	return items[userIndex-1], true
}

func doToggle(opt Options, userIndex int) int {
	v, ok := mounted(opt, checklist.NeverConfirm)
	if !ok {
		return 1
	}
	it, ok := pick(opt, v, userIndex)
	if !ok {
		return 2
	}
	if err := v.Toggle(opt.Ctx, it); err != nil {
		ui.Fail(opt.Err, "done: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "toggled")
	return 0
}

func doRemove(opt Options, userIndex int, yes bool) int {
	var confirm checklist.Confirmer = &checklist.PromptConfirmer{In: opt.In, Out: opt.Out}
	if yes {
		confirm = checklist.AlwaysConfirm
	}
	v, ok := mounted(opt, confirm)
	if !ok {
		return 1
	}
	it, ok := pick(opt, v, userIndex)
	if !ok {
		return 2
	}
	deleted, err := v.Delete(opt.Ctx, it)
	if err != nil {
		ui.Fail(opt.Err, "rm: "+err.Error())
		return 1
	}
	if !deleted {
		fmt.Fprintln(opt.Out, ui.Current().Muted.Render("kept"))
		return 0
	}
	ui.OK(opt.Out, "removed")
	printPanel(opt, v.Items())
	return 0
}

// -------------- auth subcommands ----------------

func doAuthLogin(opt Options) int {
	fmt.Fprint(opt.Out, "Paste your admin secret: ")
	line, err := bufio.NewReader(opt.In).ReadString('\n')
	if err != nil && line == "" {
		ui.Fail(opt.Err, "read secret: "+err.Error())
		return 1
	}
	if err := auth.Set(opt.Config.CredentialsPath(), line); err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	ui.OK(opt.Out, "logged in")
	return 0
}

func doAuthLogout(opt Options) int {
	cred, _ := auth.Get(opt.Config.CredentialsPath())
	if cred != nil && cred.Source == auth.SourceEnv {
		ui.OK(opt.Out, "secret is provided by "+auth.EnvVar+" (nothing to delete)")
		return 0
	}
	if err := auth.Delete(opt.Config.CredentialsPath()); err != nil {
		ui.Fail(opt.Err, "logout: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "logged out")
	return 0
}

func doAuthStatus(opt Options) int {
	cred, err := auth.Get(opt.Config.CredentialsPath())
	if errors.Is(err, auth.ErrNoCredential) {
		fmt.Fprintln(opt.Out, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(opt.Out, "Run: checklist auth login")
		return 0
	}
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	fmt.Fprintf(opt.Out, "source: %s\n", cred.Source)
	fmt.Fprintf(opt.Out, "secret: %s\n", cred.Masked())
	fmt.Fprintf(opt.Out, "header: %s\n", opt.Config.SecretHeader)
	fmt.Fprintf(opt.Out, "env override: %s\n", auth.EnvVar)
	return 0
}

// -------------- rendering helpers --------------

func printPanel(opt Options, items []model.Item) {
	t := ui.Current()
	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render(checklist.Heading),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, 1)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `checklist add \"Buy milk\"`"))
	fmt.Fprintln(opt.Out, ui.Panel(lines))
}

func flatLines(items []model.Item, start int) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		it.Text = ansi.Truncate(it.Text, 80, "...")
		idx := t.Muted.Render(fmt.Sprintf("%2d.", start+i))
		out = append(out, idx+" "+checklist.Line(t, it))
	}
	return out
}

// groupLines keeps each item's position in the flat list so the printed
// index still works with done and rm.
func groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []string
	for i, it := range items {
		line := flatLines([]model.Item{it}, i+1)[0]
		if it.Done {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	none := []string{t.Muted.Render("(none)")}
	if len(pend) == 0 {
		pend = none
	}
	if len(done) == 0 {
		done = none
	}
	lines := []string{t.Accent.Render("Pending")}
	lines = append(lines, pend...)
	lines = append(lines, "", t.Accent.Render("Done"))
	return append(lines, done...)
}
