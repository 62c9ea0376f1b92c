package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/checklist/internal/checklist"
	"github.com/idilsaglam/checklist/internal/cli"
	"github.com/idilsaglam/checklist/internal/config"
	"github.com/idilsaglam/checklist/internal/logging"
	"github.com/idilsaglam/checklist/internal/ui"
)

func main() {
	fs := flag.NewFlagSet("checklist", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }

	// Root flags (apply to every subcommand)
	groupPending := fs.Bool("group", false, "group output by pending/done")
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	// The TUI owns the terminal, so its logs go to the log file or nowhere.
	var fallback io.Writer = os.Stderr
	if args[0] == "ui" {
		fallback = io.Discard
	}
	logger, closer, err := logging.Open(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}, fallback)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(args, cli.Options{
		Group:  *groupPending,
		Ctx:    ctx,
		Config: cfg,
		Logger: logger,
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Store: func() (checklist.Store, error) {
			return cli.RemoteStore(cfg, logger)
		},
	})
	stop()
	_ = closer.Close()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
