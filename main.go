package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/termchat/internal/app"
	"github.com/atomicstack/termchat/internal/config"
	"github.com/atomicstack/termchat/internal/logging"
	"github.com/atomicstack/termchat/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// exitError carries a process exit code out of the command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// runFunc starts the chat session; tests replace it.
type runFunc func(ctx context.Context, cfg app.Config) error

func newRootCmd(argv, environ []string, run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "termchat",
		Short: "Terminal chat client",
		Long: `termchat is a line-oriented chat client for the terminal.

Type to compose a message and press enter to send it. Lines starting with
/ are commands: /msg, /me, /join, /part and /quit. Use // to send a line
that starts with a slash.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd.Flags(), argv, environ)
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("configuration error: %w", err)}
			}
			if err := config.Validate(cfg); err != nil {
				return &exitError{code: 2, err: fmt.Errorf("configuration error: %w", err)}
			}
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			defer logging.Close()

			traceStartup(cfg)

			if err := run(cmd.Context(), cfg.App); err != nil {
				logging.Error(err)
				return &exitError{code: 1, err: fmt.Errorf("error: %w", err)}
			}
			return nil
		},
	}
	config.Register(cmd.Flags())
	cmd.SetArgs(argv)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	cmd := newRootCmd(os.Args[1:], os.Environ(), app.Run)
	code := execute(ctx, cmd, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs cmd and maps its error to an exit code.
func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err)
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 2
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Descriptors   []ttyDescriptor `json:"descriptors"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyDescriptor struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	descriptors := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyDescriptor, 0, len(descriptors))
	var detected *ttyDetected
	for _, desc := range descriptors {
		entry := ttyDescriptor{Name: desc.name}
		fd := int(desc.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: desc.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Descriptors: results}
}
