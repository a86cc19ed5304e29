package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cerfical/iplookup/internal/config"
	"github.com/cerfical/iplookup/internal/form"
	"github.com/cerfical/iplookup/internal/ipinfo"
	"github.com/cerfical/iplookup/internal/log"
	"github.com/cerfical/iplookup/internal/tui"
)

func main() {
	os.Exit(run(config.Load(os.Args)))
}

func run(config *config.Config) int {
	interactive := config.IP == ""

	logOut, closeLog, err := openLog(config.Log.File, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	mode := "interactive"
	if !interactive {
		mode = "one-shot"
	}

	logger := log.New(
		log.WithLevel(config.Log.Level),
		log.WithWriter(logOut),
		log.WithFields(log.Fields{"mode": mode}),
	)
	logger.Info("Using a backend", log.Fields{"backend_url": config.Backend.String()})

	client := newClient(config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !interactive {
		f := form.New(client, form.WithLogger(logger))
		return lookupOnce(ctx, f, config.IP, os.Stdout, os.Stderr)
	}

	if !log.IsTerminal(os.Stdout) || !log.IsTerminal(os.Stdin) {
		fmt.Fprintln(os.Stderr, "Error: no terminal attached, pass an address to look up")
		return 1
	}

	model := tui.New(ctx, client, tui.WithLogger(logger))
	if err := tui.Run(ctx, model); err != nil {
		logger.Error("Terminal UI terminated abnormally", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newClient(config *config.Config, logger *log.Logger) *ipinfo.Client {
	// A zero timeout leaves lookups unbounded
	return ipinfo.New(
		ipinfo.WithBaseURL(&config.Backend),
		ipinfo.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		ipinfo.WithLogger(logger),
	)
}

// lookupOnce submits query and prints the outcome, reporting failures on stderr.
func lookupOnce(ctx context.Context, f *form.Form, query string, stdout, stderr io.Writer) int {
	f.SetQuery(query)
	state := f.Submit(ctx)

	if state.Phase() == form.PhaseFailed {
		fmt.Fprint(stderr, state.Render())
		return 1
	}
	fmt.Fprint(stdout, state.Render())
	return 0
}

// openLog picks the destination of log messages.
// The interactive form owns the terminal, so there logs are dropped unless written to a file.
func openLog(path string, interactive bool) (io.Writer, func() error, error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, f.Close, nil
	}

	noop := func() error { return nil }
	if interactive {
		return io.Discard, noop, nil
	}
	return os.Stderr, noop, nil
}
