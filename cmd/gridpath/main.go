// Command gridpath solves text grids from the command line or serves the
// HTTP API.
//
//	gridpath solve -grid maze.txt
//	gridpath serve -config gridpath.toml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/config"
	"github.com/pdrpinto/gridpath/gridtext"
	"github.com/pdrpinto/gridpath/server"
)

const usage = `Usage: gridpath <command> [options]

Commands:
  solve   find a path through a text grid and print it as JSON
  serve   run the HTTP API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		_, _ = fmt.Fprint(stderr, usage)
		return nil
	}

	switch args[0] {
	case "solve":
		return runSolve(ctx, args[1:], stdin, stdout, stderr)
	case "serve":
		return runServe(ctx, args[1:], stderr)
	default:
		_, _ = fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// solveOutput is printed by the solve command.
type solveOutput struct {
	Found    bool                `json:"found"`
	Path     []gridpath.Position `json:"path,omitempty"`
	Cost     float64             `json:"cost"`
	Steps    int                 `json:"steps"`
	Expanded int                 `json:"expanded"`
}

func runSolve(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gridPath := fs.String("grid", "-", "grid file, - for stdin")
	configPath := fs.String("config", "", "TOML config file")
	heuristic := fs.String("heuristic", "", "override heuristic: octile or manhattan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *heuristic != "" {
		if err := cfg.Search.Heuristic.UnmarshalText([]byte(*heuristic)); err != nil {
			return err
		}
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}

	in := stdin
	if *gridPath != "-" {
		f, err := os.Open(*gridPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	grid, err := gridtext.ParseGrid(in)
	if err != nil {
		return err
	}

	result, searchErr := gridpath.FindPath(ctx, grid, cfg.Search, gridpath.WithLogger(logger))
	out := solveOutput{Found: searchErr == nil}
	var notFound *gridpath.PathNotFoundError
	switch {
	case searchErr == nil:
		out.Path, out.Cost, out.Steps, out.Expanded = result.Path, result.Cost, result.Steps(), result.Expanded
	case errors.As(searchErr, &notFound):
		out.Expanded = notFound.Expanded
	default:
		return searchErr
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return err
	}
	// Not-found is reported on stdout and still fails the command.
	return searchErr
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML config file")
	addr := fs.String("addr", "", "listen address, overrides config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.GinMode)

	srv := server.New(server.Config{
		BaseURL:    cfg.Server.BaseURL,
		Defaults:   cfg.Search,
		Workers:    cfg.Server.Workers,
		MaxCells:   cfg.Server.MaxCells,
		MaxJobs:    cfg.Server.MaxJobs,
		SessionTTL: cfg.Server.SessionTTL.Duration,
		Logger:     logger,
	})
	logger.Info("starting gridpath server",
		slog.String("addr", cfg.Server.Addr),
		slog.String("heuristic", cfg.Search.Heuristic.String()))
	return srv.Run(ctx, cfg.Server.Addr)
}
