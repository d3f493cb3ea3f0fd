// Command flamsctl drives FLAMS's archive tree (C6), content cache (C5),
// triple index (C7), and change bus (C8) from the command line, and exposes
// the content contract (§6) as MCP tools (toolsurface) over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flexiformal/flams-core/internal/archive"
	"github.com/flexiformal/flams-core/internal/backendcache"
	"github.com/flexiformal/flams-core/internal/bus"
	"github.com/flexiformal/flams-core/internal/config"
	"github.com/flexiformal/flams-core/internal/logging"
	"github.com/flexiformal/flams-core/internal/toolsurface"
	"github.com/flexiformal/flams-core/internal/triples"
	"github.com/flexiformal/flams-core/internal/uri"
	"github.com/flexiformal/flams-core/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "flamsctl",
		Usage:                  "scan, watch, and serve a FLAMS archive library",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "flams.kdl directory", Value: "."},
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "library root (overrides config)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug-level logging"},
		},
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "walk the library once and report file states",
				Action: scanCommand,
			},
			{
				Name:   "watch",
				Usage:  "scan, then keep rescanning on filesystem changes until interrupted",
				Action: watchCommand,
			},
			{
				Name:   "serve",
				Usage:  "scan, then expose the content contract as MCP tools over stdio",
				Action: serveCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "flamsctl:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if root := c.String("root"); root != "" {
		cfg.Library.Roots = []string{root}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(c *cli.Context) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Bool("verbose") {
		level = zapcore.DebugLevel
	}
	return logging.New(logging.Options{Development: true, Level: level})
}

// newScanner constructs a Scanner and Bus and walks every configured library
// root into it, returning the per-root Group trees alongside the Scanner so
// callers that also need a summary of what was found don't have to rescan.
func newScanner(cfg *config.Config, log *zap.Logger) (*archive.Scanner, *bus.Bus, []*archive.Group, error) {
	base, err := uri.ParseBaseURI("https://mathhub.info")
	if err != nil {
		return nil, nil, nil, err
	}
	b := bus.New(log)
	scanner := archive.NewScanner(base, b, log, nil)
	groups := make([]*archive.Group, 0, len(cfg.Library.Roots))
	for _, root := range cfg.Library.Roots {
		group, err := scanner.Scan(root)
		if err != nil {
			b.Close()
			return nil, nil, nil, fmt.Errorf("scan %s: %w", root, err)
		}
		groups = append(groups, group)
	}
	return scanner, b, groups, nil
}

func scanCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	_, b, groups, err := newScanner(cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	for i, root := range cfg.Library.Roots {
		states := groups[i].States()
		if len(states) == 0 {
			fmt.Printf("%s: no archives found\n", root)
			continue
		}
		for format, summary := range states {
			worst, ok := summary.Worst()
			worstStr := "up-to-date"
			if ok {
				worstStr = worst.String()
			}
			fmt.Printf("%s: %s: %d file(s), worst state %s\n", root, format, summary.Total(), worstStr)
		}
	}
	return nil
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	scanner, b, _, err := newScanner(cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := archive.NewWatcher(scanner, log, debounce)
	if err != nil {
		return fmt.Errorf("build watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	log.Info("watching library for changes", zap.Strings("roots", cfg.Library.Roots))
	return waitForSignal(log)
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := buildLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	scanner, b, _, err := newScanner(cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	var w *archive.Watcher
	if cfg.Watch.Enabled {
		debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
		w, err = archive.NewWatcher(scanner, log, debounce)
		if err != nil {
			return fmt.Errorf("build watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()
	}

	root := func(a uri.ArchiveURI) (string, error) {
		found, ok := scanner.Archive(a)
		if !ok {
			return "", fmt.Errorf("unknown archive %s", a.String())
		}
		return found.OutDir(), nil
	}
	store := backendcache.NewStore(root, cfg.Cache.DocumentCapacity)

	// index starts empty, and nothing in this command submits quads to it:
	// triples.QuadsForDocument/QuadsForModule derive quads and Index.Submit
	// stores them (as triples_test.go exercises), but no step here calls them.
	index := triples.NewIndex(log)

	srv := toolsurface.NewServer(store, index, log)
	defer srv.Close()

	if !cfg.MCP.Enabled {
		log.Info("mcp surface disabled by config; scanned library and exiting")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting MCP server over stdio")
		errCh <- srv.MCP().Run(ctx, &mcp.StdioTransport{})
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		return <-errCh
	}
}

func waitForSignal(log *zap.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("received signal, stopping", zap.String("signal", sig.String()))
	return nil
}
