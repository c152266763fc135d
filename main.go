package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/milk9111/villagesim/prefabs"
)

func main() {
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose files shadow the embedded prefabs")
	specName := flag.String("spec", prefabs.VillageSpecFile, "village spec file inside the prefab directory")
	ticks := flag.Int("ticks", 0, "ticks to simulate (0 runs until interrupted)")
	seed := flag.Uint64("seed", 0, "random seed (0 uses the spec's seed)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "text", "text or json")
	watch := flag.Bool("watch", false, "reload the spec and decision script when they change on disk")
	realtime := flag.Bool("realtime", false, "pace ticks to the wall clock")
	flag.Parse()

	log, err := newLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(log)

	prefabs.Dir = *prefabDir

	spec, err := prefabs.LoadVillageSpec(*specName)
	if err != nil {
		log.Error("load village spec", "spec", *specName, "err", err)
		os.Exit(1)
	}

	game, err := NewGame(spec, *seed, log)
	if err != nil {
		log.Error("create village", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var changes <-chan prefabs.Change
	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Warn("prefab watcher disabled", "err", err)
		} else {
			defer w.Close()
			changes = w.Events
			go func() {
				for err := range w.Errors {
					log.Warn("prefab watcher", "err", err)
				}
			}()
		}
	}

	opts := RunOptions{
		Ticks:    *ticks,
		Realtime: *realtime || *watch || *ticks == 0,
		SpecName: *specName,
		Changes:  changes,
	}
	if err := game.Run(ctx, opts); err != nil && ctx.Err() == nil {
		log.Error("run", "err", err)
		game.LogSummary()
		os.Exit(1)
	}
	game.LogSummary()
}

// newLogger builds the process logger. Every record carries the run id.
func newLogger(out io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("log format %q: want text or json", format)
	}
	return slog.New(h).With("run_id", uuid.NewString()), nil
}
