package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/slidedeck/config"
	"github.com/plus3/slidedeck/deck"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/host/ebitenhost"
	"github.com/plus3/slidedeck/host/termhost"
	"github.com/plus3/slidedeck/progress"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
)

const appName = "slidedeck"

type options struct {
	configPath string
	host       string
	reset      bool
	debug      bool
	watch      bool
	logPath    string
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Deck file (YAML). Built-in defaults are used when empty.")
	flag.StringVar(&opts.host, "host", "ebiten", "Where to present: ebiten or term.")
	flag.BoolVar(&opts.reset, "reset", false, "Start from the first scene instead of the last visited one.")
	flag.BoolVar(&opts.debug, "debug", false, "Show the ImGui debug overlay (ebiten host only).")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the deck file when it changes.")
	flag.StringVar(&opts.logPath, "log", "", "Write logs to this file. The terminal host discards logs when empty.")
	flag.BoolVar(&opts.verbose, "v", false, "Log scene transitions at debug level.")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
	log.Println("Presentation closed.")
}

func run(opts options) error {
	if opts.host != "ebiten" && opts.host != "term" {
		return fmt.Errorf("unknown host %q (want ebiten or term)", opts.host)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		cfg = loaded
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = cfg.Title
	}

	logger, closeLog, err := newLogger(opts.host, opts.logPath, opts.verbose)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	store, err := progress.Open(appName, cfg.Title)
	if err != nil {
		log.Printf("Progress will not persist: %v", err)
	}
	if opts.reset {
		if err := store.Reset(); err != nil {
			log.Printf("Failed to reset progress: %v", err)
		}
	}

	var watcher *config.Watcher
	if opts.watch && opts.configPath != "" {
		watcher, err = config.Watch(opts.configPath, config.DefaultDebounce, logger)
		if err != nil {
			return fmt.Errorf("watch deck: %w", err)
		}
		defer watcher.Close()
	}

	st := stage.New(stage.Options{Seed: cfg.Seed, Logger: logger})
	lib := deck.NewLibrary(cfg)
	d := scene.NewDeck(st, lib.Entries(), scene.DeckOptions{
		Logger:   logger,
		Tracker:  store,
		NextKeys: keys(cfg.Keys.Next),
		PrevKeys: keys(cfg.Keys.Prev),
	})
	d.BindKeys()
	defer d.Close()

	first := store.Resume(d.Len())

	if opts.host == "term" {
		return runTerminal(st, d, cfg, watcher, lib, logger, first)
	}

	game := ebitenhost.New(st, d, ebitenhost.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		TPS:        cfg.Window.TPS,
		Title:      cfg.Window.Title,
		Background: cfg.Color("background", cfg.Palette["background"].RGBA()),
		Debug:      opts.debug,
		Watcher:    watcher,
		OnConfig:   lib.SetConfig,
		Logger:     logger,
	})
	if err := d.Start(first); err != nil {
		return fmt.Errorf("start scene %d: %w", first, err)
	}
	if err := game.Run(); err != nil {
		return fmt.Errorf("presentation failed: %w", err)
	}
	return nil
}

func runTerminal(st *stage.Stage, d *scene.Deck, cfg *config.Deck, watcher *config.Watcher, lib *deck.Library, logger stagelog.Logger, first int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	h := termhost.New(st, d, screen, termhost.Options{
		Width:      float64(cfg.Window.Width),
		Height:     float64(cfg.Window.Height),
		TPS:        cfg.Window.TPS,
		Background: cfg.Color("background", cfg.Palette["background"].RGBA()),
		Watcher:    watcher,
		OnConfig:   lib.SetConfig,
		Logger:     logger,
	})
	if err := d.Start(first); err != nil {
		return fmt.Errorf("start scene %d: %w", first, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return h.Run(ctx)
}

func keys(names []string) []event.Key {
	out := make([]event.Key, len(names))
	for i, n := range names {
		out[i] = event.Key(n)
	}
	return out
}

// newLogger builds the slog-backed logger. The terminal host owns the
// screen, so without a log file its logs are discarded.
func newLogger(host, path string, verbose bool) (stagelog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case host == "term":
		out = io.Discard
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return stagelog.NewSlog(slog.New(handler)), closeFn, nil
}
