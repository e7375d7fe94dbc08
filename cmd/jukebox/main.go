package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jscyril/wavejukebox/api"
	"github.com/jscyril/wavejukebox/internal/config"
	"github.com/jscyril/wavejukebox/internal/log"
	"github.com/jscyril/wavejukebox/internal/shell"
	"github.com/jscyril/wavejukebox/internal/terminal"
	"github.com/jscyril/wavejukebox/internal/ui"
	"github.com/jscyril/wavejukebox/pkg/events"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create data directory
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.Init(cfg.LogLevel, logFile)
	log.Info("starting", "config", configPath, "device", cfg.Device, "scan_root", cfg.ScanRoot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewEventBus()
	defer bus.Close()
	sub := bus.Subscribe(32)
	logged := make(chan struct{})
	go func() {
		logEvents(sub)
		close(logged)
	}()
	defer func() {
		// Flush buffered events before the log file closes.
		bus.Unsubscribe(sub)
		<-logged
		if n := bus.Dropped(); n > 0 {
			log.Warn("events dropped", "count", n)
		}
	}()

	term := terminal.NewSession(os.Stdin)
	defer term.Restore()

	sess := shell.New(cfg, term, os.Stdout, bus)

	// Raw mode turns Ctrl-C into a key, so signals only arrive from outside.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-sigChan
		log.Warn("terminating on signal", "signal", sig.String())
		sess.Close()
		code := 1
		if s, ok := sig.(syscall.Signal); ok {
			code = 128 + int(s)
		}
		os.Exit(code)
	}()

	ui.NewPrinter(os.Stdout).ClearScreen()
	sess.InitialScan(ctx)

	runErr := sess.Run(ctx)
	sess.Close()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("session ended", "error", runErr)
		return runErr
	}
	log.Info("exiting")
	return nil
}

// logEvents writes playback events to the log until the bus closes.
func logEvents(ch <-chan api.AudioEvent) {
	for evt := range ch {
		if evt.Type == api.EventError {
			log.Error("playback", "event", evt.Type.String(), "track", evt.Track, "frame", evt.Frame, "error", evt.Err)
			continue
		}
		log.Info("playback", "event", evt.Type.String(), "track", evt.Track, "frame", evt.Frame)
	}
}
