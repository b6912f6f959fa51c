package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lixenwraith/fixtick/audio"
	"github.com/lixenwraith/fixtick/config"
	"github.com/lixenwraith/fixtick/core"
	"github.com/lixenwraith/fixtick/engine"
	"github.com/lixenwraith/fixtick/parameter"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.NewViper(), config.NewFlagSet(config.ApplicationName), nil)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}

	if cfg.PrintConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		return 0
	}

	logger, err := setupLogging(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		return 1
	}

	// Panic Recovery: restore the terminal before the stack trace is printed
	core.SetCrashRestore(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
		core.SetCrashRestore(nil)
		screen.Fini()
	}()

	metronome := audio.NewMetronome(parameter.BeatsPerBar)
	if cfg.Audio {
		// Non-fatal, the demo runs silently without a speaker
		if err := metronome.Initialize(); err != nil {
			logger.Warn("audio initialization failed", zap.Error(err))
		} else {
			defer metronome.Close()
		}
	}

	demo := NewDemo(screen, cfg, logger, engine.DefaultClock(), metronome)

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, demo.Registry(), logger)
		defer stopMetricsServer(srv)
	}

	logger.Info("demo started",
		zap.Int("slow_motion", cfg.SlowMotion),
		zap.Int("max_catch_up", cfg.MaxCatchUp),
		zap.String("catch_up_policy", cfg.CatchUpPolicy),
		zap.Bool("frame_skipping", cfg.FrameSkipping),
	)

	events := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	demo.Run(events)

	logger.Info("demo stopped")
	return 0
}
