package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
	"github.com/plus3/tween/internal/config"
	"github.com/plus3/tween/scene"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	watch := flag.Bool("watch", false, "Reload the config file and rebuild the rig whenever it changes.")
	profileMode := flag.String("profile", "", "Override run.profile: cpu or mem.")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective config as TOML and exit.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal("could not start", "err", err)
		}
	}
	if *profileMode != "" {
		cfg.Run.Profile = *profileMode
		if err := cfg.Validate(); err != nil {
			log.Fatal("could not start", "err", err)
		}
	}
	if *dumpConfig {
		if err := cfg.Encode(os.Stdout); err != nil {
			log.Fatal("could not encode config", "err", err)
		}
		return
	}

	logger := newLogger(cfg.Log)

	switch cfg.Run.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var reloads <-chan *config.Config
	if *watch {
		if *configPath == "" {
			log.Fatal("-watch needs -config")
		}
		var err error
		if reloads, err = watchConfig(ctx, *configPath, logger); err != nil {
			logger.Fatal("could not watch config", "err", err)
		}
	}

	report := &Report{GCPauseMetrics: *gcPauseMetrics}
	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	h := newHarness(cfg, logger)
	logger.Info("starting scene stress test", "entities", cfg.Rig.Entities, "frames", cfg.Run.Frames)

Loop:
	for frame := 0; frame < cfg.Run.Frames; frame++ {
		select {
		case <-ctx.Done():
			logger.Warn("interrupted", "frame", frame)
			break Loop
		case next, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			cfg = next
			logger.SetLevel(mustLevel(cfg))
			h = newHarness(cfg, logger)
			report.Restart()
			logger.Info("config reloaded, rig rebuilt", "entities", cfg.Rig.Entities)
			frame = 0
		default:
		}
		h.step(frame, report)
	}

	report.TotalTime = time.Since(startTime)
	report.FullRun.Finalize()
	report.PartialRun.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	h.describe(report)

	logger.Info("stress test finished", "duration", report.TotalTime)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", "err", err)
	}
	fmt.Println("--- End of Report ---")
}

func newLogger(cfg config.LogConfig) *log.Logger {
	level, _ := log.ParseLevel(cfg.Level)
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      time.RFC3339,
	})
}

func mustLevel(cfg *config.Config) log.Level {
	level, err := cfg.LogLevel()
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// harness owns one generated rig and drives it frame by frame.
type harness struct {
	cfg      *config.Config
	logger   *log.Logger
	gen      *rigGenerator
	scene    *scene.Scene
	notified int64
}

func newHarness(cfg *config.Config, logger *log.Logger) *harness {
	h := &harness{cfg: cfg, logger: logger}
	notifier := scene.NotifierFunc(func(int, *scene.Entity) {
		h.notified++
	})
	h.scene = scene.NewScene(notifier, cfg.EvaluatorOptions(logger)...)
	h.gen = newRigGenerator(cfg.Rig)

	start := time.Now()
	h.gen.Build(h.scene.Store())
	logger.Debug("rig built", "entities", h.scene.Store().Len(), "links", h.gen.links, "took", time.Since(start))
	return h
}

// step runs one full evaluation at the frame time, then one partial
// evaluation for a batch of simulated edits.
func (h *harness) step(frame int, report *Report) {
	t := float64(frame) / h.cfg.Run.FPS

	res, err := h.scene.SetTime(t)
	h.check(frame, err)
	if res != nil {
		report.FullRun.Add(res.Duration)
	}

	if h.cfg.Run.EditsPerFrame == 0 {
		return
	}
	edited := h.gen.edit(h.cfg.Run.EditsPerFrame)
	res, err = h.scene.Edited(edited...)
	h.check(frame, err)
	if res != nil {
		report.PartialRun.Add(res.Duration)
	}
}

func (h *harness) check(frame int, err error) {
	if err == nil {
		return
	}
	var evalErr *scene.EvalError
	if errors.As(err, &evalErr) {
		h.logger.Debug("run had faults", "frame", frame, "faults", len(evalErr.Faults), "aborted", evalErr.Aborted)
		return
	}
	h.logger.Error("run failed", "frame", frame, "err", err)
}

func (h *harness) describe(report *Report) {
	report.Entities = h.cfg.Rig.Entities
	report.Frames = h.cfg.Run.Frames
	report.FPS = h.cfg.Run.FPS
	report.EditsPerFrame = h.cfg.Run.EditsPerFrame
	report.FaultPolicy = h.cfg.Run.FaultPolicy
	report.Seed = h.cfg.Rig.Seed
	report.Tracks = h.gen.counts
	report.Notifications = h.notified
	report.Evaluator = h.scene.Evaluator().Stats()
}
