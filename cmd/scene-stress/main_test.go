package main

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plus3/tween/internal/config"
	"github.com/plus3/tween/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Rig.Entities = 60
	cfg.Run.Frames = 5
	cfg.Run.EditsPerFrame = 3
	return cfg
}

func TestRigGeneratorIsDeterministic(t *testing.T) {
	cfg := smallConfig()

	build := func() *scene.EntityStore {
		store := scene.NewEntityStore()
		newRigGenerator(cfg.Rig).Build(store)
		return store
	}
	a, b := build(), build()
	require.Equal(t, cfg.Rig.Entities, a.Len())

	for i := range a.Len() {
		assert.Equal(t, a.Get(i).Coords, b.Get(i).Coords)
		assert.Equal(t, len(a.Get(i).Tracks()), len(b.Get(i).Tracks()))
	}
}

func TestRigEvaluatesWithoutFaults(t *testing.T) {
	cfg := smallConfig()
	store := scene.NewEntityStore()
	gen := newRigGenerator(cfg.Rig)
	gen.Build(store)

	total := 0
	for _, n := range gen.counts {
		total += n
	}
	assert.Positive(t, total)
	assert.LessOrEqual(t, gen.links, cfg.Rig.MaxDeps*cfg.Rig.Entities)

	ev := scene.NewEvaluator(store, nil)
	for frame := range 3 {
		_, err := ev.EvaluateAll(float64(frame))
		require.NoError(t, err)
	}
	_, err := ev.EvaluateAfterEdit(gen.edit(5), 1)
	require.NoError(t, err)
}

func TestHarnessReport(t *testing.T) {
	cfg := smallConfig()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	h := newHarness(cfg, logger)

	report := &Report{}
	for frame := range cfg.Run.Frames {
		h.step(frame, report)
	}
	report.FullRun.Finalize()
	report.PartialRun.Finalize()
	h.describe(report)

	assert.Len(t, report.FullRun.Samples, cfg.Run.Frames)
	assert.Len(t, report.PartialRun.Samples, cfg.Run.Frames)
	assert.Equal(t, int64(2*cfg.Run.Frames), report.Evaluator.Runs)
	assert.Equal(t, int64(2*cfg.Run.Frames*cfg.Rig.Entities), report.Notifications)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "# Scene Evaluation Stress Report")
	assert.Contains(t, buf.String(), "**Entities:** 60")
}

func TestStatsFinalize(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)

	for i := 1; i <= 100; i++ {
		s.Add(time.Duration(i) * time.Millisecond)
	}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 100*time.Millisecond, s.P99)
}

func TestReportRestartOnReload(t *testing.T) {
	cfg := smallConfig()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	report := &Report{}

	h := newHarness(cfg, logger)
	for frame := range 3 {
		h.step(frame, report)
	}

	cfg.Rig.Entities = 20
	h = newHarness(cfg, logger)
	report.Restart()
	for frame := range 2 {
		h.step(frame, report)
	}
	report.FullRun.Finalize()
	report.PartialRun.Finalize()
	h.describe(report)

	assert.Equal(t, 1, report.Reloads)
	assert.Len(t, report.FullRun.Samples, 2)
	assert.Len(t, report.PartialRun.Samples, 2)
	assert.Equal(t, int64(4), report.Evaluator.Runs)
	assert.Equal(t, int64(2*2*20), report.Notifications)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "**Config Reloads:** 1 (results cover the last rig only)")
}
