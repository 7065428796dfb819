package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/tween/scene"
)

type Report struct {
	// Configuration
	Entities      int
	Frames        int
	FPS           float64
	EditsPerFrame int
	FaultPolicy   string
	Seed          int64
	Tracks        map[string]int

	// Results
	Reloads        int
	TotalTime      time.Duration
	FullRun        Stats
	PartialRun     Stats
	Notifications  int64
	Evaluator      *scene.EvaluatorStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Restart drops the run samples collected for a previous rig. The report
// only describes the rig that is running when it is generated.
func (r *Report) Restart() {
	r.Reloads++
	r.FullRun = Stats{}
	r.PartialRun = Stats{}
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Add(d time.Duration) {
	s.Samples = append(s.Samples, d)
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[len(sorted)*99/100]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Evaluation Stress Report

## Test Configuration
- **Entities:** {{.Entities}}
- **Frames:** {{.Frames}} at {{.FPS}} fps
- **Edits per Frame:** {{.EditsPerFrame}}
- **Fault Policy:** {{.FaultPolicy}}
- **Seed:** {{.Seed}}
- **Tracks:**{{range $kind, $n := .Tracks}} {{$kind}}={{$n}}{{end}}
{{- if .Reloads}}
- **Config Reloads:** {{.Reloads}} (results cover the last rig only)
{{- end}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Full Runs:** {{len .FullRun.Samples}}
  - **Avg:** {{.FullRun.Avg}}
  - **Min:** {{.FullRun.Min}}
  - **Max:** {{.FullRun.Max}}
  - **P99:** {{.FullRun.P99}}
- **Partial Runs:** {{len .PartialRun.Samples}}
  - **Avg:** {{.PartialRun.Avg}}
  - **Min:** {{.PartialRun.Min}}
  - **Max:** {{.PartialRun.Max}}
  - **P99:** {{.PartialRun.P99}}

## Evaluator
- **Tracks Applied:** {{.Evaluator.TracksApplied}}
- **Entities Skipped (partial):** {{.Evaluator.Skipped}}
- **Notifications:** {{.Notifications}}
- **Cycle Back-Edges:** {{.Evaluator.CycleEdges}}
- **Track Faults:** {{.Evaluator.Faults}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc | mb}} MB
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
