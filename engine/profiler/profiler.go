// Package profiler counts renders and reports the render rate and heap statistics through slog.
package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one reporting window.
type Stats struct {
	Renders     int
	PerSecond   float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks the render rate and memory statistics of a viewer.
// Reports are logged at debug level once per interval.
type Profiler struct {
	renders        int
	lastTime       time.Time
	interval       time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now    func() time.Time
	logger *slog.Logger
}

// NewProfiler creates a new Profiler. The interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		interval: time.Second,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick records one render and reports when the interval has elapsed.
//
// Returns:
//   - Stats: the report for the window that just closed
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.renders++
	current := p.now()
	elapsed := current.Sub(p.lastTime)
	if elapsed < p.interval || elapsed <= 0 {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 pauses
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	stats := Stats{
		Renders:     p.renders,
		PerSecond:   float64(p.renders) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     gcCount,
		MaxPauseUs:  maxPauseUs,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}
	p.logger.Info("render profile",
		"renders", stats.Renders,
		"per_second", stats.PerSecond,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb", stats.AllocRateMB,
		"gc", stats.GCCount,
		"max_pause_us", stats.MaxPauseUs,
		"sys_mb", stats.SysMB,
	)

	p.renders = 0
	p.lastTime = current
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
