// Package metrics provides build performance tracking and telemetry.
package metrics

import (
	"fmt"
	"time"
)

// StageTiming is the duration of one pipeline stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// BuildMetrics tracks performance data during one generation run.
type BuildMetrics struct {
	// Timing
	StartTime time.Time
	EndTime   time.Time
	Stages    []StageTiming

	// Counters
	FilesRendered    int
	FilesCopied      int
	PostsRendered    int
	DraftsRendered   int
	ArchivesRendered int
	Autopublished    int
	Autoupdated      int
	FilesMinified    int
	FilesCompressed  int
	BytesWritten     int64

	// Digest cache, copied in at the end of the run
	CacheHits   int
	CacheMisses int
}

// NewBuildMetrics creates a new metrics instance.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordStage appends the duration of a finished stage.
func (m *BuildMetrics) RecordStage(stage string, d time.Duration) {
	m.Stages = append(m.Stages, StageTiming{Stage: stage, Duration: d})
}

// RecordEnd marks the end of the build.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total build duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// StageDuration returns the recorded duration of stage, or zero.
func (m *BuildMetrics) StageDuration(stage string) time.Duration {
	for _, s := range m.Stages {
		if s.Stage == stage {
			return s.Duration
		}
	}
	return 0
}

// CacheHitRate returns the digest cache hit percentage.
func (m *BuildMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// PagesRendered is the number of templated outputs written.
func (m *BuildMetrics) PagesRendered() int {
	return m.FilesRendered + m.PostsRendered + m.DraftsRendered + m.ArchivesRendered
}

// String returns a formatted summary of the build metrics (minimal single-line format).
func (m *BuildMetrics) String() string {
	return fmt.Sprintf("📊 Generated %d pages (%d posts, %d drafts, %d archives) and copied %d files in %v (digests: %d/%d hits, %.0f%%)",
		m.PagesRendered(),
		m.PostsRendered,
		m.DraftsRendered,
		m.ArchivesRendered,
		m.FilesCopied,
		m.TotalDuration().Round(time.Millisecond),
		m.CacheHits,
		m.CacheHits+m.CacheMisses,
		m.CacheHitRate(),
	)
}

// Print outputs the metrics to stdout.
func (m *BuildMetrics) Print() {
	fmt.Println(m.String())
}
