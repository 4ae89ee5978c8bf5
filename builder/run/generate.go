package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/content"
	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/builder/site"
	"github.com/Kush-Singh-26/quire/builder/utils"
)

// Stage names, in execution order.
const (
	StageReset       = "stage-reset"
	StageEnumerate   = "enumerate"
	StageConflicts   = "conflict-gate"
	StageAutopublish = "autopublish"
	StageAutoupdate  = "autoupdate"
	StageSnapshot    = "snapshot"
	StageFiles       = "render-files"
	StagePosts       = "render-posts"
	StageDrafts      = "render-drafts"
	StageArchives    = "render-archives"
	StagePostProcess = "post-process"
	StagePromote     = "promote"
)

// runState carries everything one generation produces between stages.
type runState struct {
	repo    *content.Repository
	files   []string
	posts   []*content.Post
	drafts  []*content.Draft
	view    *site.Context
	metrics *metrics.BuildMetrics

	// ctx is the caller's context, used by stages that fan out.
	ctx context.Context

	// rendered holds staging paths of templated outputs.
	rendered []string

	fingerprint string
	changed     bool
}

func (st *runState) addRendered(path string) {
	st.rendered = append(st.rendered, path)
}

// Generate runs every stage in order. Any failure returns before promotion
// and leaves the live tree as it was.
func (b *Builder) Generate(ctx context.Context) (*Result, error) {
	lock, err := b.acquireLock()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			b.logger.Warn("Failed to release generation lock", "error", err)
		}
	}()

	if err := b.reloadConfig(); err != nil {
		return nil, err
	}
	repo, err := b.site.Repository()
	if err != nil {
		return nil, err
	}

	st := &runState{ctx: ctx, repo: repo, metrics: metrics.NewBuildMetrics()}

	b.logger.Info("Generating site")
	stages := []struct {
		name string
		fn   func(*runState) error
	}{
		{StageReset, b.resetStaging},
		{StageEnumerate, b.enumerate},
		{StageConflicts, b.checkConflicts},
		{StageAutopublish, b.autopublish},
		{StageAutoupdate, b.autoupdate},
		{StageSnapshot, b.snapshot},
		{StageFiles, b.renderFiles},
		{StagePosts, b.renderPosts},
		{StageDrafts, b.renderDrafts},
		{StageArchives, b.renderArchives},
		{StagePostProcess, b.postProcess},
		{StagePromote, b.promote},
	}

	for _, s := range stages {
		if err := b.runStage(ctx, st, s.name, s.fn); err != nil {
			st.metrics.RecordEnd()
			b.recorder.ObserveBuildDuration(st.metrics.TotalDuration())
			var conflictErr *conflicts.ConflictError
			if errors.As(err, &conflictErr) {
				b.recorder.IncBuildOutcome(metrics.BuildConflict)
			} else {
				b.recorder.IncBuildOutcome(metrics.BuildFailed)
			}
			return nil, err
		}
	}

	hits, misses := b.digests.Stats()
	st.metrics.CacheHits, st.metrics.CacheMisses = hits, misses
	st.metrics.RecordEnd()
	b.recorder.ObserveBuildDuration(st.metrics.TotalDuration())
	b.recorder.IncBuildOutcome(metrics.BuildSuccess)
	b.recorder.SetContentCounts(len(st.posts), len(st.drafts))

	b.logger.Info("Generation complete",
		"posts", len(st.posts),
		"drafts", len(st.drafts),
		"files", len(st.files),
		"changed", st.changed,
		"duration", st.metrics.TotalDuration().Round(time.Millisecond))

	return &Result{
		Posts:       len(st.posts),
		Drafts:      len(st.drafts),
		Files:       len(st.files),
		Archives:    st.metrics.ArchivesRendered,
		Fingerprint: st.fingerprint,
		Changed:     st.changed,
		Metrics:     st.metrics,
	}, nil
}

// acquireLock keeps two processes from generating the same site at once.
// Only the real filesystem can be locked.
func (b *Builder) acquireLock() (*utils.FileLock, error) {
	if _, ok := b.site.Fs.(*afero.OsFs); !ok {
		return nil, nil
	}
	lock, err := utils.AcquireLock(b.site.Path(LockFile))
	if err != nil {
		return nil, fmt.Errorf("another generation is in progress: %w", err)
	}
	return lock, nil
}

func (b *Builder) runStage(ctx context.Context, st *runState, name string, fn func(*runState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := fn(st)
	elapsed := time.Since(start)

	st.metrics.RecordStage(name, elapsed)
	b.recorder.ObserveStageDuration(name, elapsed)
	if err != nil {
		b.recorder.IncStageResult(name, metrics.ResultFailed)
		b.logger.Error("Stage failed", "stage", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	b.recorder.IncStageResult(name, metrics.ResultSuccess)
	b.logger.Debug("Stage complete", "stage", name, "duration", elapsed)
	return nil
}
