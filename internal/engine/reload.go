package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/internal/indexing"
	"github.com/giomambre/cv-job-matching/internal/logger"
)

// Reloader replaces the served model with another published version, or with
// one freshly built from a corpus file.
type Reloader struct {
	active   *Active
	dataDir  string
	settings config.ModelSettings
	opts     Options
}

// NewReloader creates a reloader serving through active. New versions are read
// from and published to dataDir; reindexing fits with settings.
func NewReloader(active *Active, dataDir string, settings config.ModelSettings, opts Options) *Reloader {
	return &Reloader{active: active, dataDir: dataDir, settings: settings, opts: opts}
}

// Reload loads a published version and serves it. The current model keeps
// serving when loading fails.
func (r *Reloader) Reload(ctx context.Context, version string, progress func(current, total int, message string)) error {
	progress = orNoProgress(progress)

	progress(0, 2, "loading artifacts")
	m, err := Load(r.dataDir, version, r.opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.swap(m)
	progress(2, 2, "serving "+version)
	return nil
}

// Reindex builds a new version from a CSV corpus, publishes it, verifies it
// loads back and serves it.
func (r *Reloader) Reindex(ctx context.Context, csvPath, version string, progress func(current, total int, message string)) error {
	progress = orNoProgress(progress)

	builder, err := indexing.NewBuilder(r.settings, r.opts.Logger)
	if err != nil {
		return err
	}

	progress(0, 3, "fitting model")
	if _, err := builder.BuildFile(csvPath, r.dataDir, version); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	progress(1, 3, "loading published artifacts")
	m, err := Load(r.dataDir, version, r.opts)
	if err != nil {
		return fmt.Errorf("published version %s does not load: %w", version, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.swap(m)
	progress(3, 3, "serving "+version)
	return nil
}

func (r *Reloader) swap(m *Matcher) {
	old := r.active.Swap(m)
	if old != nil {
		logger.OrNop(r.opts.Logger).Info("replaced served model",
			zap.String("previous_version", old.Version()),
			zap.String("version", m.Version()),
		)
	}
}

func orNoProgress(progress func(current, total int, message string)) func(current, total int, message string) {
	if progress == nil {
		return func(int, int, string) {}
	}
	return progress
}
