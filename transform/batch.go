package transform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
)

// Job is one source file and the path its output is written to.
type Job struct {
	Source string
	Output string
}

// Plan maps sources to output paths. A single source writes to out unless
// out is an existing directory; several sources write into the directory
// out as <name>.<ext>, where ext comes from the target.
func Plan(sources []string, out, target string) ([]Job, error) {
	if len(sources) == 0 {
		return nil, errors.New("no source files given")
	}
	if out == "" {
		return nil, errors.WithHint(errors.New("no output path given"), "pass --out")
	}

	info, statErr := os.Stat(out)
	isDir := statErr == nil && info.IsDir()
	if len(sources) == 1 && !isDir {
		return []Job{{Source: sources[0], Output: out}}, nil
	}
	if statErr == nil && !isDir {
		return nil, errors.WithHint(
			errors.Newf("%s is a file but %d sources were given", out, len(sources)),
			"with several sources --out names a directory")
	}

	em, err := EmitterFor(target)
	if err != nil {
		return nil, errors.WithHint(err, "pass --lang when --out is a directory")
	}
	jobs := make([]Job, len(sources))
	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		base = strings.TrimSuffix(base, ".d")
		jobs[i] = Job{Source: src, Output: filepath.Join(out, base+"."+em.FileExtension())}
	}
	return jobs, nil
}

// Batch runs jobs on up to workers goroutines; workers <= 0 means one per
// CPU. Each job writes its own output, so no two jobs may share an output
// path. Cancelling ctx stops new jobs from starting; running jobs finish.
// Results are in job order; a job that never started has a nil result. The
// error is the first infrastructure error.
func Batch(ctx context.Context, jobs []Job, opts Options, workers int) ([]*Result, error) {
	if err := distinctOutputs(jobs); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(logger.WithComponent(ctx, "batch"), runID)
	log := logger.LoggerFromContext(ctx)
	log.Debugw("batch starting", logger.FieldCount, len(jobs), logger.FieldWorkers, workers)
	start := time.Now()

	results := make([]*Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Run(ctx, job.Source, job.Output, opts)
			results[i] = r
			if err != nil {
				log.Debugw("batch job failed", logger.FieldFile, job.Source, logger.FieldError, err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	log.Debugw("batch finished",
		logger.FieldCount, len(jobs),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return results, err
}

func distinctOutputs(jobs []Job) error {
	seen := make(map[string]string, len(jobs))
	for _, j := range jobs {
		out := filepath.Clean(j.Output)
		if prev, ok := seen[out]; ok {
			return errors.Newf("output %s is produced by both %s and %s", out, prev, j.Source)
		}
		seen[out] = j.Source
	}
	return nil
}
