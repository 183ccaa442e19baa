package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/typetransform/config"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
	"github.com/teranos/typetransform/transform"
	"github.com/teranos/typetransform/watch"
)

// addGenerationFlags adds the flags that shape generated code.
func addGenerationFlags(cmd *cobra.Command, outUsage string) {
	f := cmd.Flags()
	f.StringP("out", "o", "", outUsage)
	f.String("banner", "", "Text written before the generated code")
	f.String("footer", "", "Text written after the generated code")
	f.StringP("lang", "l", "", "Target language: swift or kotlin (default: from the --out extension)")
	f.String("package", "", "Package clause for Kotlin output")
	f.Bool("json", false, "Print results as JSON on stdout")
	_ = cmd.MarkFlagRequired("out")
}

func addTransformFlags(cmd *cobra.Command) {
	addGenerationFlags(cmd, "Output file, or directory when several sources are given")
	f := cmd.Flags()
	f.BoolP("watch", "w", false, "Regenerate when a source or config file changes")
	f.IntP("workers", "j", 0, "Files transformed in parallel (default: config workers, then one per CPU)")
	f.Bool("no-format", false, "Skip the configured formatter")
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	out, _ := cmd.Flags().GetString("out")

	jobs, err := transform.Plan(args, out, lang)
	if err != nil {
		return err
	}
	opts, err := transformOptions(cmd, cfg, lang, jobs[0].Output)
	if err != nil {
		return err
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	ctx := cmd.Context()
	watching, _ := cmd.Flags().GetBool("watch")
	if watching {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	rep := newReporter(cmd)
	showSettings(rep, opts)
	if len(jobs) > 1 {
		rep.show(logger.OutputProgress, "Transforming %d files (workers: %s)", len(jobs), workerCount(workers))
	}
	start := time.Now()
	results, err := transform.Batch(ctx, jobs, opts, workers)
	rep.results(results)
	logger.Infow("transform finished",
		logger.FieldCount, len(jobs),
		logger.FieldTarget, opts.Target,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	if err != nil {
		return err
	}
	if watching {
		return watchSources(ctx, cmd, rep, jobs, opts, workers)
	}
	return failed(results)
}

// transformOptions layers command line flags over the configuration.
func transformOptions(cmd *cobra.Command, cfg *config.Config, lang, out string) (transform.Options, error) {
	opts := transform.DefaultOptions()
	em, err := transform.ResolveTarget(lang, out)
	if err != nil {
		return opts, err
	}
	opts.Target = em.Language()

	opts.Emit = cfg.EmitOptions()
	if cmd.Flags().Changed("package") {
		opts.Emit.Kotlin.Package, _ = cmd.Flags().GetString("package")
	}
	if err := opts.Emit.Validate(); err != nil {
		return opts, err
	}

	opts.Banner = textOption(cmd, "banner", cfg.Banner)
	opts.Footer = textOption(cmd, "footer", cfg.Footer)

	if f := cmd.Flags().Lookup("no-format"); f != nil && f.Value.String() != "true" {
		opts.Format = cfg.FormatterFor(em.Language())
	}
	return opts, nil
}

// textOption prefers the flag, then a non-empty config value.
func textOption(cmd *cobra.Command, flag, configured string) *string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return &v
	}
	if configured != "" {
		return &configured
	}
	return nil
}

// failed turns results with fatal diagnostics into an error.
func failed(results []*transform.Result) error {
	var bad []*transform.Result
	for _, r := range results {
		if r != nil && !r.Success {
			bad = append(bad, r)
		}
	}
	switch len(bad) {
	case 0:
		return nil
	case 1:
		return errors.Wrapf(bad[0].Err(), "%s", bad[0].Source)
	default:
		return errors.Wrapf(errors.ErrFatalDiagnostics, "%d of %d files had errors", len(bad), len(results))
	}
}

// watchSources regenerates a source's output whenever it changes, and every
// output when a config file changes. It returns when ctx is cancelled.
func watchSources(ctx context.Context, cmd *cobra.Command, rep *reporter, jobs []transform.Job, opts transform.Options, workers int) error {
	log := logger.ComponentLogger("watch")

	var mu sync.Mutex
	current := opts

	bySource := make(map[string]transform.Job, len(jobs))
	paths := make([]string, 0, len(jobs))
	for _, j := range jobs {
		bySource[j.Source] = j
		paths = append(paths, j.Source)
	}
	paths = append(paths, config.ConfigFiles()...)

	w, err := watch.New(paths, func(ctx context.Context, path string) {
		rep.show(logger.OutputWatchStatus, "%s changed", path)
		if job, ok := bySource[path]; ok {
			mu.Lock()
			o := current
			mu.Unlock()
			r, err := transform.Run(ctx, job.Source, job.Output, o)
			if r != nil {
				rep.results([]*transform.Result{r})
			}
			if err != nil {
				rep.error(err)
			}
			return
		}

		log.Infow("config changed, regenerating all outputs", logger.FieldConfigFile, path)
		config.Reset()
		cfg, err := loadConfig()
		if err != nil {
			rep.error(err)
			return
		}
		next, err := transformOptions(cmd, cfg, opts.Target, jobs[0].Output)
		if err != nil {
			rep.error(err)
			return
		}
		mu.Lock()
		current = next
		mu.Unlock()
		showSettings(rep, next)

		results, err := transform.Batch(ctx, jobs, next, workers)
		rep.results(results)
		if err != nil {
			rep.error(err)
		}
	})
	if err != nil {
		return err
	}

	rep.info("Watching %d files for changes (Ctrl+C to stop)", len(paths))
	if err := w.Run(ctx); err != nil {
		return err
	}
	return nil
}

// showSettings reports the merged config files and effective options at
// the verbosity that enables them.
func showSettings(rep *reporter, opts transform.Options) {
	if files := config.ConfigFiles(); len(files) > 0 {
		rep.show(logger.OutputConfigSource, "Config: %s", strings.Join(files, ", "))
	} else {
		rep.show(logger.OutputConfigSource, "Config: built-in defaults")
	}
	e := opts.Emit
	rep.show(logger.OutputOptions, "Options: target=%s indent=%d line_width=%d union_literals=%s formatter=%q",
		opts.Target, e.Indent, e.LineWidth, e.UnionLiterals, opts.Format)
}

func workerCount(workers int) string {
	if workers <= 0 {
		return fmt.Sprintf("%d, one per CPU", runtime.NumCPU())
	}
	return strconv.Itoa(workers)
}
