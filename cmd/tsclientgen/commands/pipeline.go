package commands

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/am"
	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/logger"
	"github.com/teranos/tsclientgen/packaging"
	"github.com/teranos/tsclientgen/progress"
	"github.com/teranos/tsclientgen/typegen"
	"github.com/teranos/tsclientgen/typegen/encoding"
)

// loadConfig reads and validates the config, letting explicit flags win, and
// re-initializes the logger from the result.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := am.Load(path)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		cfg.Log.JSON, _ = cmd.Flags().GetBool("json")
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		cfg.Log.Verbosity, _ = cmd.Flags().GetCount("verbose")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return cfg, nil
}

func newSink(cmd *cobra.Command, cfg *am.Config) progress.Sink {
	if cfg.Log.JSON {
		return progress.NewJSONEmitter(cmd.OutOrStdout())
	}
	return progress.Multi{progress.NewCLIEmitter(cfg.Log.Verbosity), progress.NewLogEmitter(nil)}
}

// pipeline is one IR-to-disk run.
type pipeline struct {
	cfg  *am.Config
	sink progress.Sink
	log  *zap.SugaredLogger
}

func newPipeline(cfg *am.Config, sink progress.Sink) *pipeline {
	return &pipeline{cfg: cfg, sink: sink, log: logger.ComponentLogger("pipeline")}
}

// run generates into dstDir on dst. Nothing is written unless generation
// succeeds as a whole.
func (p *pipeline) run(ctx context.Context, dst afero.Fs, dstDir string, prune bool) (*typegen.Result, error) {
	start := time.Now()

	p.sink.Stage("load", p.cfg.Generator.IR)
	api, err := ir.Load(p.cfg.Generator.IR)
	if err != nil {
		p.sink.Error("load", err)
		return nil, err
	}

	gen := typegen.New(
		typegen.WithProgress(p.sink),
		typegen.WithLogger(logger.ComponentLogger("typegen")),
		typegen.WithNamespace(p.cfg.Generator.Namespace),
		typegen.WithEncoder(encoding.Helper{
			Package:      p.cfg.Generator.Encoder.Package,
			VersionRange: p.cfg.Generator.Encoder.Version,
			Export:       p.cfg.Generator.Encoder.Export,
		}),
	)
	result, err := gen.Generate(ctx, api)
	if err != nil {
		return nil, err
	}

	opts := packaging.Options{
		Name:    p.cfg.Package.Name,
		Version: p.cfg.Package.Version,
		Private: p.cfg.Package.Private,
	}
	p.sink.Stage("package", dstDir)
	if err := packaging.Stage(result, opts); err != nil {
		p.sink.Error("package", err)
		return nil, err
	}
	stats, err := packaging.Flush(ctx, result.FS, typegen.StagingRoot, dst, dstDir, prune)
	if err != nil {
		p.sink.Error("package", err)
		return nil, err
	}
	p.log.Infow("Flushed package",
		logger.FieldOutputDir, dstDir,
		"written", stats.Written,
		"unchanged", stats.Unchanged,
		"removed", stats.Removed)

	if p.cfg.Generator.Hook != "" {
		p.sink.Stage("hook", p.cfg.Generator.Hook)
		out, err := packaging.RunHook(ctx, p.cfg.Generator.Hook, dstDir)
		if err != nil {
			p.sink.Error("hook", err)
			return nil, err
		}
		p.log.Debugw("Hook finished", "output", string(out))
	}

	p.sink.Complete(progress.Summary{
		API:          result.API,
		Files:        len(result.Files),
		Dependencies: len(result.Dependencies),
		Written:      stats.Written,
		Duration:     time.Since(start),
	})
	return result, nil
}
