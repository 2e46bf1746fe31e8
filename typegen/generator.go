package typegen

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/logger"
	"github.com/teranos/tsclientgen/progress"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/encoding"
	"github.com/teranos/tsclientgen/typegen/naming"
)

// StagingRoot is where a Result's files live on its staging volume.
const StagingRoot = "/"

// Generator turns an IR into a staged TypeScript client. It keeps no state
// between runs and may be reused.
type Generator struct {
	sink      progress.Sink
	log       *zap.SugaredLogger
	namespace string
	encoder   encoding.Helper
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress reports generated files to sink.
func WithProgress(sink progress.Sink) Option {
	return func(g *Generator) { g.sink = sink }
}

// WithLogger replaces the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Generator) { g.log = log }
}

// WithNamespace overrides the root namespace, which defaults to the API name.
func WithNamespace(ns string) Option {
	return func(g *Generator) { g.namespace = ns }
}

// WithEncoder makes clients serialize outgoing bodies with helper instead of
// JSON.stringify.
func WithEncoder(helper encoding.Helper) Option {
	return func(g *Generator) { g.encoder = helper }
}

// New returns a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{sink: progress.Nop{}}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.ComponentLogger("typegen")
	}
	return g
}

// Result is the output of one successful run.
type Result struct {
	API       string
	Namespace string
	// Files lists generated paths in creation order, relative to the root.
	Files        []string
	Dependencies []dependencies.Dependency
	// FS holds every file under StagingRoot.
	FS afero.Fs
}

// Generate runs the whole pipeline. On error nothing is staged.
func (g *Generator) Generate(ctx context.Context, api *ir.IntermediateRepresentation) (*Result, error) {
	if api == nil {
		return nil, errors.NewInvariantViolation("nil IR")
	}
	start := time.Now()

	ns := g.namespace
	if ns == "" {
		ns = api.APIName
	}
	if ns == "" {
		return nil, errors.WithHint(errors.New("API has no name"),
			"set apiName in the IR or generator.namespace in tsclientgen.toml")
	}
	ns = naming.TypeName(ns)

	api = api.WithDefaults()
	run := newRun(api, g.log, g.encoder)
	if err := run.generate(ctx, g.sink); err != nil {
		g.sink.Error(run.stage, err)
		return nil, err
	}
	if err := run.exports.Flush(run.project, ns); err != nil {
		g.sink.Error("exports", err)
		return nil, err
	}

	fs := afero.NewMemMapFs()
	if err := run.project.WriteTo(fs, StagingRoot); err != nil {
		return nil, err
	}

	result := &Result{
		API:          api.APIName,
		Namespace:    ns,
		Dependencies: run.deps.Dependencies(),
		FS:           fs,
	}
	for _, f := range run.project.Files() {
		result.Files = append(result.Files, f.Path())
		g.sink.FileGenerated(f.Path())
	}

	g.log.Infow("Generated client",
		logger.FieldAPI, api.APIName,
		logger.FieldCount, len(result.Files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}
