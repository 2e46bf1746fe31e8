package typegen

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/logger"
	"github.com/teranos/tsclientgen/progress"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/encoding"
	"github.com/teranos/tsclientgen/typegen/envelope"
	"github.com/teranos/tsclientgen/typegen/exports"
	"github.com/teranos/tsclientgen/typegen/layout"
	"github.com/teranos/tsclientgen/typegen/model"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/resolver"
	"github.com/teranos/tsclientgen/typegen/service"
	"github.com/teranos/tsclientgen/typegen/tsfile"
	"github.com/teranos/tsclientgen/typegen/union"
	"github.com/teranos/tsclientgen/typegen/websocket"
)

// Run holds the state of one generation. It is built by Generate and
// discarded afterwards.
type Run struct {
	api   *ir.IntermediateRepresentation
	log   *zap.SugaredLogger
	stage string

	project *tsfile.Project
	types   *resolver.Resolver
	refs    *reference.Resolver
	exports *exports.Aggregator
	deps    *dependencies.Manager

	// published maps a namespace directory to the names its index re-exports
	// and the declaration that owns each one.
	published map[string]map[string]string

	models    *model.Generator
	envelopes *envelope.Generator
	services  *service.Generator
	channels  *websocket.Generator
}

func newRun(api *ir.IntermediateRepresentation, log *zap.SugaredLogger, encoder encoding.Helper) *Run {
	project := tsfile.NewProject()
	types := resolver.New(api)
	refs := reference.New(types)
	deps := dependencies.NewManager()
	unions := union.New(refs)
	encoders := encoding.New(encoder, deps)
	return &Run{
		api:       api,
		log:       log,
		project:   project,
		types:     types,
		refs:      refs,
		exports:   exports.New(layout.PublicRoot),
		deps:      deps,
		published: make(map[string]map[string]string),
		models:    model.New(refs, unions),
		envelopes: envelope.New(project, refs, unions, deps),
		services:  service.New(project, refs, deps, encoders),
		channels:  websocket.New(project, refs, deps, encoders),
	}
}

func (r *Run) generate(ctx context.Context, sink progress.Sink) error {
	phases := []struct {
		stage   string
		message string
		count   int
		fn      func(context.Context) error
	}{
		{"types", "Generating types", len(r.api.Types), r.generateTypes},
		{"errors", "Generating errors", len(r.api.Errors), r.generateErrors},
		{"services", "Generating HTTP services", len(r.api.Services.HTTP), r.generateServices},
		{"channels", "Generating WebSocket channels", len(r.api.Services.WebSocket), r.generateChannels},
	}
	for _, p := range phases {
		r.stage = p.stage
		if p.count == 0 {
			continue
		}
		sink.Stage(p.stage, p.message)
		if err := p.fn(ctx); err != nil {
			return err
		}
	}
	r.stage = "exports"
	return r.checkReachable()
}

func (r *Run) generateTypes(ctx context.Context) error {
	for _, decl := range r.api.Types {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := layout.TypeFile(decl.Name)
		file, created := r.project.File(path)
		if !created {
			return errors.NewInvariantViolation("type %s collides with an existing file %s", decl.Name.Key(), path)
		}
		if err := r.models.Declare(file, layout.TypeSymbol(decl.Name), decl.Shape, decl.Docs); err != nil {
			return errors.Wrapf(err, "type %s", decl.Name.Key())
		}
		if err := r.publish(decl.Name.FernFilepath, layout.TypeSymbol(decl.Name), "type "+decl.Name.Key()); err != nil {
			return err
		}
		if err := r.export(decl.Name.FernFilepath, path, exports.ExportAll); err != nil {
			return err
		}
		r.log.Debugw("Generated type", logger.FieldDeclaration, decl.Name.Key(), logger.FieldFile, path)
	}
	return nil
}

func (r *Run) generateErrors(ctx context.Context) error {
	for _, decl := range r.api.Errors {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := layout.ErrorFile(decl.Name)
		file, created := r.project.File(path)
		if !created {
			return errors.NewInvariantViolation("error %s collides with an existing file %s", decl.Name.Key(), path)
		}
		if err := r.models.Declare(file, layout.ErrorSymbolFor(decl.Name), decl.Shape, decl.Docs); err != nil {
			return errors.Wrapf(err, "error %s", decl.Name.Key())
		}
		if err := r.publish(decl.Name.FernFilepath, layout.ErrorSymbolFor(decl.Name), "error "+decl.Name.Key()); err != nil {
			return err
		}
		if err := r.export(decl.Name.FernFilepath, path, exports.ExportAll); err != nil {
			return err
		}
		r.log.Debugw("Generated error", logger.FieldDeclaration, decl.Name.Key(), logger.FieldFile, path)
	}
	return nil
}

func (r *Run) generateServices(ctx context.Context) error {
	for _, svc := range r.api.Services.HTTP {
		if err := r.publish(svc.Name.FernFilepath, layout.ServiceNamespace(svc.Name), "service "+svc.Name.Key()); err != nil {
			return err
		}
		endpoints := make([]service.Endpoint, 0, len(svc.Endpoints))
		for _, ep := range svc.Endpoints {
			if err := ctx.Err(); err != nil {
				return err
			}
			types, err := r.envelopes.HTTPEndpoint(svc.Name, ep)
			if err != nil {
				return errors.Wrapf(err, "service %s", svc.Name.Key())
			}
			if err := r.exportEndpoint(svc.Name, types); err != nil {
				return err
			}
			endpoints = append(endpoints, service.Endpoint{IR: ep, Types: types})
		}

		file, err := r.services.Generate(svc, endpoints)
		if err != nil {
			return err
		}
		if err := r.export(svc.Name.FernFilepath, file.Path(), exports.Namespace(layout.ServiceNamespace(svc.Name))); err != nil {
			return err
		}
		r.log.Debugw("Generated service",
			logger.FieldDeclaration, svc.Name.Key(),
			logger.FieldCount, len(endpoints),
			logger.FieldFile, file.Path())
	}
	return nil
}

func (r *Run) generateChannels(ctx context.Context) error {
	for _, ch := range r.api.Services.WebSocket {
		if err := r.publish(ch.Name.FernFilepath, layout.ServiceNamespace(ch.Name), "channel "+ch.Name.Key()); err != nil {
			return err
		}
		ops := make([]websocket.Operation, 0, len(ch.Operations))
		for _, op := range ch.Operations {
			if err := ctx.Err(); err != nil {
				return err
			}
			types, err := r.envelopes.WebSocketOperation(ch.Name, op)
			if err != nil {
				return errors.Wrapf(err, "channel %s", ch.Name.Key())
			}
			if err := r.exportEndpoint(ch.Name, types); err != nil {
				return err
			}
			ops = append(ops, websocket.Operation{IR: op, Types: types})
		}

		file, err := r.channels.Generate(ch, ops)
		if err != nil {
			return err
		}
		if err := r.export(ch.Name.FernFilepath, file.Path(), exports.Namespace(layout.ServiceNamespace(ch.Name))); err != nil {
			return err
		}
		r.log.Debugw("Generated channel",
			logger.FieldDeclaration, ch.Name.Key(),
			logger.FieldCount, len(ops),
			logger.FieldFile, file.Path())
	}
	return nil
}

// export registers a file and names every namespace directory above it.
func (r *Run) export(fernFilepath []string, path string, decl exports.Declaration) error {
	for i, seg := range fernFilepath {
		if err := r.publish(fernFilepath[:i], layout.NamespaceSegment(seg), "namespace "+layout.NamespaceDir(fernFilepath[:i+1])); err != nil {
			return err
		}
		r.exports.SetDirectoryExport(layout.NamespaceDir(fernFilepath[:i+1]), exports.Namespace(layout.NamespaceSegment(seg)))
	}
	return r.exports.AddExport(path, decl)
}

// publish claims name in the index of the namespace directory for
// fernFilepath. Types, errors and clients are all re-exported flat through
// that index, so two of them sharing a name would make it ambiguous.
func (r *Run) publish(fernFilepath []string, name, owner string) error {
	dir := layout.NamespaceDir(fernFilepath)
	names, ok := r.published[dir]
	if !ok {
		names = make(map[string]string)
		r.published[dir] = names
	}
	if existing, taken := names[name]; taken {
		if existing == owner {
			return nil
		}
		return errors.WithHint(
			errors.NewInvariantViolation("%s and %s are both exported as %s from %s", existing, owner, name, dir),
			"rename one of them or move it to another namespace",
		)
	}
	names[name] = owner
	return nil
}

func (r *Run) exportEndpoint(owner ir.DeclaredName, types *envelope.Endpoint) error {
	if err := r.publish(owner.FernFilepath, layout.ServiceTypesAlias, "service types"); err != nil {
		return err
	}
	r.exports.SetDirectoryExport(layout.ServiceTypesRoot(owner.FernFilepath), exports.Namespace(layout.ServiceTypesAlias))
	r.exports.SetDirectoryExport(layout.ServiceTypesServiceDir(owner), exports.Namespace(layout.ServiceNamespace(owner)))
	r.exports.SetDirectoryExport(types.Dir, exports.Namespace(layout.EndpointNamespace(types.ID)))
	for _, f := range types.Files() {
		if err := r.export(owner.FernFilepath, f.Path(), exports.ExportAll); err != nil {
			return err
		}
	}
	return nil
}

func (r *Run) checkReachable() error {
	for _, f := range r.project.Files() {
		if !r.exports.Reachable(f.Path()) {
			return errors.NewInvariantViolation("%s is not reachable from %s", f.Path(), layout.PublicRoot)
		}
	}
	return nil
}
