// Package envelope emits the per-endpoint service types: the request wrapper,
// the success/error response envelope and the error body union.
package envelope

import (
	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/layout"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/tsfile"
	"github.com/teranos/tsclientgen/typegen/union"
)

// Property names fixed by the wire format.
const (
	BodyProperty      = "body"
	OKProperty        = "ok"
	IDProperty        = "id"
	OperationProperty = "operation"
)

// RequestKind says how a call's input reaches the method signature.
type RequestKind int

const (
	// RequestNone: the method takes no argument.
	RequestNone RequestKind = iota
	// RequestBody: the body type is the argument; no wrapper is emitted.
	RequestBody
	// RequestWrapper: Request.ts wraps parameters and body.
	RequestWrapper
)

// Endpoint describes what was emitted for one endpoint or operation.
type Endpoint struct {
	ID   string
	Dir  string
	Kind RequestKind

	// Body is the request body type, nil when void.
	Body           ir.TypeReference
	BodyExtendable bool
	HasSuccessBody bool

	Request   *tsfile.File // nil unless Kind is RequestWrapper
	Response  *tsfile.File
	ErrorBody *tsfile.File
}

// Files returns the emitted files in creation order.
func (e *Endpoint) Files() []*tsfile.File {
	var files []*tsfile.File
	if e.Request != nil {
		files = append(files, e.Request)
	}
	return append(files, e.ErrorBody, e.Response)
}

// Generator emits service types into a project.
type Generator struct {
	project *tsfile.Project
	refs    *reference.Resolver
	unions  *union.Generator
	deps    *dependencies.Manager
}

// New returns a Generator writing into project.
func New(project *tsfile.Project, refs *reference.Resolver, unions *union.Generator, deps *dependencies.Manager) *Generator {
	return &Generator{project: project, refs: refs, unions: unions, deps: deps}
}

// UUIDCall imports uuid's v4 into file, registers the runtime dependency and
// returns the call expression.
func UUIDCall(file *tsfile.File, deps *dependencies.Manager) (string, error) {
	if err := deps.Add(dependencies.UUID); err != nil {
		return "", err
	}
	if err := deps.Add(dependencies.UUIDTypes); err != nil {
		return "", err
	}
	return file.ImportPackage("uuid", "v4", "uuidv4") + "()", nil
}

func (g *Generator) open(filePath string) (*tsfile.File, error) {
	file, created := g.project.File(filePath)
	if !created {
		return nil, errors.NewInvariantViolation("%s generated twice", filePath)
	}
	return file, nil
}

func bodyType(body *ir.RequestBody) ir.TypeReference {
	if body == nil {
		return nil
	}
	return body.Type
}

func responseType(body *ir.ResponseBody) ir.TypeReference {
	if body == nil {
		return nil
	}
	return body.Type
}

// nonVoid returns ref, or nil when it resolves to void.
func (g *Generator) nonVoid(ref ir.TypeReference) (ir.TypeReference, error) {
	void, err := g.refs.Types().IsVoid(ref)
	if err != nil || void {
		return nil, err
	}
	return ref, nil
}

// HTTPEndpoint emits Request.ts (when needed), Response.ts and ErrorBody.ts.
func (g *Generator) HTTPEndpoint(service ir.DeclaredName, ep ir.HTTPEndpoint) (*Endpoint, error) {
	out := &Endpoint{ID: ep.ID, Dir: layout.EndpointDir(service, ep.ID)}

	body, err := g.nonVoid(bodyType(ep.Request))
	if err != nil {
		return nil, errors.Wrapf(err, "%s request", ep.ID)
	}
	out.Body = body

	params := len(ep.PathParameters) + len(ep.QueryParameters)
	switch {
	case params == 0 && body == nil:
		out.Kind = RequestNone
	case params == 0:
		out.Kind = RequestBody
	default:
		out.Kind = RequestWrapper
		if out.Request, err = g.open(layout.RequestFile(service, ep.ID)); err != nil {
			return nil, err
		}
		if err := g.httpRequest(out.Request, ep, body); err != nil {
			return nil, errors.Wrapf(err, "%s request", ep.ID)
		}
	}

	if err := g.responses(service, ep.ID, responseType(ep.Response), ep.Errors, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) httpRequest(file *tsfile.File, ep ir.HTTPEndpoint, body ir.TypeReference) error {
	if err := file.Declare(layout.RequestSymbol); err != nil {
		return err
	}

	var w tsfile.Writer
	var renderErr error
	property := func(key string, ref ir.TypeReference, docs string, optionalAllowed bool) {
		if renderErr != nil {
			return
		}
		text, err := g.refs.Render(ref, file, reference.NamespaceImport)
		if err != nil {
			renderErr = errors.Wrapf(err, "parameter %s", key)
			return
		}
		w.Docs(docs)
		if _, optional := ref.(ir.OptionalType); optional && optionalAllowed {
			w.Line("%s?: %s;", naming.PropertyKey(key), text)
		} else {
			w.Line("%s: %s;", naming.PropertyKey(key), text)
		}
	}

	w.Docs(ep.Docs)
	w.Block("export interface "+layout.RequestSymbol+" {", "}", func() {
		for _, p := range ep.PathParameters {
			property(p.Key, p.ValueType, p.Docs, false)
		}
		for _, p := range ep.QueryParameters {
			property(p.Key, p.ValueType, p.Docs, true)
		}
		if body != nil {
			property(BodyProperty, body, ep.Request.Docs, false)
		}
	})
	if renderErr != nil {
		return renderErr
	}
	file.AddStatement(w.String())
	return nil
}

// WebSocketOperation emits Request.ts, Response.ts and ErrorBody.ts. The
// request always exists because it carries the correlation id and the
// operation tag.
func (g *Generator) WebSocketOperation(channel ir.DeclaredName, op ir.WebSocketOperation) (*Endpoint, error) {
	out := &Endpoint{ID: op.ID, Dir: layout.EndpointDir(channel, op.ID), Kind: RequestWrapper}

	body, err := g.nonVoid(bodyType(op.Request))
	if err != nil {
		return nil, errors.Wrapf(err, "%s request", op.ID)
	}
	out.Body = body
	if body != nil {
		if out.BodyExtendable, err = g.spreadable(body); err != nil {
			return nil, errors.Wrapf(err, "%s request", op.ID)
		}
	}

	if out.Request, err = g.open(layout.RequestFile(channel, op.ID)); err != nil {
		return nil, err
	}
	if err := g.wsRequest(out.Request, op, out); err != nil {
		return nil, errors.Wrapf(err, "%s request", op.ID)
	}

	id := []string{IDProperty + ": string;"}
	if err := g.responses(channel, op.ID, responseType(op.Response), op.Errors, id, out); err != nil {
		return nil, err
	}
	return out, nil
}

// spreadable reports whether a WebSocket request body can be merged into the
// request envelope. Objects that declare their own id or operation property
// are nested under body instead.
func (g *Generator) spreadable(body ir.TypeReference) (bool, error) {
	extendable, err := g.refs.Types().IsReferenceExtendable(body)
	if err != nil || !extendable {
		return false, err
	}
	keys, err := g.refs.Types().PropertyKeys(body)
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		if key == IDProperty || key == OperationProperty {
			return false, nil
		}
	}
	return true, nil
}

func (g *Generator) wsRequest(file *tsfile.File, op ir.WebSocketOperation, out *Endpoint) error {
	if err := file.Declare(layout.RequestSymbol); err != nil {
		return err
	}

	var bodyText string
	if out.Body != nil {
		text, err := g.refs.Render(out.Body, file, reference.NamespaceImport)
		if err != nil {
			return err
		}
		bodyText = text
	}

	var w tsfile.Writer
	w.Docs(op.Docs)
	header := "export interface " + layout.RequestSymbol
	if out.BodyExtendable {
		header += " extends " + bodyText
	}
	w.Block(header+" {", "}", func() {
		w.Line("%s: string;", IDProperty)
		w.Line("%s: %s;", OperationProperty, naming.StringLiteral(op.ID))
		if out.Body != nil && !out.BodyExtendable {
			if op.Request != nil {
				w.Docs(op.Request.Docs)
			}
			w.Line("%s: %s;", BodyProperty, bodyText)
		}
	})
	file.AddStatement(w.String())
	return nil
}

// responses emits Response.ts and ErrorBody.ts. extra lines are added to both
// envelope interfaces after the ok tag.
func (g *Generator) responses(owner ir.DeclaredName, id string, success ir.TypeReference, failed ir.FailedResponse, extra []string, out *Endpoint) error {
	var err error
	if out.ErrorBody, err = g.open(layout.ErrorBodyFile(owner, id)); err != nil {
		return err
	}
	if err := g.errorBody(out.ErrorBody, failed); err != nil {
		return errors.Wrapf(err, "%s error body", id)
	}

	if out.Response, err = g.open(layout.ResponseFile(owner, id)); err != nil {
		return err
	}
	file := out.Response
	for _, symbol := range []string{layout.ResponseSymbol, layout.SuccessSymbol, layout.ErrorSymbol} {
		if err := file.Declare(symbol); err != nil {
			return err
		}
	}

	success, err = g.nonVoid(success)
	if err != nil {
		return errors.Wrapf(err, "%s response", id)
	}
	var successText string
	if success != nil {
		out.HasSuccessBody = true
		if successText, err = g.refs.Render(success, file, reference.NamespaceImport); err != nil {
			return errors.Wrapf(err, "%s response", id)
		}
	}
	errorBodyText := reference.Symbol(file, layout.Module(out.ErrorBody.Path()), layout.ErrorBodySymbol, reference.NamedImport)

	var w tsfile.Writer
	w.Line("export type %s = %s | %s;", layout.ResponseSymbol, layout.SuccessSymbol, layout.ErrorSymbol)
	file.AddStatement(w.String())

	envelope := func(symbol string, ok bool, body string) string {
		var w tsfile.Writer
		w.Block("export interface "+symbol+" {", "}", func() {
			w.Line("%s: %t;", OKProperty, ok)
			for _, line := range extra {
				w.Line(line)
			}
			if body != "" {
				w.Line("%s: %s;", BodyProperty, body)
			}
		})
		return w.String()
	}
	file.AddStatement(envelope(layout.SuccessSymbol, true, successText))
	file.AddStatement(envelope(layout.ErrorSymbol, false, errorBodyText))
	return nil
}

func (g *Generator) errorBody(file *tsfile.File, failed ir.FailedResponse) error {
	variants := make([]union.Variant, len(failed.Errors))
	for i, e := range failed.Errors {
		variants[i] = union.Variant{
			DiscriminantValue: e.DiscriminantValue,
			Docs:              e.Docs,
			Payload:           union.ErrorPayload(e.Error),
		}
	}
	return g.unions.Generate(union.Args{
		File:         file,
		TypeName:     layout.ErrorBodySymbol,
		Docs:         failed.Docs,
		Discriminant: failed.Discriminant,
		Variants:     variants,
		AdditionalProperties: []union.AdditionalProperty{{
			Key:       failed.ErrorProperties.ErrorInstanceID,
			ValueType: ir.Prim(ir.String),
			ValueConstructor: func(file *tsfile.File) (string, error) {
				return UUIDCall(file, g.deps)
			},
		}},
	})
}
