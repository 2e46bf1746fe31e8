// Package service emits the HTTP client for one service: a Service interface
// with one method per endpoint and a fetch-based Client implementing it.
package service

import (
	"regexp"
	"strings"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/encoding"
	"github.com/teranos/tsclientgen/typegen/envelope"
	"github.com/teranos/tsclientgen/typegen/layout"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

const (
	requestParam = "request"
	queryLocal   = "queryParameters"
	responseVar  = "response"
	originMember = "origin"
	headerMember = "headers"
)

var pathParam = regexp.MustCompile(`\{([^{}]+)\}`)

// Endpoint pairs an IR endpoint with its emitted service types.
type Endpoint struct {
	IR    ir.HTTPEndpoint
	Types *envelope.Endpoint
}

// Generator emits client/<Service>.ts files.
type Generator struct {
	project  *tsfile.Project
	refs     *reference.Resolver
	deps     *dependencies.Manager
	encoders *encoding.Encoders
}

// New returns a Generator.
func New(project *tsfile.Project, refs *reference.Resolver, deps *dependencies.Manager, encoders *encoding.Encoders) *Generator {
	return &Generator{project: project, refs: refs, deps: deps, encoders: encoders}
}

type method struct {
	name      string
	docs      string
	params    string
	returns   string
	body      string
	hasBody   bool
	errorBody string
}

// Generate writes the client file for svc.
func (g *Generator) Generate(svc ir.HTTPService, endpoints []Endpoint) (*tsfile.File, error) {
	file, created := g.project.File(layout.ServiceFile(svc.Name))
	if !created {
		return nil, errors.NewInvariantViolation("service %s generated twice", svc.Name.Key())
	}
	for _, symbol := range []string{layout.ServiceSymbol, layout.ClientSymbol} {
		if err := file.Declare(symbol); err != nil {
			return nil, err
		}
	}

	file.Reserve(originMember, headerMember)
	encoder, err := g.encoders.Default(file)
	if err != nil {
		return nil, errors.Wrapf(err, "service %s", svc.Name.Key())
	}

	methods := make([]method, 0, len(endpoints))
	for _, ep := range endpoints {
		m, err := g.endpoint(file, svc, ep)
		if err != nil {
			return nil, errors.Wrapf(err, "service %s endpoint %s", svc.Name.Key(), ep.IR.ID)
		}
		switch m.name {
		case originMember, headerMember, encoding.Member:
			return nil, errors.WithHint(
				errors.NewInvariantViolation("service %s endpoint %s shadows the client's %s member", svc.Name.Key(), ep.IR.ID, m.name),
				"rename the endpoint",
			)
		}
		methods = append(methods, m)
	}

	var w tsfile.Writer
	w.Docs(svc.Docs)
	w.Block("export interface "+layout.ServiceSymbol+" {", "}", func() {
		for _, m := range methods {
			w.Docs(m.docs)
			w.Line("%s(%s): %s;", m.name, m.params, m.returns)
		}
	})
	file.AddStatement(w.String())

	w = tsfile.Writer{}
	w.Block("export class "+layout.ClientSymbol+" implements "+layout.ServiceSymbol+" {", "}", func() {
		w.Line("constructor(private readonly %s: string, private readonly %s: Record<string, string> = {}, %s) {}",
			originMember, headerMember, encoding.Parameter("body", encoder))
		for _, m := range methods {
			w.Line("")
			w.Block("public async "+m.name+"("+m.params+"): "+m.returns+" {", "}", func() {
				w.Embed(m.body)
			})
		}
	})
	file.AddStatement(w.String())
	return file, nil
}

func (g *Generator) endpoint(file *tsfile.File, svc ir.HTTPService, ep Endpoint) (method, error) {
	types := ep.Types
	if types == nil || types.Response == nil || types.ErrorBody == nil {
		return method{}, errors.NewInvariantViolation("endpoint %s has no response types", ep.IR.ID)
	}
	ns := file.ImportNamespace(types.Dir, layout.EndpointNamespace(ep.IR.ID))
	m := method{
		name:    naming.MemberName(ep.IR.ID),
		docs:    ep.IR.Docs,
		returns: "Promise<" + ns + "." + layout.ResponseSymbol + ">",
	}

	var bodyExpr string
	switch types.Kind {
	case envelope.RequestBody:
		text, err := g.refs.Render(types.Body, file, reference.NamespaceImport)
		if err != nil {
			return method{}, err
		}
		m.params = requestParam + ": " + text
		bodyExpr = requestParam
	case envelope.RequestWrapper:
		if types.Request == nil {
			return method{}, errors.NewInvariantViolation("endpoint %s has no request wrapper", ep.IR.ID)
		}
		m.params = requestParam + ": " + ns + "." + layout.RequestSymbol
		if types.Body != nil {
			bodyExpr = naming.PropertyAccess(requestParam, envelope.BodyProperty)
		}
	}

	url, err := urlExpression(svc.BasePath+ep.IR.Path, ep.IR.PathParameters)
	if err != nil {
		return method{}, err
	}

	var w tsfile.Writer
	if len(ep.IR.QueryParameters) > 0 {
		w.Line("const %s = new URLSearchParams();", queryLocal)
		for _, q := range ep.IR.QueryParameters {
			access := naming.PropertyAccess(requestParam, q.Key)
			appendLine := queryLocal + ".append(" + naming.StringLiteral(q.Key) + ", String(" + access + "));"
			if _, optional := q.ValueType.(ir.OptionalType); optional {
				w.Block("if ("+access+" != null) {", "}", func() {
					w.Line(appendLine)
				})
			} else {
				w.Line(appendLine)
			}
		}
		w.Line("")
		url += "?${" + queryLocal + ".toString()}"
	}

	verb := ep.IR.Method
	if verb == "" {
		verb = ir.POST
	}
	w.Block("const "+responseVar+" = await fetch(`"+url+"`, {", "});", func() {
		w.Line("method: %s,", naming.StringLiteral(string(verb)))
		w.Line(`headers: { "Content-Type": "application/json", ...this.%s },`, headerMember)
		if bodyExpr != "" {
			w.Line("body: %s,", encoding.Call(bodyExpr))
		}
	})
	w.Line("")

	w.Block("if ("+responseVar+".ok) {", "}", func() {
		if types.HasSuccessBody {
			w.Block("return {", "};", func() {
				w.Line("%s: true,", envelope.OKProperty)
				w.Line("%s: await %s.json(),", envelope.BodyProperty, responseVar)
			})
		} else {
			w.Line("return { %s: true };", envelope.OKProperty)
		}
	})
	w.Line("")

	// The stamped key must match the one ErrorBody declares for this endpoint.
	errorKey := ep.IR.Errors.ErrorProperties.ErrorInstanceID
	if errorKey == "" {
		return method{}, errors.NewInvariantViolation("endpoint %s has no error instance key", ep.IR.ID)
	}
	id, err := envelope.UUIDCall(file, g.deps)
	if err != nil {
		return method{}, err
	}
	w.Block("return {", "};", func() {
		w.Line("%s: false,", envelope.OKProperty)
		w.Block(envelope.BodyProperty+": {", "},", func() {
			w.Line("...(await %s.json()),", responseVar)
			w.Line("%s: %s,", naming.PropertyKey(errorKey), id)
		})
	})

	m.body = w.String()
	return m, nil
}

// urlExpression turns "/shapes/{shapeId}" into the body of a template literal
// that interpolates encoded path parameters from the request wrapper.
func urlExpression(path string, params []ir.Parameter) (string, error) {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Key] = true
	}

	var b strings.Builder
	b.WriteString("${this." + originMember + "}")
	last := 0
	for _, loc := range pathParam.FindAllStringSubmatchIndex(path, -1) {
		key := path[loc[2]:loc[3]]
		if !declared[key] {
			return "", errors.NewUnresolvedReference("path parameter", key)
		}
		b.WriteString(escapeTemplate(path[last:loc[0]]))
		b.WriteString("${encodeURIComponent(String(" + naming.PropertyAccess(requestParam, key) + "))}")
		last = loc[1]
	}
	b.WriteString(escapeTemplate(path[last:]))
	return b.String(), nil
}

func escapeTemplate(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	return strings.ReplaceAll(s, "${", "\\${")
}
