// Package websocket emits the channel client for request/response operations
// over one persistent socket. Replies are matched to calls by correlation id.
package websocket

import (
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

// Members of the emitted class.
const (
	socketMember    = "socket"
	callbacksMember = "callbacks"
	handlerMember   = "handleMessage"
	originParam     = "origin"
	requestParam    = "request"
	messageLocal    = "message"
)

// Generator emits one Channel class per WebSocket channel.
type Generator struct {
	project  *tsfile.Project
	refs     *reference.Resolver
	deps     *dependencies.Manager
	encoders *encoding.Encoders
}

// New returns a Generator writing into project.
func New(project *tsfile.Project, refs *reference.Resolver, deps *dependencies.Manager, encoders *encoding.Encoders) *Generator {
	return &Generator{project: project, refs: refs, deps: deps, encoders: encoders}
}

// Operation pairs an IR operation with the service types emitted for it.
type Operation struct {
	IR    ir.WebSocketOperation
	Types *envelope.Endpoint
}

// Generate writes client/<Channel>.ts and returns the file.
func (g *Generator) Generate(channel ir.WebSocketChannel, ops []Operation) (*tsfile.File, error) {
	file, created := g.project.File(layout.ServiceFile(channel.Name))
	if !created {
		return nil, errors.NewInvariantViolation("channel %s generated twice", channel.Name.Key())
	}
	if err := file.Declare(layout.ChannelSymbol); err != nil {
		return nil, err
	}

	file.Reserve(originParam)
	encoder, err := g.encoders.Default(file)
	if err != nil {
		return nil, errors.Wrapf(err, "channel %s", channel.Name.Key())
	}

	methods := make([]string, 0, len(ops))
	for _, op := range ops {
		switch name := naming.MemberName(op.IR.ID); name {
		case socketMember, callbacksMember, handlerMember, encoding.Member:
			return nil, errors.WithHint(
				errors.NewInvariantViolation("channel %s operation %s shadows the channel's %s member", channel.Name.Key(), op.IR.ID, name),
				"rename the operation",
			)
		}
		method, err := g.operation(file, op)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %s operation %s", channel.Name.Key(), op.IR.ID)
		}
		methods = append(methods, method)
	}

	var w tsfile.Writer
	w.Docs(channel.Docs)
	w.Block("export class "+layout.ChannelSymbol+" {", "}", func() {
		w.Line("private readonly %s: Promise<WebSocket>;", socketMember)
		w.Line("private readonly %s = new Map<string, (response: any) => void>();", callbacksMember)
		w.Line("")
		w.Block("constructor("+originParam+": string, "+encoding.Parameter("message", encoder)+") {", "}", func() {
			w.Block("this."+socketMember+" = new Promise((resolve) => {", "});", func() {
				w.Line("const socket = new WebSocket(%s + %s);", originParam, naming.StringLiteral(channel.Path))
				w.Line(`socket.addEventListener("open", () => resolve(socket));`)
				w.Line(`socket.addEventListener("message", (event) => this.%s(event));`, handlerMember)
			})
		})
		for _, m := range methods {
			w.Line("")
			w.Embed(m)
		}
		w.Line("")
		w.Block("private "+handlerMember+"(event: MessageEvent): void {", "}", func() {
			w.Line("const message = JSON.parse(event.data);")
			w.Line("const callback = this.%s.get(message.%s);", callbacksMember, envelope.IDProperty)
			w.Block("if (callback == null) {", "}", func() {
				w.Line("return;")
			})
			w.Line("this.%s.delete(message.%s);", callbacksMember, envelope.IDProperty)
			w.Line("callback(message);")
		})
	})
	file.AddStatement(w.String())
	return file, nil
}

// operation renders one method at depth zero; Generate re-indents it.
func (g *Generator) operation(file *tsfile.File, op Operation) (string, error) {
	types := op.Types
	if types == nil || types.Request == nil {
		return "", errors.NewInvariantViolation("operation %s has no request wrapper", op.IR.ID)
	}

	ns := file.ImportNamespace(types.Dir, layout.EndpointNamespace(op.IR.ID))

	params := ""
	if types.Body != nil {
		bodyText, err := g.refs.Render(types.Body, file, reference.NamespaceImport)
		if err != nil {
			return "", err
		}
		params = requestParam + ": " + bodyText
	}
	id, err := envelope.UUIDCall(file, g.deps)
	if err != nil {
		return "", err
	}

	var w tsfile.Writer
	w.Docs(op.IR.Docs)
	signature := "public async " + naming.MemberName(op.IR.ID) + "(" + params + "): Promise<" + ns + "." + layout.ResponseSymbol + "> {"
	w.Block(signature, "}", func() {
		w.Line("const socket = await this.%s;", socketMember)
		w.Block("return new Promise((resolve) => {", "});", func() {
			w.Block("const "+messageLocal+": "+ns+"."+layout.RequestSymbol+" = {", "};", func() {
				if types.Body != nil && types.BodyExtendable {
					w.Line("...%s,", requestParam)
				}
				w.Line("%s: %s,", envelope.IDProperty, id)
				w.Line("%s: %s,", envelope.OperationProperty, naming.StringLiteral(op.IR.ID))
				if types.Body != nil && !types.BodyExtendable {
					w.Line("%s: %s,", envelope.BodyProperty, requestParam)
				}
			})
			w.Line("this.%s.set(%s.%s, resolve);", callbacksMember, messageLocal, envelope.IDProperty)
			w.Line("socket.send(%s);", encoding.Call(messageLocal))
		})
	})
	return w.String(), nil
}
