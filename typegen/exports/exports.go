// Package exports builds the barrel tree: one index.ts per directory that
// re-exports its registered children, ending in a root index.ts that exposes
// the whole public surface under one namespace.
package exports

import (
	"path"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

// IndexFile is the barrel file name.
const IndexFile = "index.ts"

// Declaration says how a child is re-exported by its parent directory.
type Declaration struct {
	// NamespaceExport, when set, re-exports the child as
	// `export * as <NamespaceExport> from "./child"`. Otherwise every
	// symbol is re-exported flat.
	NamespaceExport string
}

// ExportAll re-exports every symbol of the child.
var ExportAll = Declaration{}

// Namespace re-exports the child under name.
func Namespace(name string) Declaration { return Declaration{NamespaceExport: name} }

type directory struct {
	path string
	// child base name -> declaration, in registration order
	children *orderedmap.OrderedMap[string, Declaration]
}

// Aggregator collects export registrations for one run.
type Aggregator struct {
	publicRoot string
	dirs       *orderedmap.OrderedMap[string, *directory]
	// explicit directory export declarations
	dirExports map[string]Declaration
}

// New returns an Aggregator for files under publicRoot (e.g. "api").
func New(publicRoot string) *Aggregator {
	return &Aggregator{
		publicRoot: path.Clean(publicRoot),
		dirs:       orderedmap.New[string, *directory](),
		dirExports: make(map[string]Declaration),
	}
}

func (a *Aggregator) dir(p string) *directory {
	d, ok := a.dirs.Get(p)
	if !ok {
		d = &directory{path: p, children: orderedmap.New[string, Declaration]()}
		a.dirs.Set(p, d)
	}
	return d
}

func (a *Aggregator) within(p string) bool {
	return p == a.publicRoot || strings.HasPrefix(p, a.publicRoot+"/")
}

// AddExport registers filePath as visible from its directory and links every
// ancestor directory up to the public root. The first declaration for a file
// wins.
func (a *Aggregator) AddExport(filePath string, decl Declaration) error {
	filePath = path.Clean(filePath)
	if !a.within(filePath) || filePath == a.publicRoot {
		return errors.NewInvariantViolation("export %s is outside %s", filePath, a.publicRoot)
	}
	if path.Base(filePath) == IndexFile {
		return errors.NewInvariantViolation("cannot export barrel file %s", filePath)
	}
	parent := path.Dir(filePath)
	d := a.dir(parent)
	module := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if _, ok := d.children.Get(module); !ok {
		d.children.Set(module, decl)
	}
	a.link(parent)
	return nil
}

// SetDirectoryExport decides how dirPath is re-exported by its parent. It may
// be called before or after files are added under dirPath.
func (a *Aggregator) SetDirectoryExport(dirPath string, decl Declaration) {
	dirPath = path.Clean(dirPath)
	a.dirExports[dirPath] = decl
	parent := path.Dir(dirPath)
	if d, ok := a.dirs.Get(parent); ok {
		if _, linked := d.children.Get(path.Base(dirPath)); linked {
			d.children.Set(path.Base(dirPath), decl)
		}
	}
}

// link registers dirPath with its parent, recursively, up to the public root.
func (a *Aggregator) link(dirPath string) {
	for dirPath != a.publicRoot {
		parent := path.Dir(dirPath)
		d := a.dir(parent)
		base := path.Base(dirPath)
		if _, ok := d.children.Get(base); ok {
			return
		}
		d.children.Set(base, a.dirExports[dirPath])
		dirPath = parent
	}
}

// Reachable reports whether filePath can be reached from the public root by
// following registered re-exports.
func (a *Aggregator) Reachable(filePath string) bool {
	filePath = path.Clean(filePath)
	if !a.within(filePath) {
		return false
	}
	child := strings.TrimSuffix(filePath, path.Ext(filePath))
	for child != a.publicRoot {
		d, ok := a.dirs.Get(path.Dir(child))
		if !ok {
			return false
		}
		if _, ok := d.children.Get(path.Base(child)); !ok {
			return false
		}
		child = path.Dir(child)
	}
	return true
}

// Directories returns the registered directories deepest first, ties in
// registration order.
func (a *Aggregator) Directories() []string {
	var out []string
	for pair := a.dirs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Count(out[i], "/") > strings.Count(out[j], "/")
	})
	return out
}

// Flush writes one barrel per directory bottom-up, then the root index.ts
// re-exporting the public root under rootNamespace.
func (a *Aggregator) Flush(project *tsfile.Project, rootNamespace string) error {
	a.dir(a.publicRoot)
	for _, dirPath := range a.Directories() {
		d, _ := a.dirs.Get(dirPath)
		f, created := project.File(path.Join(dirPath, IndexFile))
		if !created {
			return errors.NewInvariantViolation("barrel %s already exists", f.Path())
		}
		var b strings.Builder
		for pair := d.children.Oldest(); pair != nil; pair = pair.Next() {
			b.WriteString(exportLine(pair.Key, pair.Value))
		}
		if b.Len() == 0 {
			b.WriteString("export {};\n")
		}
		f.AddStatement(b.String())
	}

	root, created := project.File(IndexFile)
	if !created {
		return errors.NewInvariantViolation("root %s already exists", IndexFile)
	}
	root.AddStatement(exportLine(a.publicRoot, Namespace(rootNamespace)))
	return nil
}

func exportLine(child string, decl Declaration) string {
	if decl.NamespaceExport != "" {
		return "export * as " + decl.NamespaceExport + " from \"./" + child + "\";\n"
	}
	return "export * from \"./" + child + "\";\n"
}
