package tsfile

import (
	"path"
	"strings"

	"github.com/spf13/afero"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/tsclientgen/errors"
)

// Project owns every file generated in one run. Files are created on first
// request and reused afterwards, so generation order never matters for
// cross-file references.
type Project struct {
	files *orderedmap.OrderedMap[string, *File]
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{files: orderedmap.New[string, *File]()}
}

// File returns the file at p, creating it if needed. The second result is
// true when the file was created by this call.
func (p *Project) File(filePath string) (*File, bool) {
	filePath = path.Clean(filePath)
	if f, ok := p.files.Get(filePath); ok {
		return f, false
	}
	f := newFile(filePath)
	p.files.Set(filePath, f)
	return f, true
}

// Lookup returns the file at p without creating it.
func (p *Project) Lookup(filePath string) (*File, bool) {
	return p.files.Get(path.Clean(filePath))
}

// Files returns all files in creation order.
func (p *Project) Files() []*File {
	out := make([]*File, 0, p.files.Len())
	for pair := p.files.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of files.
func (p *Project) Len() int { return p.files.Len() }

// WriteTo renders every file into fs under root.
func (p *Project) WriteTo(fs afero.Fs, root string) error {
	for pair := p.files.Oldest(); pair != nil; pair = pair.Next() {
		target := path.Join(root, pair.Key)
		if err := fs.MkdirAll(path.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", pair.Key)
		}
		if err := afero.WriteFile(fs, target, []byte(pair.Value.Content()), 0o644); err != nil {
			return errors.Wrapf(err, "failed to stage %s", pair.Key)
		}
	}
	return nil
}

// Dir returns the slash directory of a project path, "" for root-level files.
func Dir(filePath string) string {
	d := path.Dir(filePath)
	if d == "." {
		return ""
	}
	return d
}

// Join joins path segments, skipping empty ones.
func Join(elem ...string) string {
	var parts []string
	for _, e := range elem {
		if e = strings.Trim(e, "/"); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}
