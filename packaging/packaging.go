// Package packaging turns a staged generation Result into an npm package on
// disk: package.json, tsconfig.json and the generated sources.
package packaging

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/typegen"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/layout"
)

// File names written next to the sources.
const (
	ManifestFile = "package.json"
	TSConfigFile = "tsconfig.json"
)

// TypeScript is the compiler every generated package builds with.
var TypeScript = dependencies.Dependency{Name: "typescript", VersionRange: "^5.4.0"}

// Options describe the package being produced.
type Options struct {
	Name    string
	Version string
	Private bool
}

type manifest struct {
	Name             string                                 `json:"name"`
	Version          string                                 `json:"version"`
	Private          bool                                   `json:"private,omitempty"`
	Main             string                                 `json:"main"`
	Types            string                                 `json:"types"`
	Scripts          *orderedmap.OrderedMap[string, string] `json:"scripts"`
	Dependencies     *orderedmap.OrderedMap[string, string] `json:"dependencies,omitempty"`
	PeerDependencies *orderedmap.OrderedMap[string, string] `json:"peerDependencies,omitempty"`
	DevDependencies  *orderedmap.OrderedMap[string, string] `json:"devDependencies"`
}

// Manifest renders package.json. Dependencies keep registration order;
// PreferPeer dependencies become peer dependencies and are also installed as
// dev dependencies so the package builds on its own.
func Manifest(deps []dependencies.Dependency, opts Options) ([]byte, error) {
	if opts.Name == "" {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "package name is empty")
	}
	m := manifest{
		Name:            opts.Name,
		Version:         opts.Version,
		Private:         opts.Private,
		Main:            "dist/index.js",
		Types:           "dist/index.d.ts",
		Scripts:         orderedmap.New[string, string](),
		DevDependencies: orderedmap.New[string, string](),
	}
	m.Scripts.Set("build", "tsc")

	for _, d := range deps {
		if d.PreferPeer {
			if m.PeerDependencies == nil {
				m.PeerDependencies = orderedmap.New[string, string]()
			}
			m.PeerDependencies.Set(d.Name, d.VersionRange)
			m.DevDependencies.Set(d.Name, d.VersionRange)
			continue
		}
		if m.Dependencies == nil {
			m.Dependencies = orderedmap.New[string, string]()
		}
		m.Dependencies.Set(d.Name, d.VersionRange)
	}
	m.DevDependencies.Set(TypeScript.Name, TypeScript.VersionRange)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode package.json")
	}
	return append(data, '\n'), nil
}

// TSConfig renders tsconfig.json.
func TSConfig() []byte {
	return []byte(`{
  "compilerOptions": {
    "target": "ES2020",
    "module": "CommonJS",
    "moduleResolution": "node",
    "lib": ["ES2020", "DOM"],
    "declaration": true,
    "strict": true,
    "esModuleInterop": true,
    "skipLibCheck": true,
    "outDir": "dist"
  },
  "include": ["` + layout.RootIndex + `", "` + layout.PublicRoot + `/**/*.ts"]
}
`)
}

// Stage adds package.json and tsconfig.json to the result's staging volume.
func Stage(result *typegen.Result, opts Options) error {
	data, err := Manifest(result.Dependencies, opts)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(result.FS, filepath.Join(typegen.StagingRoot, ManifestFile), data, 0o644); err != nil {
		return errors.Wrap(err, "failed to stage package.json")
	}
	if err := afero.WriteFile(result.FS, filepath.Join(typegen.StagingRoot, TSConfigFile), TSConfig(), 0o644); err != nil {
		return errors.Wrap(err, "failed to stage tsconfig.json")
	}
	return nil
}

// FlushStats counts what Flush did.
type FlushStats struct {
	Written   int
	Unchanged int
	Removed   int
}

// Flush copies every file from src (rooted at srcRoot) into dstDir on dst,
// writing only files whose content changed so file watchers stay quiet. With
// prune, generated sources under dstDir that src no longer has are removed.
func Flush(ctx context.Context, src afero.Fs, srcRoot string, dst afero.Fs, dstDir string, prune bool) (FlushStats, error) {
	var stats FlushStats
	keep := make(map[string]bool)

	err := afero.Walk(src, srcRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return err
		}
		keep[filepath.ToSlash(rel)] = true

		content, err := afero.ReadFile(src, p)
		if err != nil {
			return errors.Wrapf(err, "failed to read staged %s", rel)
		}
		target := filepath.Join(dstDir, rel)
		if existing, err := afero.ReadFile(dst, target); err == nil && bytes.Equal(existing, content) {
			stats.Unchanged++
			return nil
		}
		if err := dst.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", rel)
		}
		if err := afero.WriteFile(dst, target, content, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", rel)
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return stats, err
	}
	if !prune {
		return stats, nil
	}

	removed, err := pruneStale(dst, dstDir, keep)
	stats.Removed = removed
	return stats, err
}

// pruneStale removes .ts files under dstDir/api that are not in keep. Only
// the generated tree is touched.
func pruneStale(dst afero.Fs, dstDir string, keep map[string]bool) (int, error) {
	root := filepath.Join(dstDir, layout.PublicRoot)
	if _, err := dst.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}
	var stale []string
	err := afero.Walk(dst, root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(p) != layout.Extension {
			return err
		}
		rel, err := filepath.Rel(dstDir, p)
		if err != nil {
			return err
		}
		if !keep[filepath.ToSlash(rel)] {
			stale = append(stale, p)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to scan %s", root)
	}
	for _, p := range stale {
		if err := dst.Remove(p); err != nil {
			return 0, errors.Wrapf(err, "failed to remove stale %s", p)
		}
	}
	return len(stale), nil
}

// RunHook runs a post-generation command (e.g. "npx prettier --write .") in
// dir. The command line is split with shell quoting rules but no shell is
// involved.
func RunHook(ctx context.Context, command, dir string) ([]byte, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hook command %q", command)
	}
	if len(args) == 0 {
		return nil, nil
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, errors.WithDetail(errors.Wrapf(err, "hook %q failed", args[0]), string(out))
	}
	return out, nil
}
