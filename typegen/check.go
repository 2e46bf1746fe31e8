package typegen

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/typegen/layout"
)

// CheckResult holds the result of a drift check.
type CheckResult struct {
	UpToDate bool
	Changed  []string // present in both trees with different content
	Missing  []string // generated but absent from the existing tree
	Stale    []string // present in the existing tree but no longer generated
}

// Err returns ErrDrift describing the differences, or nil when up to date.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	err := errors.Mark(errors.Newf("%d changed, %d missing, %d stale",
		len(r.Changed), len(r.Missing), len(r.Stale)), errors.ErrDrift)
	for _, p := range r.Changed {
		err = errors.WithDetailf(err, "changed: %s", p)
	}
	for _, p := range r.Missing {
		err = errors.WithDetailf(err, "missing: %s", p)
	}
	for _, p := range r.Stale {
		err = errors.WithDetailf(err, "stale: %s", p)
	}
	return errors.WithHint(err, "run `tsclientgen generate` and commit the result")
}

// RestrictStale keeps only stale entries the generator owns: .ts files
// under the layout root. Everything else in a package directory (dist,
// hand-written sources) is the user's business.
func (r *CheckResult) RestrictStale() {
	kept := r.Stale[:0]
	for _, p := range r.Stale {
		if strings.HasPrefix(p, layout.PublicRoot+"/") && strings.HasSuffix(p, layout.Extension) {
			kept = append(kept, p)
		}
	}
	r.Stale = kept
	r.UpToDate = len(r.Changed)+len(r.Missing)+len(r.Stale) == 0
}

// CompareDirectories compares a freshly generated tree with an existing one.
// Both are read from fsys; pass afero.NewOsFs() for real directories. Lines
// starting with "// Code generated by" are ignored so the generator's own
// banner never counts as drift. Paths are reported relative and sorted.
func CompareDirectories(fsys afero.Fs, generatedDir, existingDir string) (*CheckResult, error) {
	generated, err := listFiles(fsys, generatedDir)
	if err != nil {
		return nil, err
	}
	existing, err := listFiles(fsys, existingDir)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for rel := range generated {
		if !existing[rel] {
			result.Missing = append(result.Missing, rel)
			continue
		}
		different, err := filesAreDifferent(fsys, filepath.Join(generatedDir, rel), filepath.Join(existingDir, rel))
		if err != nil {
			return nil, err
		}
		if different {
			result.Changed = append(result.Changed, rel)
		}
	}
	for rel := range existing {
		if !generated[rel] {
			result.Stale = append(result.Stale, rel)
		}
	}

	sort.Strings(result.Changed)
	sort.Strings(result.Missing)
	sort.Strings(result.Stale)
	result.UpToDate = len(result.Changed)+len(result.Missing)+len(result.Stale) == 0
	return result, nil
}

// listFiles returns slash-separated paths of regular files under dir. A
// missing dir is an empty tree.
func listFiles(fsys afero.Fs, dir string) (map[string]bool, error) {
	files := make(map[string]bool)
	if _, err := fsys.Stat(dir); os.IsNotExist(err) {
		return files, nil
	}
	err := afero.Walk(fsys, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != dir && shouldSkipFile(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldSkipFile(filepath.Base(p)) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	return files, nil
}

// shouldSkipFile returns true for files packaging tools leave behind.
func shouldSkipFile(basename string) bool {
	switch basename {
	case "node_modules", "package-lock.json", ".DS_Store":
		return true
	}
	return false
}

// filesAreDifferent compares two files ignoring generator banner lines.
func filesAreDifferent(fsys afero.Fs, file1, file2 string) (bool, error) {
	content1, err := afero.ReadFile(fsys, file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := afero.ReadFile(fsys, file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	if bytes.Equal(content1, content2) {
		return false, nil
	}
	return filterBannerLines(content1) != filterBannerLines(content2), nil
}

// filterBannerLines removes "// Code generated by" lines. Returns an empty
// string if the scanner fails, which makes the comparison fail.
func filterBannerLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "// Code generated by") {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}
