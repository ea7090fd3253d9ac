// Package expand turns dropped roots (files or directory trees) into the
// flat, deduplicated list of leaf files a batch renames.
package expand

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"UUIDRenamer/internal/naming"
)

// LeafFile is a non-directory entry selected for renaming.
type LeafFile struct {
	Path string // absolute, cleaned
	Dir  string // parent directory of Path
	Name string // base name
	Ext  string // extension without dot, possibly empty
}

func newLeaf(path string) LeafFile {
	name := filepath.Base(path)
	return LeafFile{
		Path: path,
		Dir:  filepath.Dir(path),
		Name: name,
		Ext:  naming.Extension(name),
	}
}

// Skipped is an entry left out because its metadata could not be read.
type Skipped struct {
	Path string
	Err  error
}

// Expansion is the result of one Expand call.
type Expansion struct {
	Files   []LeafFile
	Skipped []Skipped
}

// Expander enumerates roots on Fs.
type Expander struct {
	Fs  afero.Fs
	Log zerolog.Logger
}

// Expand returns the leaf files under roots in first-seen order.
//
// A root that is a directory (symlinked directories included) contributes
// every non-directory descendant, visited in lexical order; symlinks found
// below a root are leaves and are never followed. Any other root contributes
// itself. A path already emitted by an earlier root is skipped silently.
// Entries whose metadata cannot be read are recorded in Skipped and never
// abort the expansion.
func (e *Expander) Expand(roots []string) Expansion {
	w := walker{
		fs:   e.Fs,
		log:  e.Log,
		seen: make(map[string]struct{}),
	}
	for _, root := range roots {
		w.root(root)
	}
	return w.out
}

type walker struct {
	fs   afero.Fs
	log  zerolog.Logger
	seen map[string]struct{}
	out  Expansion
}

func (w *walker) root(root string) {
	path, err := Standardize(root)
	if err != nil {
		w.skip(root, err)
		return
	}
	info, err := w.fs.Stat(path)
	if err != nil {
		w.skip(path, err)
		return
	}
	if !info.IsDir() {
		w.add(path)
		return
	}

	// List the root through Stat semantics so a symlinked root directory is
	// entered, then walk each child without following links.
	children, err := afero.ReadDir(w.fs, path)
	if err != nil {
		w.skip(path, err)
		return
	}
	for _, child := range children {
		_ = afero.Walk(w.fs, filepath.Join(path, child.Name()), w.visit)
	}
}

func (w *walker) visit(path string, info os.FileInfo, err error) error {
	if err != nil {
		w.skip(path, err)
		// Returning nil keeps walking siblings; an unreadable directory's
		// subtree is simply left out.
		return nil
	}
	if info.IsDir() {
		return nil
	}
	w.add(path)
	return nil
}

func (w *walker) add(path string) {
	if _, dup := w.seen[path]; dup {
		return
	}
	w.seen[path] = struct{}{}
	w.out.Files = append(w.out.Files, newLeaf(path))
}

func (w *walker) skip(path string, err error) {
	w.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
	w.out.Skipped = append(w.out.Skipped, Skipped{Path: path, Err: err})
}

// Standardize returns the absolute, cleaned form of path used as the
// deduplication key.
func Standardize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
