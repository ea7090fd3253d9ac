// Package fsops provides the rename primitive used by the engine: a move
// within the filesystem that fails instead of replacing an existing target.
package fsops

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// ErrTargetExists is matched (errors.Is) by renames refused because the
// target already exists. It is fs.ErrExist, so OS errors like EEXIST match
// too.
var ErrTargetExists = fs.ErrExist

// Renamer moves oldpath to newpath without ever overwriting newpath.
type Renamer interface {
	Rename(oldpath, newpath string) error
}

// NewRenamer returns the strongest no-replace renamer available for fsys.
// The OS filesystem uses the kernel's atomic no-replace rename where the
// platform and filesystem support it; any other afero.Fs checks the target
// first and then renames.
func NewRenamer(fsys afero.Fs) Renamer {
	if _, ok := fsys.(*afero.OsFs); ok {
		return osRenamer{}
	}
	return checkedRenamer{fs: fsys}
}

type osRenamer struct{}

func (osRenamer) Rename(oldpath, newpath string) error {
	return renameNoReplace(oldpath, newpath)
}

// checkedRenamer is check-then-rename. It is only as safe as the
// assumption that nothing else creates newpath in between.
type checkedRenamer struct {
	fs afero.Fs
}

func (c checkedRenamer) Rename(oldpath, newpath string) error {
	if err := targetFree(c.fs, oldpath, newpath); err != nil {
		return err
	}
	return c.fs.Rename(oldpath, newpath)
}

func targetFree(fsys afero.Fs, oldpath, newpath string) error {
	var err error
	if lst, ok := fsys.(afero.Lstater); ok {
		_, _, err = lst.LstatIfPossible(newpath)
	} else {
		_, err = fsys.Stat(newpath)
	}
	switch {
	case err == nil:
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrExist}
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
}

func checkThenRename(oldpath, newpath string) error {
	if err := targetFree(afero.NewOsFs(), oldpath, newpath); err != nil {
		return err
	}
	return os.Rename(oldpath, newpath)
}
