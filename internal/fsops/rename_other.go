//go:build !linux && !darwin

package fsops

func renameNoReplace(oldpath, newpath string) error {
	return checkThenRename(oldpath, newpath)
}
