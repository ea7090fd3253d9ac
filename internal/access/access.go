// Package access brackets a batch with best-effort access grants on each
// dropped root. A root that cannot be acquired is still processed with
// default access.
package access

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
)

// Acquirer grants access to a root until release is called.
type Acquirer interface {
	Acquire(root string) (release func(), err error)
}

// Nop grants everything and holds nothing.
type Nop struct{}

func (Nop) Acquire(string) (func(), error) { return func() {}, nil }

// Hold keeps a read-only handle open on each root while the batch runs, so
// the root stays reachable through the handle even if its permissions are
// revoked mid-batch. A file root is held through its parent directory; an
// open handle on the file itself would block renaming it on Windows.
type Hold struct{}

func (Hold) Acquire(root string) (func(), error) {
	target, err := holdTarget(root)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}

// holdTarget is root for a directory and the parent directory otherwise.
func holdTarget(root string) (string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return root, nil
	}
	return filepath.Dir(root), nil
}

// Scope holds the grants acquired for one batch.
type Scope struct {
	releases []func()
	held     []string
}

// Enter acquires every distinct root through acq. Failures are logged and
// skipped.
func Enter(acq Acquirer, roots []string, log zerolog.Logger) *Scope {
	s := &Scope{}
	if acq == nil {
		return s
	}
	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}

		release, err := acq.Acquire(root)
		if err != nil {
			log.Debug().Err(err).Str("root", root).Msg("access not granted; using default access")
			continue
		}
		if release == nil {
			release = func() {}
		}
		s.releases = append(s.releases, release)
		s.held = append(s.held, root)
	}
	return s
}

// Held lists the roots currently granted, in acquisition order.
func (s *Scope) Held() []string { return slices.Clone(s.held) }

// Close releases every grant in reverse order. Further calls do nothing.
func (s *Scope) Close() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
	s.held = nil
}
