// Package resolve turns dropped-item handles into filesystem paths.
//
// Each handle is resolved on its own goroutine (bounded by Workers); the
// results meet at a single join point. Handles that cannot be resolved are
// dropped without failing the batch.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent resolutions when Resolver.Workers is unset.
const DefaultWorkers = 8

// ErrUnresolvable marks a handle that does not carry a local file reference.
var ErrUnresolvable = errors.New("not a file reference")

// Handle is an opaque dropped item that may resolve to a local path.
type Handle interface {
	ResolvePath(ctx context.Context) (string, error)
}

// Path is a handle that already is a path.
type Path string

func (p Path) ResolvePath(context.Context) (string, error) {
	if p == "" {
		return "", ErrUnresolvable
	}
	return string(p), nil
}

// Data is a raw drop payload: a file URL ("file:///tmp/a.txt") or a plain
// path, as delivered by pasteboard-style transports.
type Data []byte

func (d Data) ResolvePath(context.Context) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(string(d)), "\x00")
	if s == "" {
		return "", ErrUnresolvable
	}
	if !strings.Contains(s, "://") {
		return s, nil
	}
	return FileURLPath(s)
}

// Func adapts a function to Handle.
type Func func(ctx context.Context) (string, error)

func (f Func) ResolvePath(ctx context.Context) (string, error) { return f(ctx) }

// FileURLPath extracts the local path from a file URL.
func FileURLPath(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	if !strings.EqualFold(u.Scheme, "file") {
		return "", fmt.Errorf("%w: scheme %q", ErrUnresolvable, u.Scheme)
	}
	if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
		return "", fmt.Errorf("%w: remote host %q", ErrUnresolvable, u.Host)
	}
	if u.Path == "" {
		return "", ErrUnresolvable
	}
	return filepath.FromSlash(localURLPath(u.Path, runtime.GOOS)), nil
}

// localURLPath drops the slash a file URL puts before a Windows drive
// letter: /C:/dir becomes C:/dir.
func localURLPath(p, goos string) string {
	if goos == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' && isDriveLetter(p[1]) {
		return p[1:]
	}
	return p
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Resolver resolves handles concurrently.
type Resolver struct {
	Workers int
	Log     zerolog.Logger
}

// Resolve returns the absolute, cleaned paths of every handle that resolved,
// deduplicated and in handle order. An empty result means nothing usable
// was dropped.
func (r *Resolver) Resolve(ctx context.Context, handles []Handle) []string {
	if len(handles) == 0 {
		return nil
	}
	workers := r.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	// Each task owns exactly one slot; Wait is the only synchronization point.
	slots := make([]string, len(handles))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, h := range handles {
		g.Go(func() error {
			slots[i] = r.resolveOne(ctx, i, h)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, p := range slots {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, i int, h Handle) string {
	if h == nil {
		return ""
	}
	if err := ctx.Err(); err != nil {
		r.Log.Debug().Err(err).Int("handle", i).Msg("resolution cancelled")
		return ""
	}
	p, err := h.ResolvePath(ctx)
	if err == nil && p == "" {
		err = ErrUnresolvable
	}
	if err != nil {
		r.Log.Debug().Err(err).Int("handle", i).Msg("dropped item not resolved")
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		r.Log.Debug().Err(err).Str("path", p).Msg("dropped item not resolved")
		return ""
	}
	return filepath.Clean(abs)
}
