package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

// DefaultMaxAttempts is the number of random candidates tried before the
// numbered fallback kicks in.
const DefaultMaxAttempts = 16

// fallbackFactor bounds the numbered fallback at MaxAttempts*fallbackFactor.
const fallbackFactor = 64

// ErrNoFreeName is returned when neither random nor numbered candidates
// produced a free path.
var ErrNoFreeName = errors.New("no free name")

// Resolver finds generated target paths that do not exist yet. It only
// reads the filesystem. A Resolver is not safe for concurrent use against
// the same directory: two callers could both see a candidate as free.
type Resolver struct {
	fs          afero.Fs
	gen         Generator
	maxAttempts int
}

// NewResolver creates a resolver. maxAttempts < 1 selects DefaultMaxAttempts.
func NewResolver(fs afero.Fs, gen Generator, maxAttempts int) *Resolver {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Resolver{fs: fs, gen: gen, maxAttempts: maxAttempts}
}

// Resolve returns dir joined with a generated name ending in ext that does
// not exist at call time.
func (r *Resolver) Resolve(dir, ext string) (string, error) {
	var token string
	for i := 0; i < r.maxAttempts; i++ {
		token = r.gen.NewToken()
		candidate := filepath.Join(dir, withExt(token, ext))
		taken, err := r.exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	// The generator keeps colliding; number the last token instead.
	for n := 1; n <= r.maxAttempts*fallbackFactor; n++ {
		candidate := filepath.Join(dir, withExt(token+"-"+strconv.Itoa(n), ext))
		taken, err := r.exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s in %s: %w", withExt(token, ext), dir, ErrNoFreeName)
}

func (r *Resolver) exists(path string) (bool, error) {
	if lst, ok := r.fs.(afero.Lstater); ok {
		_, _, err := lst.LstatIfPossible(path)
		return existsResult(path, err)
	}
	_, err := r.fs.Stat(path)
	return existsResult(path, err)
}

func existsResult(path string, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, afero.ErrFileNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check %s: %w", path, err)
}
