package naming

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces random name tokens.
type Generator interface {
	NewToken() string
}

// UUIDGenerator renders random (version 4) UUIDs in canonical
// 8-4-4-4-12 form, upper case unless Lower is set.
type UUIDGenerator struct {
	Lower bool
}

// NewToken returns a fresh UUID string.
func (g UUIDGenerator) NewToken() string {
	s := uuid.NewString()
	if g.Lower {
		return s
	}
	return strings.ToUpper(s)
}

// NewName returns a generated file name carrying ext (no leading dot).
// An empty ext yields the bare token.
func NewName(g Generator, ext string) string {
	return withExt(g.NewToken(), ext)
}

func withExt(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// Extension returns the extension of base without its dot. Names with no
// dot, a trailing dot, or only a leading dot (".bashrc") have none.
func Extension(base string) string {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return base[i+1:]
}
