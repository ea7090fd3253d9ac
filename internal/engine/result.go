package engine

import (
	"fmt"

	"UUIDRenamer/internal/expand"
)

// Status texts shown by the shells.
const (
	StatusReady   = "Drop files here to rename them to a random UUID"
	StatusNoFiles = "No files were detected"
)

// Renamed is one file that was renamed (or, in a dry run, would be).
type Renamed struct {
	Name string // original base name
	From string
	To   string
}

// Failure is one file whose rename failed.
type Failure struct {
	Name string // original base name
	Path string
	Err  error
}

// BatchResult is the final report of a batch.
type BatchResult struct {
	Succeeded []Renamed
	Failed    []Failure
	Skipped   []expand.Skipped // unreadable entries left out during expansion
	NoFiles   bool
	DryRun    bool
	Status    string
}

// SucceededNames returns the original names of renamed files in order.
func (r BatchResult) SucceededNames() []string {
	out := make([]string, len(r.Succeeded))
	for i, s := range r.Succeeded {
		out[i] = s.Name
	}
	return out
}

// FailedNames returns the original names of failed files in order.
func (r BatchResult) FailedNames() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.Name
	}
	return out
}

// Progress is emitted after every rename attempt, successful or not.
type Progress struct {
	Completed int
	Total     int
	Current   string // base name of the file just attempted
	Err       error  // nil on success
}

// Observer receives a batch's events: zero or more Progress calls, then
// exactly one Finish. Calls come from the batch goroutine, in order.
type Observer interface {
	Progress(Progress)
	Finish(BatchResult)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	OnProgress func(Progress)
	OnFinish   func(BatchResult)
}

func (o ObserverFuncs) Progress(p Progress) {
	if o.OnProgress != nil {
		o.OnProgress(p)
	}
}

func (o ObserverFuncs) Finish(r BatchResult) {
	if o.OnFinish != nil {
		o.OnFinish(r)
	}
}

func summarize(r BatchResult) string {
	if r.NoFiles {
		return StatusNoFiles
	}
	verb := "Renamed"
	if r.DryRun {
		verb = "Would rename"
	}
	if len(r.Failed) == 0 {
		return fmt.Sprintf("%s %d file(s)", verb, len(r.Succeeded))
	}
	return fmt.Sprintf("%s %d file(s), %d failed", verb, len(r.Succeeded), len(r.Failed))
}
