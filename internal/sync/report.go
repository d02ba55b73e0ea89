package sync

import (
	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/Another0Noob/levelsync/internal/uploads"
)

// Entry is one name -> ID pair touched by a run.
type Entry struct {
	Name string
	ID   int64
}

// Unresolved is an uploaded level whose name could not be fetched.
type Unresolved struct {
	ID  int64
	Err error
}

// Report summarises one run.
type Report struct {
	RunID      string
	DryRun     bool
	Added      []Entry
	Removed    []Entry
	Unresolved []Unresolved
	Skipped    []uploads.Skipped

	// Index is the mapping as it was saved (or would have been, on a dry run).
	Index levelindex.Index
}

// Changed reports whether the run added or removed anything.
func (r *Report) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}
