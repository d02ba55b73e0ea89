// Package uploads finds level files in the uploads directory and turns their
// file names into level IDs.
package uploads

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Another0Noob/levelsync/internal/logging"
)

// DefaultExtension is the suffix of uploaded level files.
const DefaultExtension = ".gdr2"

// IDSet is a set of level IDs.
type IDSet map[int64]struct{}

func (s IDSet) Add(id int64) { s[id] = struct{}{} }

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the IDs in ascending order.
func (s IDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Minus returns the IDs in s that are not in other.
func (s IDSet) Minus(other IDSet) IDSet {
	out := make(IDSet)
	for id := range s {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Skipped records a file that matched the extension but had no usable ID.
type Skipped struct {
	Name   string
	Reason string
}

type Result struct {
	IDs     IDSet
	Skipped []Skipped
}

// Scanner scans one directory for one extension.
type Scanner struct {
	Dir       string
	Extension string
}

// NewScanner returns a Scanner. An empty ext means DefaultExtension.
func NewScanner(dir, ext string) *Scanner {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Scanner{Dir: dir, Extension: ext}
}

func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	return Scan(ctx, s.Dir, s.Extension)
}

// Scan lists regular files in dir ending in ext and parses each stem as a
// level ID. Symlinks are followed. Bad names and entries that are not
// regular files are logged and skipped. Only a directory that cannot
// be read is an error.
func Scan(ctx context.Context, dir, ext string) (Result, error) {
	log := logging.FromContext(ctx)
	res := Result{IDs: make(IDSet)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("read uploads dir %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		if err := checkRegular(dir, e); err != nil {
			log.Warn().Str("file", name).Err(err).Msg("skipping upload")
			res.Skipped = append(res.Skipped, Skipped{Name: name, Reason: err.Error()})
			continue
		}

		id, err := ParseID(strings.TrimSuffix(name, ext))
		if err != nil {
			log.Warn().Str("file", name).Err(err).Msg("skipping upload")
			res.Skipped = append(res.Skipped, Skipped{Name: name, Reason: err.Error()})
			continue
		}
		res.IDs.Add(id)
	}

	log.Debug().Str("dir", dir).Int("levels", len(res.IDs)).Int("skipped", len(res.Skipped)).Msg("scanned uploads")
	return res, nil
}

// checkRegular accepts regular files and symlinks that resolve to one.
func checkRegular(dir string, e fs.DirEntry) error {
	mode := e.Type()
	if mode&fs.ModeSymlink != 0 {
		fi, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("broken symlink: %w", err)
		}
		mode = fi.Mode()
	}
	if !mode.IsRegular() {
		return fmt.Errorf("not a regular file (%s)", mode.Type())
	}
	return nil
}

// ParseID parses a file stem as a positive base-10 level ID.
func ParseID(stem string) (int64, error) {
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("file name %q is not a level ID", stem)
	}
	if id <= 0 {
		return 0, fmt.Errorf("level ID must be positive, got %d", id)
	}
	return id, nil
}
