// Package levelindex loads and saves the name -> level ID mapping kept in
// levels.json.
package levelindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Another0Noob/levelsync/internal/logging"
)

// Index maps a level name to its numeric ID.
type Index map[string]int64

// ByID inverts the index. Names are expected to be unique per ID; when they
// are not, the smallest name wins.
func (ix Index) ByID() map[int64]string {
	out := make(map[int64]string, len(ix))
	for _, name := range ix.Names() {
		id := ix[name]
		if _, ok := out[id]; !ok {
			out[id] = name
		}
	}
	return out
}

// Names returns the keys in sorted order.
func (ix Index) Names() []string {
	names := make([]string, 0, len(ix))
	for n := range ix {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IDs returns the distinct IDs in ascending order.
func (ix Index) IDs() []int64 {
	seen := make(map[int64]struct{}, len(ix))
	ids := make([]int64, 0, len(ix))
	for _, id := range ix {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a shallow copy.
func (ix Index) Clone() Index {
	out := make(Index, len(ix))
	for k, v := range ix {
		out[k] = v
	}
	return out
}

// Store reads and writes an Index at a fixed path.
type Store struct {
	Path string
}

// NewStore returns a Store for path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) Load(ctx context.Context) Index {
	return Load(ctx, s.Path)
}

func (s *Store) Save(ctx context.Context, ix Index) error {
	return Save(ctx, s.Path, ix)
}

// Load reads the index at path. A missing file yields an empty index.
// A file that is not a JSON object also yields an empty index; that case is
// logged as a warning since whatever the file held is discarded on the next
// save.
func Load(ctx context.Context, path string) Index {
	log := logging.FromContext(ctx)

	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("cannot read index, starting empty")
		}
		return Index{}
	}

	ix, err := Decode(ctx, b)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("index is not valid JSON, starting empty")
		return Index{}
	}
	return ix
}

// Decode parses and validates index JSON. Values that are not positive
// integers are normalised when possible ("42", 42.0) and otherwise dropped.
// If two names share an ID only the smallest name is kept.
func Decode(ctx context.Context, b []byte) (Index, error) {
	log := logging.FromContext(ctx)

	if len(bytes.TrimSpace(b)) == 0 {
		return Index{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode index: top-level value is not an object")
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	ix := make(Index, len(raw))
	owner := make(map[int64]string, len(raw))
	for _, name := range names {
		id, err := parseID(raw[name])
		if err != nil {
			log.Warn().Str("name", name).RawJSON("value", raw[name]).Err(err).Msg("dropping index entry")
			continue
		}
		if prev, ok := owner[id]; ok {
			log.Warn().Int64("level_id", id).Str("kept", prev).Str("dropped", name).Msg("duplicate level ID in index")
			continue
		}
		owner[id] = name
		ix[name] = id
	}
	return ix, nil
}

func parseID(v json.RawMessage) (int64, error) {
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()

	var val interface{}
	if err := dec.Decode(&val); err != nil {
		return 0, err
	}

	switch t := val.(type) {
	case json.Number:
		num = t
	case string:
		num = json.Number(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("level ID must be an integer, got %s", string(v))
	}

	id, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("level ID must be an integer, got %s", string(v))
		}
		id = int64(f)
	}
	if id <= 0 {
		return 0, fmt.Errorf("level ID must be positive, got %d", id)
	}
	return id, nil
}

// Encode renders the index the way it is stored on disk: sorted keys,
// four-space indentation, no HTML escaping.
func Encode(ix Index) ([]byte, error) {
	if ix == nil {
		ix = Index{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(map[string]int64(ix)); err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return buf.Bytes(), nil
}

// Save overwrites path with ix. The data is written to a temporary file in
// the same directory and renamed into place.
func Save(ctx context.Context, path string, ix Index) error {
	b, err := Encode(ix)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod index: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace index %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug().Str("path", path).Int("entries", len(ix)).Msg("index saved")
	return nil
}
