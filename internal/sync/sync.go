// Package sync reconciles the level index with the uploads directory.
//
// A run loads the index, scans the uploads directory, forgets every indexed
// level whose file is gone, asks the level database for the name of every
// uploaded level that is not indexed yet, and writes the index back. Each
// step only depends on what is on disk right now, so an interrupted run is
// repaired by the next one.
package sync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/Another0Noob/levelsync/internal/logging"
	"github.com/Another0Noob/levelsync/internal/uploads"
	"github.com/google/uuid"
)

// IndexStore loads and persists the level index.
type IndexStore interface {
	Load(ctx context.Context) levelindex.Index
	Save(ctx context.Context, ix levelindex.Index) error
}

// Scanner lists the level IDs currently uploaded.
type Scanner interface {
	Scan(ctx context.Context) (uploads.Result, error)
}

// Resolver looks up the name of a level.
type Resolver interface {
	GetLevelName(ctx context.Context, id int64) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, id int64) (string, error)

func (f ResolverFunc) GetLevelName(ctx context.Context, id int64) (string, error) {
	return f(ctx, id)
}

// Reconciler keeps the index in line with the uploads directory.
type Reconciler struct {
	store    IndexStore
	scanner  Scanner
	resolver Resolver
	dryRun   bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDryRun computes the changes without saving them.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// New returns a Reconciler.
func New(store IndexStore, scanner Scanner, resolver Resolver, opts ...Option) *Reconciler {
	r := &Reconciler{store: store, scanner: scanner, resolver: resolver}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sync runs one reconciliation. It fails only if the uploads directory
// cannot be read (the index is then left alone) or the index cannot be
// written. Levels whose name cannot be resolved are reported in
// Report.Unresolved and tried again on the next run.
func (r *Reconciler) Sync(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New().String(), DryRun: r.dryRun}
	ctx = logging.WithRunID(ctx, report.RunID)
	log := logging.FromContext(ctx)

	index := r.store.Load(ctx)
	if index == nil {
		index = levelindex.Index{}
	}
	byID := index.ByID()

	scan, err := r.scanner.Scan(ctx)
	if err != nil {
		return report, fmt.Errorf("scan uploads: %w", err)
	}
	report.Skipped = scan.Skipped
	uploaded := scan.IDs

	indexed := make(uploads.IDSet, len(byID))
	for id := range byID {
		indexed.Add(id)
	}

	missingFromIndex := uploaded.Minus(indexed)
	missingFromUploads := indexed.Minus(uploaded)

	log.Info().
		Int("uploaded", len(uploaded)).
		Int("indexed", len(indexed)).
		Int("new", len(missingFromIndex)).
		Int("removed", len(missingFromUploads)).
		Msg("reconciling levels")

	for _, id := range missingFromUploads.Sorted() {
		for _, name := range index.Names() {
			if index[name] != id {
				continue
			}
			delete(index, name)
			report.Removed = append(report.Removed, Entry{Name: name, ID: id})
			log.Info().Str("name", name).Int64("level_id", id).Msg("removed level")
		}
	}

	pending := missingFromIndex.Sorted()
	for i, id := range pending {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("pending", len(pending)-i).Msg("stopping before all levels were resolved")
			for _, rest := range pending[i:] {
				report.Unresolved = append(report.Unresolved, Unresolved{ID: rest, Err: err})
			}
			break
		}

		name, err := r.resolver.GetLevelName(ctx, id)
		if err != nil {
			log.Warn().Int64("level_id", id).Err(err).Msg("failed to fetch level name")
			report.Unresolved = append(report.Unresolved, Unresolved{ID: id, Err: err})
			continue
		}

		key := uniqueName(index, name, id)
		if key != name {
			log.Warn().Str("name", name).Str("stored_as", key).Int64("level_id", id).Msg("level name already taken")
		}
		index[key] = id
		report.Added = append(report.Added, Entry{Name: key, ID: id})
		log.Info().Str("name", key).Int64("level_id", id).Msg("added level")
	}

	if r.dryRun {
		log.Info().Msg("dry run, index not written")
		report.Index = index
		return report, nil
	}

	if err := r.store.Save(ctx, index); err != nil {
		return report, fmt.Errorf("save index: %w", err)
	}
	report.Index = index
	return report, nil
}

// uniqueName returns the key to store level id under. Stale names were
// deleted before resolution started, so a taken name belongs to another
// level that is still uploaded. The ID is appended, then a counter, until
// the key is free.
func uniqueName(index levelindex.Index, name string, id int64) string {
	if _, taken := index[name]; !taken {
		return name
	}
	base := name + " (" + strconv.FormatInt(id, 10) + ")"
	key := base
	for n := 2; ; n++ {
		if _, taken := index[key]; !taken {
			return key
		}
		key = base + " #" + strconv.Itoa(n)
	}
}
