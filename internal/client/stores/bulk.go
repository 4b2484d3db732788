package stores

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/client/localstore"
	"github.com/dmitrijs2005/crmdesk/internal/common"
)

// Default bulk ingest tuning.
const (
	DefaultChunkSize  = 50
	DefaultChunkPause = 10 * time.Millisecond
)

// BulkOptions tunes bulk ingest. A non-positive ChunkSize selects the
// default; a zero ChunkPause disables the pause.
type BulkOptions struct {
	ChunkSize  int
	ChunkPause time.Duration
}

// DefaultBulkOptions returns the documented defaults.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{ChunkSize: DefaultChunkSize, ChunkPause: DefaultChunkPause}
}

func (o BulkOptions) withDefaults() BulkOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// Progress receives the completed percentage, 0..100.
type Progress func(percent int)

// sleep is a seam for tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// bulkInsert ingests inputs chunk by chunk. Each chunk is appended to the
// collection as soon as it is built, then sent to the remote in the
// background when remote sync applies; remote failures are logged and
// never rolled back. The local cache is written once, after the last
// chunk or on cancellation. If that write fails the imported entities are
// taken out of the collection again, so memory matches the cache.
//
// It returns how many entities were kept. A cancelled ctx stops it between
// chunks with ctx.Err().
func (s *Store[E, R, P]) bulkInsert(ctx context.Context, inputs []E, opts BulkOptions, progress Progress) (int, error) {
	sc, err := s.readyScope()
	if err != nil {
		return 0, err
	}
	opts = opts.withDefaults()
	total := len(inputs)
	if total == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	bg := context.WithoutCancel(ctx)
	chunks := (total + opts.ChunkSize - 1) / opts.ChunkSize
	added := make(map[string]struct{}, total)
	processed, last := 0, 0

	persist := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sc.gen != s.gen {
			return common.ErrIdentityChanged
		}
		if err := s.saveLocked(bg, sc.userID); err != nil {
			s.items = slices.DeleteFunc(slices.Clone(s.items), func(e E) bool {
				_, ok := added[s.kind.id(e)]
				return ok
			})
			return err
		}
		return nil
	}

	for start := 0; start < total; start += opts.ChunkSize {
		end := min(start+opts.ChunkSize, total)
		now := s.deps.Now().UTC()

		chunk := make([]E, 0, end-start)
		for _, in := range inputs[start:end] {
			e := s.kind.localize(s.kind.prepare(in), common.NewLocalID(), now)
			added[s.kind.id(e)] = struct{}{}
			chunk = append(chunk, e)
		}

		s.mu.Lock()
		if sc.gen != s.gen {
			s.mu.Unlock()
			wg.Wait()
			return processed, common.ErrIdentityChanged
		}
		s.items = append(s.items, chunk...)
		s.mu.Unlock()

		if sc.table != nil {
			rows := make([]R, 0, len(chunk))
			for _, e := range chunk {
				rows = append(rows, s.kind.toRemote(e))
			}
			wg.Add(1)
			go func(first int) {
				defer wg.Done()
				if _, err := sc.table.BulkCreate(bg, rows); err != nil {
					s.log.Warn(bg, "bulk create chunk failed", "op", "bulkImport", "offset", first, "error", err)
				}
			}(start)
		}

		processed = end
		last = percent(processed, total, start/opts.ChunkSize+1, chunks, last)
		if progress != nil {
			progress(last)
		}

		if end < total {
			if err := sleep(ctx, opts.ChunkPause); err != nil {
				wg.Wait()
				if perr := persist(); perr != nil {
					s.log.Warn(ctx, "partial import not persisted", "op", "bulkImport", "error", perr)
					return 0, err
				}
				return processed, err
			}
		}
	}

	wg.Wait()
	if err := persist(); err != nil {
		s.log.Error(ctx, "imported records not persisted", "op", "bulkImport", "error", err)
		return 0, err
	}
	return processed, nil
}

// percent is round(processed/total*100), nudged so that only the last
// chunk reports 100 and, with at most 100 chunks, every chunk reports more
// than the one before. With more chunks it never goes down.
func percent(processed, total, chunk, chunks, last int) int {
	p := int(math.Round(float64(processed) / float64(total) * 100))
	switch {
	case chunk == chunks:
		return 100
	case chunks > 100:
		return min(max(p, last), 99)
	}
	return min(max(p, last+1), 100-(chunks-chunk))
}

func (s *Store[E, R, P]) saveLocked(ctx context.Context, userID string) error {
	return localstore.Save(ctx, s.deps.Cache, s.key(userID), s.items)
}
