package hanzilookup

import (
	"context"
	"sync"
)

// matchParallel splits the admitted candidates into contiguous chunks, one
// per worker. Each worker scores its chunk with its own score matrix and
// collector; the collectors are merged in chunk order so that ties resolve
// as they would serially.
func (m *Matcher) matchParallel(ctx context.Context, q *query, limit int) (*MatchCollector, error) {
	candidates := make([]ReferenceCharacter, 0, len(m.db.Characters))
	for _, c := range m.db.Characters {
		if q.admits(c) {
			candidates = append(candidates, c)
		}
	}

	workers := min(m.workers, len(candidates))
	if workers < 2 {
		return m.matchSerial(ctx, q, limit)
	}

	chunk := (len(candidates) + workers - 1) / workers
	collectors := make([]*MatchCollector, workers)
	compared := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		lo := min(w*chunk, len(candidates))
		hi := min(lo+chunk, len(candidates))
		go func(w int, part []ReferenceCharacter) {
			defer wg.Done()
			s := newScorer(m.db, m.tables)
			collector := NewMatchCollector(limit)
			for _, c := range part {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				collector.FileMatch(CharacterMatch{
					Character: c.Glyph,
					Score:     s.score(q, c),
				})
			}
			collectors[w] = collector
			compared[w] = s.subStrokesCompared
		}(w, candidates[lo:hi])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := NewMatchCollector(limit)
	for w, c := range collectors {
		merged.Merge(c)
		m.counters.SubStrokesCompared += compared[w]
	}
	m.counters.CharsChecked = int64(len(candidates))
	return merged, nil
}
