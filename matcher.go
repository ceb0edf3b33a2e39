package hanzilookup

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Matching constants. Like the analysis constants they are tuned together
// with the reference datasets.
const (
	// DefaultLooseness is used when no looseness option is given.
	DefaultLooseness = 0.15
	// AvgSubStrokeLength is an average substroke length, out of 1.
	AvgSubStrokeLength = 0.33
	// SkipPenaltyMultiplier scales the penalty for skipping a substroke.
	SkipPenaltyMultiplier = 1.75
	// CorrectNumStrokesBonus is the largest relative bonus for a candidate
	// with exactly the input's stroke count.
	CorrectNumStrokesBonus = 0.1
	// CorrectNumStrokesCap is the stroke count from which the exact count
	// bonus no longer applies.
	CorrectNumStrokesCap = 10

	// scoreMatrixDim includes the seed row and column.
	scoreMatrixDim = MaxCharacterSubStrokeCount + 1
)

// Counters are the diagnostics of one Match call.
type Counters struct {
	// CharsChecked is the number of reference characters that passed the
	// count windows and were scored.
	CharsChecked int64
	// SubStrokesCompared is the number of substroke pairs scored.
	SubStrokesCompared int64
}

// Matcher matches analyzed characters against one reference database.
//
// A Matcher owns its scoring buffers and is safe for concurrent use;
// concurrent Match calls on one Matcher are serialized. Use one Matcher
// per goroutine, or WithWorkers, to score in parallel.
type Matcher struct {
	db        *Database
	tables    *ScoreTables
	looseness float64
	workers   int
	logger    *slog.Logger

	mu       sync.Mutex
	scorer   *scorer
	counters Counters
}

// MatcherOption is a functional option for configuring a Matcher.
type MatcherOption func(*Matcher)

// WithLooseness sets the looseness in [0,1]. Higher values widen the
// stroke count, substroke count and alignment windows, trading speed and
// precision for recall.
func WithLooseness(looseness float64) MatcherOption {
	return func(m *Matcher) {
		m.looseness = looseness
	}
}

// WithWorkers sets the number of goroutines scoring candidates. Values
// below 2 score on the calling goroutine.
func WithWorkers(workers int) MatcherOption {
	return func(m *Matcher) {
		m.workers = workers
	}
}

// WithScoreTables replaces the shared default score tables.
func WithScoreTables(tables *ScoreTables) MatcherOption {
	return func(m *Matcher) {
		m.tables = tables
	}
}

// WithLogger sets the logger for this matcher instead of the package
// logger.
func WithLogger(l *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = l
	}
}

// NewMatcher creates a Matcher for db. Default values: looseness 0.15,
// one worker, the shared default score tables and the package logger.
func NewMatcher(db *Database, opts ...MatcherOption) (*Matcher, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", ErrDatasetNotFound)
	}
	m := &Matcher{
		db:        db,
		looseness: DefaultLooseness,
		workers:   1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if math.IsNaN(m.looseness) || m.looseness < 0 || m.looseness > 1 {
		return nil, fmt.Errorf("%w: looseness %v outside [0,1]", ErrInvalidArgument, m.looseness)
	}
	if m.tables == nil {
		m.tables = DefaultScoreTables()
	}
	if m.logger == nil {
		m.logger = Logger()
	}
	m.scorer = newScorer(db, m.tables)
	return m, nil
}

// Database returns the database the matcher searches.
func (m *Matcher) Database() *Database {
	return m.db
}

// Looseness returns the configured looseness.
func (m *Matcher) Looseness() float64 {
	return m.looseness
}

// Counters returns the diagnostics of the most recent Match call.
func (m *Matcher) Counters() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters
}

// Match returns up to limit reference characters most similar to ac, best
// first. Every reference character whose stroke and substroke counts fall
// inside the looseness windows is aligned against the input and scored.
//
// A character without substrokes matches nothing and returns an empty
// result without scanning the database. limit must be positive. Match
// checks ctx between candidates; a cancelled call returns ctx.Err() and no
// matches.
func (m *Matcher) Match(ctx context.Context, ac *AnalyzedCharacter, limit int) ([]CharacterMatch, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d must be positive", ErrInvalidArgument, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = Counters{}

	if ac == nil || ac.SubStrokeCount == 0 {
		return []CharacterMatch{}, nil
	}
	if ac.SubStrokeCount > MaxCharacterSubStrokeCount {
		return nil, fmt.Errorf("%w: input has %d substrokes, at most %d are supported",
			ErrInvalidArgument, ac.SubStrokeCount, MaxCharacterSubStrokeCount)
	}

	start := time.Now()
	q := m.newQuery(ac)

	var (
		collector *MatchCollector
		err       error
	)
	if m.workers > 1 {
		collector, err = m.matchParallel(ctx, q, limit)
	} else {
		collector, err = m.matchSerial(ctx, q, limit)
	}
	if err != nil {
		return nil, err
	}

	m.logger.Debug("match complete",
		"dataset", m.db.Key,
		"strokes", q.strokeCount,
		"substrokes", len(q.input),
		"looseness", m.looseness,
		"chars_checked", m.counters.CharsChecked,
		"substrokes_compared", m.counters.SubStrokesCompared,
		"matches", collector.Len(),
		"elapsed", time.Since(start))
	return collector.Matches(), nil
}

// query is the per-call view of the input shared by all workers.
type query struct {
	input           []SubStroke
	strokeCount     int
	strokes         countWindow
	subStrokes      countWindow
	subStrokesRange int
}

func (m *Matcher) newQuery(ac *AnalyzedCharacter) *query {
	strokeCount := ac.StrokeCount()
	strokeRange := strokesRange(m.looseness, strokeCount)
	subRange := subStrokesRange(m.looseness, ac.SubStrokeCount)
	return &query{
		input:           ac.FlatSubStrokes(),
		strokeCount:     strokeCount,
		strokes:         newCountWindow(strokeCount, strokeRange, MaxCharacterStrokeCount),
		subStrokes:      newCountWindow(ac.SubStrokeCount, subRange, MaxCharacterSubStrokeCount),
		subStrokesRange: subRange,
	}
}

// admits reports whether a reference character falls inside both count
// windows.
func (q *query) admits(c ReferenceCharacter) bool {
	return q.strokes.contains(c.StrokeCount) && q.subStrokes.contains(c.SubStrokeCount)
}

func (m *Matcher) matchSerial(ctx context.Context, q *query, limit int) (*MatchCollector, error) {
	collector := NewMatchCollector(limit)
	s := m.scorer
	s.subStrokesCompared = 0
	for _, c := range m.db.Characters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.admits(c) {
			continue
		}
		m.counters.CharsChecked++
		collector.FileMatch(CharacterMatch{
			Character: c.Glyph,
			Score:     s.score(q, c),
		})
	}
	m.counters.SubStrokesCompared = s.subStrokesCompared
	return collector, nil
}

// scorer aligns substroke sequences. It owns a score matrix sized for the
// largest characters; row and column 0 hold the skip seeds and are never
// written after construction, so the matrix is reused across candidates
// without re-seeding.
type scorer struct {
	db     *Database
	tables *ScoreTables
	matrix [scoreMatrixDim][scoreMatrixDim]float64

	subStrokesCompared int64
}

func newScorer(db *Database, tables *ScoreTables) *scorer {
	s := &scorer{db: db, tables: tables}
	for i := 0; i < scoreMatrixDim; i++ {
		penalty := -AvgSubStrokeLength * SkipPenaltyMultiplier * float64(i)
		s.matrix[i][0] = penalty
		s.matrix[0][i] = penalty
	}
	return s
}

// score returns the similarity of the query and a reference character,
// including the exact stroke count bonus.
func (s *scorer) score(q *query, c ReferenceCharacter) float64 {
	score := s.align(q.input, q.subStrokesRange, c)
	if q.strokeCount == c.StrokeCount && q.strokeCount < CorrectNumStrokesCap {
		// The bonus shrinks as strokes increase: writing 2 instead of 3
		// strokes is a bigger slip than 9 instead of 10.
		bonus := CorrectNumStrokesBonus *
			float64(max(CorrectNumStrokesCap-q.strokeCount, 0)) / CorrectNumStrokesCap
		score += bonus * score
	}
	return score
}

// align fills the score matrix for input against c and returns the score
// in the far corner. Cells whose substroke indexes are more than
// subStrokesRange apart are unusable and hold -Inf.
func (s *scorer) align(input []SubStroke, subStrokesRange int, c ReferenceCharacter) float64 {
	n := c.SubStrokeCount
	for x, in := range input {
		inputSkip := float64(in.Length) / 256 * SkipPenaltyMultiplier
		for y := 0; y < n; y++ {
			newScore := math.Inf(-1)
			if abs(x-y) <= subStrokesRange {
				ref, hasCenter := s.db.SubStroke(c, y)
				skip1 := s.matrix[x][y+1] - inputSkip
				skip2 := s.matrix[x+1][y] - float64(ref.Length)/256*SkipPenaltyMultiplier
				match := s.pairScore(in, ref, hasCenter)
				newScore = math.Max(s.matrix[x][y]+match, math.Max(skip1, skip2))
			}
			s.matrix[x+1][y+1] = newScore
		}
	}
	return s.matrix[len(input)][n]
}

// pairScore compares one input substroke with one reference substroke.
func (s *scorer) pairScore(in, ref SubStroke, hasCenter bool) float64 {
	s.subStrokesCompared++

	score := s.tables.lengthScore(in.Length, ref.Length) *
		s.tables.directionScore(in.Direction, ref.Direction, in.Length)

	if hasCenter {
		dx := int(in.CenterX) - int(ref.CenterX)
		dy := int(in.CenterY) - int(ref.CenterY)
		closeness := s.tables.Position[dx*dx+dy*dy]
		// Distance always degrades: shrink positive scores, deepen
		// negative ones.
		if score > 0 {
			score *= closeness
		} else {
			score /= closeness
		}
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
