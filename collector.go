package hanzilookup

// CharacterMatch is a candidate character and its similarity score.
// Higher scores are better.
type CharacterMatch struct {
	Character string
	Score     float64
}

// MatchCollector keeps the best matches filed so far: at most limit
// entries, at most one per character, sorted by descending score. Limits
// are small, so entries are kept in a sorted slice and inserted by
// position.
//
// MatchCollector is not safe for concurrent use; parallel matching gives
// each worker its own collector and merges them.
type MatchCollector struct {
	limit   int
	matches []CharacterMatch
}

// NewMatchCollector creates a collector holding at most limit matches.
// A non-positive limit yields a collector that keeps nothing.
func NewMatchCollector(limit int) *MatchCollector {
	if limit < 0 {
		limit = 0
	}
	return &MatchCollector{
		limit:   limit,
		matches: make([]CharacterMatch, 0, limit),
	}
}

// FileMatch offers a match to the collector. It is dropped if the
// collector is full and the score does not beat the current minimum, or
// if the same character is already held with an equal or better score.
// A held entry with a lower score is replaced.
func (mc *MatchCollector) FileMatch(match CharacterMatch) {
	if mc.limit == 0 {
		return
	}
	if len(mc.matches) == mc.limit &&
		match.Score <= mc.matches[len(mc.matches)-1].Score {
		return
	}
	if mc.removeExistingLower(match) {
		return
	}

	pos := mc.findSlot(match.Score)
	if len(mc.matches) < mc.limit {
		mc.matches = append(mc.matches, CharacterMatch{})
	}
	// Slide the tail right; when full, the last entry falls off.
	copy(mc.matches[pos+1:], mc.matches[pos:])
	mc.matches[pos] = match
}

// Matches returns a copy of the collected matches, best first.
func (mc *MatchCollector) Matches() []CharacterMatch {
	return append([]CharacterMatch{}, mc.matches...)
}

// Len returns the number of matches held.
func (mc *MatchCollector) Len() int {
	return len(mc.matches)
}

// Merge files every match held by other.
func (mc *MatchCollector) Merge(other *MatchCollector) {
	for _, m := range other.matches {
		mc.FileMatch(m)
	}
}

// findSlot returns the index at which a match with score keeps the slice
// sorted. Equal scores go after existing entries.
func (mc *MatchCollector) findSlot(score float64) int {
	for i, m := range mc.matches {
		if m.Score < score {
			return i
		}
	}
	return len(mc.matches)
}

// removeExistingLower handles a match for a character that is already
// held. It reports true if the new match must be skipped because the held
// one scores at least as well; otherwise the held entry is removed.
func (mc *MatchCollector) removeExistingLower(match CharacterMatch) bool {
	ix := -1
	for i, m := range mc.matches {
		if m.Character == match.Character {
			ix = i
			break
		}
	}
	if ix == -1 {
		return false
	}
	if match.Score <= mc.matches[ix].Score {
		return true
	}
	mc.matches = append(mc.matches[:ix], mc.matches[ix+1:]...)
	return false
}
