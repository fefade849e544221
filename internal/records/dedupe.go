package records

import (
	"xwordclues/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Dedupe drops every clue that repeats an earlier clue of the same word,
// keeping the first (most recent) occurrence. Clues are compared after
// normalization, when similarity > 0 clues whose Jaro-Winkler similarity
// is at least that much are also treated as repeats.
func Dedupe(clues []ClueRecord, similarity float64) []ClueRecord {
	seen := map[string][]string{}
	out := make([]ClueRecord, 0, len(clues))
	for _, c := range clues {
		key := textutil.NormalizeKey(c.Clue)
		if isRepeat(seen[c.Word], key, similarity) {
			continue
		}
		seen[c.Word] = append(seen[c.Word], key)
		out = append(out, c)
	}
	return out
}

func isRepeat(previous []string, key string, similarity float64) bool {
	for _, p := range previous {
		if p == key {
			return true
		}
		if similarity > 0 && matchr.JaroWinkler(p, key, false) >= similarity {
			return true
		}
	}
	return false
}
