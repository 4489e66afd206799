// Package fuzzy provides the approximate string matcher shared by keyword
// activation and library search ranking.
package fuzzy

import (
	"strings"
	"unicode"
)

// Match reports whether pattern approximately matches str and how well;
// higher scores are better matches. Matching is case-insensitive. Two
// strategies are tried in order: an ordered subsequence walk, which handles
// abbreviations like "tmx" for "tmux", and restricted Damerau-Levenshtein
// distance, which handles typos like "kubeclt" for "kubectl". An empty
// pattern matches everything with score 0.
func Match(pattern, str string) (int, bool) {
	p := strings.ToLower(pattern)
	s := strings.ToLower(str)
	if len(p) == 0 {
		return 0, true
	}

	if score, ok := walkSubsequence(p, s, str); ok {
		return adjust(score, p, s), true
	}
	return editScore(p, s)
}

// walkSubsequence scores pattern as an ordered subsequence of s. Each
// matched byte earns a point; adjacency to the previous match, landing on
// the first byte, and landing just past a word boundary earn bonuses. orig
// carries the original casing so camelCase boundaries survive lowering.
func walkSubsequence(p, s, orig string) (int, bool) {
	if len(p) > len(s) {
		return 0, false
	}

	score := 0
	last := -1
	pi := 0
	for si := 0; si < len(s) && pi < len(p); si++ {
		if s[si] != p[pi] {
			continue
		}
		score++
		if last == si-1 {
			score += 4
		}
		if si == 0 {
			score += 8
		}
		if si > 0 && wordBoundary(rune(orig[si-1]), rune(orig[si])) {
			score += 4
		}
		last = si
		pi++
	}
	if pi < len(p) {
		return 0, false
	}
	return score, true
}

// editScore accepts a typo-distance match when the edit count stays within
// a third of the longer string, capped at three edits.
func editScore(p, s string) (int, bool) {
	longer := max(len(p), len(s))
	limit := (longer + 2) / 3
	if limit < 1 {
		limit = 1
	}
	if limit > 3 {
		limit = 3
	}

	dist := Distance(p, s)
	if dist > limit {
		return 0, false
	}

	score := longer*2 - dist*5
	if len(s) > 0 && p[0] == s[0] {
		score += 6
	}
	score = adjust(score, p, s)
	if score < 1 {
		score = 1
	}
	return score, true
}

// adjust applies the final terms common to both strategies: a penalty for
// longer targets and a bonus for exact equality.
func adjust(score int, p, s string) int {
	if len(s) > len(p) {
		score -= len(s) - len(p)
	}
	if p == s {
		score += 20
	}
	return score
}

// Distance is the restricted Damerau-Levenshtein edit distance: insertion,
// deletion, substitution, and adjacent transposition each cost one edit.
// Three rolling rows keep the table at O(len(b)) memory.
func Distance(a, b string) int {
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			best := cur[j-1] + 1
			if v := prev[j] + 1; v < best {
				best = v
			}
			if v := prev[j-1] + cost; v < best {
				best = v
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if v := prev2[j-2] + cost; v < best {
					best = v
				}
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(b)]
}

// wordBoundary reports whether the transition from prev to cur starts a new
// word: after a separator, or at a lower-to-upper case change.
func wordBoundary(prev, cur rune) bool {
	if prev == '_' || prev == '-' {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
