package library

import (
	"sort"
	"strings"

	"github.com/anthropics/claude-skills-go/internal/fuzzy"
)

// Result is one search hit.
type Result struct {
	Doc     Doc
	Score   int
	Matched string // the title or heading that matched
}

// Search ranks documents against the query. Titles are scored with the
// fuzzy matcher; headings contribute a reduced score, and plain substring
// hits in headings count even when the fuzzy matcher rejects them.
func Search(idx *Index, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []Result
	for _, d := range idx.Docs {
		best := 0
		matched := ""

		if score, ok := fuzzy.Match(query, d.Title); ok && score > best {
			best = score
			matched = d.Title
		}

		for _, h := range d.Headings {
			if score, ok := fuzzy.Match(query, h); ok {
				score = score / 2 // headings rank below titles
				if score > best {
					best = score
					matched = h
				}
			} else if strings.Contains(strings.ToLower(h), strings.ToLower(query)) {
				if 1 > best {
					best = 1
					matched = h
				}
			}
		}

		if best > 0 {
			results = append(results, Result{Doc: d, Score: best, Matched: matched})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Doc.Rel < results[j].Doc.Rel
	})

	return results
}
