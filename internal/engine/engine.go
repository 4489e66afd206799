// Package engine implements activation dispatch: matching user prompts and
// file paths against the rule table to decide which guidance surfaces.
package engine

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"

	"github.com/anthropics/claude-skills-go/internal/fuzzy"
	"github.com/anthropics/claude-skills-go/internal/rules"
)

// Query is what the caller observed: the user's prompt text and any file
// paths touched by the current operation.
type Query struct {
	Prompt string
	Files  []string
}

// Activation is a matched rule with its score and provenance.
type Activation struct {
	Rule            rules.Rule
	Score           float64
	MatchedKeywords []string
	MatchedPaths    []string
}

// Limits constrains what the engine may activate. Zero values mean no limit.
type Limits struct {
	MaxActivations int
	MinScore       float64
	Disabled       []string
}

// Engine matches queries against a compiled rule set.
type Engine struct {
	rules    []rules.Rule
	limits   Limits
	disabled map[string]bool
}

// Scoring weights. Path hits outweigh keyword hits: a rule that names the
// file being edited is a stronger signal than prompt vocabulary.
const (
	keywordWeight = 1.0
	pathWeight    = 2.0
)

// Single-word keywords at least this long tolerate one edit against prompt
// tokens, so "kubeclt" still activates a kubectl rule. Shorter keywords
// match exactly to avoid noise.
const fuzzyKeywordMinLen = 5

// New creates an engine over the given rules and limits.
func New(rs []rules.Rule, limits Limits) *Engine {
	disabled := make(map[string]bool, len(limits.Disabled))
	for _, name := range limits.Disabled {
		disabled[name] = true
	}
	return &Engine{rules: rs, limits: limits, disabled: disabled}
}

// Match runs the query against every rule and returns activations sorted by
// priority (descending), then score, then skill name. Results are
// deduplicated by skill name, keeping the highest-ranked rule.
func (e *Engine) Match(q Query) []Activation {
	tokens := tokenize(q.Prompt)

	var matches []Activation
	for _, r := range e.rules {
		if e.disabled[r.Skill] {
			continue
		}

		var act Activation
		act.Rule = r

		for _, kw := range r.Keywords {
			if keywordMatches(kw, q.Prompt, tokens) {
				act.MatchedKeywords = append(act.MatchedKeywords, kw)
			}
		}

		for _, file := range q.Files {
			for _, pattern := range r.Paths {
				if matchPath(pattern, file) {
					act.MatchedPaths = append(act.MatchedPaths, file)
					break
				}
			}
		}

		if len(act.MatchedKeywords) == 0 && len(act.MatchedPaths) == 0 {
			continue
		}

		act.Score = keywordWeight*float64(len(act.MatchedKeywords)) +
			pathWeight*float64(len(act.MatchedPaths))
		if e.limits.MinScore > 0 && act.Score < e.limits.MinScore {
			continue
		}

		matches = append(matches, act)
	}

	// Stable: rules for the same skill with equal priority and score keep
	// load order, so standalone rules beat frontmatter-compiled ones.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Rule.Priority != b.Rule.Priority {
			return a.Rule.Priority > b.Rule.Priority
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Rule.Skill < b.Rule.Skill
	})

	// Deduplicate by skill name; the sort above puts the best rule first.
	seen := make(map[string]bool)
	var out []Activation
	for _, m := range matches {
		if seen[m.Rule.Skill] {
			continue
		}
		seen[m.Rule.Skill] = true
		out = append(out, m)
	}

	if e.limits.MaxActivations > 0 && len(out) > e.limits.MaxActivations {
		out = out[:e.limits.MaxActivations]
	}

	return out
}

// keywordMatches checks a single keyword against the prompt. Multi-word
// keywords match as case-insensitive phrases at word boundaries; single-word
// keywords match tokens exactly, or within one edit when long enough.
func keywordMatches(keyword, prompt string, tokens []string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" || prompt == "" {
		return false
	}

	if strings.ContainsRune(kw, ' ') {
		return phraseMatches(kw, strings.ToLower(prompt))
	}

	for _, tok := range tokens {
		if tok == kw {
			return true
		}
		if len(kw) >= fuzzyKeywordMinLen && fuzzy.Distance(kw, tok) <= 1 {
			return true
		}
	}
	return false
}

// phraseMatches reports whether phrase occurs in text bounded by non-word
// characters on both sides. Both arguments must already be lowercased.
func phraseMatches(phrase, text string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start

		before := idx == 0 || !isWordByte(text[idx-1])
		end := idx + len(phrase)
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		start = idx + 1
	}
}

// matchPath matches a file path against a doublestar pattern, trying the
// full path first and the base name second.
func matchPath(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, path)
	if err != nil {
		log.Debugf("skipping invalid path pattern %q: %v", pattern, err)
		return false
	}
	if matched {
		return true
	}

	base := baseName(path)
	matched, err = doublestar.Match(pattern, base)
	return err == nil && matched
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// tokenize splits a prompt into lowercase word tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '-' || r == '_' || r == '.' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isWordByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
