package rfc

import (
	"fmt"
	"strings"
)

// Problem is one defect found by Check.
type Problem struct {
	Message string
}

// RequiredSections are the h2 sections every RFC must carry, with a
// non-empty body.
var RequiredSections = []string{"Summary", "Motivation", "Design", "Alternatives"}

// Check validates a parsed RFC: title present, required metadata present,
// required sections present and non-empty.
func Check(doc *Document) []Problem {
	var problems []Problem

	if doc.Title == "" {
		problems = append(problems, Problem{Message: "missing title (# heading)"})
	}
	if doc.Meta["Author"] == "" {
		problems = append(problems, Problem{Message: "missing Author metadata"})
	}
	if doc.Meta["Status"] == "" {
		problems = append(problems, Problem{Message: "missing Status metadata"})
	}

	sections := sectionBodies(doc)
	for _, name := range RequiredSections {
		count, ok := sections[name]
		if !ok {
			problems = append(problems, Problem{Message: fmt.Sprintf("missing required section %q", name)})
			continue
		}
		if count == 0 {
			problems = append(problems, Problem{Message: fmt.Sprintf("required section %q is empty", name)})
		}
	}

	return problems
}

// Outline returns an indented heading tree with per-section element counts.
func Outline(doc *Document) string {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "%s\n", doc.Title)
	}

	counts := elementCounts(doc)
	idx := 0
	for _, e := range doc.Elements {
		if e.Type != Heading {
			continue
		}
		// Sections are h2; deeper headings indent under them.
		depth := e.Level - 2
		if depth < 0 {
			depth = 0
		}
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s (%d)\n", indent, e.Text, counts[idx])
		idx++
	}
	return strings.TrimRight(b.String(), "\n")
}

// sectionBodies maps each h2 section name to the number of elements in its
// body (until the next h2 or end of document).
func sectionBodies(doc *Document) map[string]int {
	sections := make(map[string]int)
	current := ""
	for _, e := range doc.Elements {
		if e.Type == Heading && e.Level == 2 {
			current = e.Text
			if _, ok := sections[current]; !ok {
				sections[current] = 0
			}
			continue
		}
		if current == "" {
			continue
		}
		switch e.Type {
		case Title, Metadata:
			// not body content
		case Heading:
			if e.Level <= 2 {
				current = ""
			} else {
				sections[current]++
			}
		default:
			sections[current]++
		}
	}
	return sections
}

// elementCounts returns, per heading (in order), the number of elements
// between it and the next heading.
func elementCounts(doc *Document) []int {
	var counts []int
	for _, e := range doc.Elements {
		if e.Type == Heading {
			counts = append(counts, 0)
			continue
		}
		if e.Type == Title || e.Type == Metadata {
			continue
		}
		if len(counts) > 0 {
			counts[len(counts)-1]++
		}
	}
	return counts
}
