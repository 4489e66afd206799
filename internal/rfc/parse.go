// Package rfc parses, scaffolds, and checks structured proposal documents.
//
// RFCs are markdown files with a metadata block (Author, Status, Created,
// Version) under the title and a set of required sections. The parser is a
// line-oriented pass rather than a full markdown AST: metadata lines,
// ASCII-diagram detection, and table extraction all operate on line shapes.
package rfc

import (
	"regexp"
	"strings"

	"github.com/anthropics/claude-skills-go/internal/library"
)

// ElementType classifies one parsed element.
type ElementType int

const (
	Title ElementType = iota
	Heading
	Paragraph
	Bullet
	Numbered
	Code
	Diagram
	TableElem
	Metadata
)

// Element is one structural piece of an RFC document.
type Element struct {
	Type     ElementType
	Text     string
	Level    int      // heading level, or bullet indent level
	Number   int      // numbered item ordinal
	Language string   // fenced code language tag
	Table    *library.Table
	Meta     map[string]string // metadata element: single key/value
}

// Document is a parsed RFC.
type Document struct {
	Title    string
	Elements []Element
	Meta     map[string]string
}

// metadataKeys are the recognized metadata line keys near the top of the
// document, plain or bold ("**Author:** Jane" or "Author: Jane").
var metadataKeys = map[string]bool{
	"Author":  true,
	"Status":  true,
	"Created": true,
	"Date":    true,
	"Version": true,
}

var numberedRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
var boldMetaRe = regexp.MustCompile(`^\*\*([A-Za-z]+):?\*\*:?\s*(.*)$`)

// Parse runs the line pass over RFC content.
func Parse(content string) *Document {
	doc := &Document{Meta: make(map[string]string)}
	lines := strings.Split(content, "\n")
	i := 0

	for i < len(lines) {
		line := lines[i]
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			i++
			continue
		}

		// Title: first "# " heading in the document.
		if strings.HasPrefix(stripped, "# ") && len(doc.Elements) == 0 {
			doc.Title = strings.TrimSpace(stripped[2:])
			doc.Elements = append(doc.Elements, Element{Type: Title, Text: doc.Title})
			i++
			continue
		}

		// Headings.
		if strings.HasPrefix(stripped, "### ") {
			doc.Elements = append(doc.Elements, Element{Type: Heading, Level: 3, Text: strings.TrimSpace(stripped[4:])})
			i++
			continue
		}
		if strings.HasPrefix(stripped, "## ") {
			doc.Elements = append(doc.Elements, Element{Type: Heading, Level: 2, Text: strings.TrimSpace(stripped[3:])})
			i++
			continue
		}
		if strings.HasPrefix(stripped, "# ") {
			doc.Elements = append(doc.Elements, Element{Type: Heading, Level: 1, Text: strings.TrimSpace(stripped[2:])})
			i++
			continue
		}

		// Fenced code blocks; untagged blocks that look like diagrams are
		// reclassified.
		if strings.HasPrefix(stripped, "```") {
			lang := strings.TrimSpace(strings.TrimPrefix(stripped, "```"))
			var codeLines []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				codeLines = append(codeLines, lines[i])
				i++
			}
			i++ // skip closing fence

			code := strings.Join(codeLines, "\n")
			if lang == "" && IsASCIIDiagram(code) {
				doc.Elements = append(doc.Elements, Element{Type: Diagram, Text: code})
			} else {
				doc.Elements = append(doc.Elements, Element{Type: Code, Text: code, Language: lang})
			}
			continue
		}

		// Tables.
		if strings.HasPrefix(stripped, "|") {
			var tableLines []string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
				tableLines = append(tableLines, lines[i])
				i++
			}
			tables := library.ParseTables(strings.Join(tableLines, "\n"))
			if len(tables) > 0 {
				t := tables[0]
				doc.Elements = append(doc.Elements, Element{Type: TableElem, Table: &t})
			}
			continue
		}

		// Bullets (indent level from leading spaces, two per level).
		if strings.HasPrefix(stripped, "- ") || strings.HasPrefix(stripped, "* ") {
			indent := (len(line) - len(strings.TrimLeft(line, " "))) / 2
			doc.Elements = append(doc.Elements, Element{Type: Bullet, Text: strings.TrimSpace(stripped[2:]), Level: indent})
			i++
			continue
		}

		// Numbered items.
		if m := numberedRe.FindStringSubmatch(stripped); m != nil {
			num := 0
			for _, c := range m[1] {
				num = num*10 + int(c-'0')
			}
			doc.Elements = append(doc.Elements, Element{Type: Numbered, Text: m[2], Number: num})
			i++
			continue
		}

		// Metadata lines near the top of the document.
		if key, value, ok := metadataLine(stripped); ok && nearTop(doc.Elements) {
			doc.Elements = append(doc.Elements, Element{Type: Metadata, Meta: map[string]string{key: value}})
			doc.Meta[key] = value
			i++
			continue
		}

		// Paragraph: join consecutive plain lines.
		paraLines := []string{stripped}
		i++
		for i < len(lines) {
			next := strings.TrimSpace(lines[i])
			if next == "" || strings.HasPrefix(next, "#") || strings.HasPrefix(next, "```") ||
				strings.HasPrefix(next, "|") || strings.HasPrefix(next, "- ") ||
				strings.HasPrefix(next, "* ") || numberedRe.MatchString(next) {
				break
			}
			paraLines = append(paraLines, next)
			i++
		}
		doc.Elements = append(doc.Elements, Element{Type: Paragraph, Text: strings.Join(paraLines, " ")})
	}

	return doc
}

// metadataLine recognizes "Author: X" and "**Author:** X" shapes for the
// known metadata keys.
func metadataLine(s string) (key, value string, ok bool) {
	if m := boldMetaRe.FindStringSubmatch(s); m != nil {
		if metadataKeys[m[1]] {
			return m[1], strings.TrimSpace(m[2]), true
		}
		return "", "", false
	}
	k, v, found := strings.Cut(s, ":")
	if !found {
		return "", "", false
	}
	k = strings.TrimSpace(k)
	if !metadataKeys[k] {
		return "", "", false
	}
	return k, strings.TrimSpace(v), true
}

// nearTop limits metadata recognition to the head of the document, before
// real content starts. Title and other metadata lines don't count as
// content.
func nearTop(elements []Element) bool {
	content := 0
	for _, e := range elements {
		if e.Type != Title && e.Type != Metadata {
			content++
		}
	}
	return content == 0
}

// diagramChars is the character set counted toward diagram density.
const diagramChars = `─│┌┐└┘├┤┬┴┼═║╔╗╚╝╠╣╦╩╬+-|*/\<>^v[](){}`

var boxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[+\-|]{3,}`),   // +---+ patterns
	regexp.MustCompile(`[┌┐└┘├┤┬┴┼─│]+`), // unicode box drawing
	regexp.MustCompile(`\[.*\].*\[.*\]`), // [Box] -> [Box] patterns
	regexp.MustCompile(`─{3,}`),        // long horizontal lines
	regexp.MustCompile(`│\s*│`),        // vertical bars
}

// IsASCIIDiagram reports whether a block of text looks like an ASCII
// diagram: box-drawing patterns, or diagram-character density above 0.15.
func IsASCIIDiagram(text string) bool {
	for _, re := range boxPatterns {
		if re.MatchString(text) {
			return true
		}
	}

	diagramCount := 0
	total := 0
	for _, r := range text {
		if r == ' ' || r == '\n' {
			continue
		}
		total++
		if strings.ContainsRune(diagramChars, r) {
			diagramCount++
		}
	}

	return total > 0 && float64(diagramCount)/float64(total) > 0.15
}
