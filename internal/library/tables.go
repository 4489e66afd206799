package library

import (
	"os"
	"regexp"
	"strings"
)

// Table is an extracted markdown pipe table. Caption is the nearest
// heading above the table, if any.
type Table struct {
	Caption string
	Header  []string
	Rows    [][]string
}

var separatorCellRe = regexp.MustCompile(`^[-:]+$`)

// Tables extracts all pipe tables from a markdown file.
func Tables(path string) ([]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTables(string(data)), nil
}

// ParseTables extracts pipe tables from markdown content. The header row is
// the first table row; a row whose cells are all dashes/colons is the
// separator and is skipped; remaining rows are data.
func ParseTables(content string) []Table {
	var tables []Table

	lines := strings.Split(content, "\n")
	caption := ""
	inFence := false

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			i++
			continue
		}
		if inFence {
			i++
			continue
		}

		if strings.HasPrefix(line, "#") {
			caption = strings.TrimSpace(strings.TrimLeft(line, "#"))
			i++
			continue
		}

		if !strings.HasPrefix(line, "|") {
			i++
			continue
		}

		// Collect the table block.
		var block []string
		for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
			block = append(block, lines[i])
			i++
		}

		if t, ok := parseTableBlock(block); ok {
			t.Caption = caption
			tables = append(tables, t)
		}
	}

	return tables
}

// parseTableBlock parses consecutive pipe-prefixed lines into a table.
func parseTableBlock(lines []string) (Table, bool) {
	var t Table
	for _, line := range lines {
		cells := splitRow(line)
		if len(cells) == 0 {
			continue
		}

		// Skip the separator row (cells of dashes and colons only).
		if isSeparatorRow(cells) {
			continue
		}

		if t.Header == nil {
			t.Header = cells
		} else {
			t.Rows = append(t.Rows, cells)
		}
	}
	return t, t.Header != nil
}

// splitRow splits a pipe table row into trimmed cells, honoring \| escapes.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if !separatorCellRe.MatchString(c) {
			return false
		}
	}
	return true
}
