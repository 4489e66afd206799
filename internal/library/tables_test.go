package library

import "testing"

func TestParseTables(t *testing.T) {
	content := `# Finder Shortcuts

## Navigation

| Shortcut | Action |
|----------|--------|
| Cmd+N    | New window |
| Cmd+T    | New tab |

Some prose.

## Other

| A | B |
|---|---|
| 1 | 2 |
`
	tables := ParseTables(content)
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}

	first := tables[0]
	if first.Caption != "Navigation" {
		t.Errorf("expected caption 'Navigation', got %q", first.Caption)
	}
	if len(first.Header) != 2 || first.Header[0] != "Shortcut" {
		t.Errorf("unexpected header: %v", first.Header)
	}
	if len(first.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first.Rows))
	}
	if first.Rows[0][0] != "Cmd+N" || first.Rows[0][1] != "New window" {
		t.Errorf("unexpected row: %v", first.Rows[0])
	}

	if tables[1].Caption != "Other" {
		t.Errorf("expected caption 'Other', got %q", tables[1].Caption)
	}
}

func TestParseTables_EscapedPipe(t *testing.T) {
	content := "| Key | Meaning |\n|-----|---------|\n| a\\|b | pipe in cell |\n"
	tables := ParseTables(content)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if tables[0].Rows[0][0] != "a|b" {
		t.Errorf("expected escaped pipe preserved, got %q", tables[0].Rows[0][0])
	}
}

func TestParseTables_AlignmentSeparators(t *testing.T) {
	content := "| L | C | R |\n|:--|:-:|--:|\n| 1 | 2 | 3 |\n"
	tables := ParseTables(content)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if len(tables[0].Rows) != 1 {
		t.Errorf("alignment separator should be skipped, rows: %v", tables[0].Rows)
	}
}

func TestParseTables_InsideFenceIgnored(t *testing.T) {
	content := "```\n| not | table |\n|-----|-------|\n```\n"
	if tables := ParseTables(content); len(tables) != 0 {
		t.Errorf("expected no tables inside fences, got %d", len(tables))
	}
}

func TestParseTables_NoTables(t *testing.T) {
	if tables := ParseTables("just prose\nmore prose"); len(tables) != 0 {
		t.Errorf("expected no tables, got %d", len(tables))
	}
}
