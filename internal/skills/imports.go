package skills

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolveImports processes @path directives in skill bodies. Each directive
// must be on its own line; paths resolve relative to the skill's bundle
// directory. Importing a directory inlines its .md files in name order.
// Cycles are broken by resolving each file at most once.
func ResolveImports(content, baseDir string) string {
	return resolveImports(content, baseDir, make(map[string]bool))
}

func resolveImports(content, baseDir string, visited map[string]bool) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Check for @path directive (line starts with @ followed by a path).
		if strings.HasPrefix(trimmed, "@") && len(trimmed) > 1 {
			importPath := trimmed[1:] // strip the @

			// Resolve relative to the bundle directory.
			if !filepath.IsAbs(importPath) {
				importPath = filepath.Join(baseDir, importPath)
			}

			info, err := os.Stat(importPath)
			if err != nil {
				// Keep the line as-is if the path doesn't exist.
				result = append(result, line)
				continue
			}

			if info.IsDir() {
				if dirContent := loadImportDir(importPath); dirContent != "" {
					result = append(result, dirContent)
				}
			} else {
				if imported := loadImportFile(importPath, visited); imported != "" {
					result = append(result, imported)
				}
			}
			continue
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// loadImportFile reads an imported file and resolves its own imports.
// The visited set prevents import cycles.
func loadImportFile(path string, visited map[string]bool) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	if visited[absPath] {
		return ""
	}
	visited[absPath] = true

	data, err := os.ReadFile(absPath)
	if err != nil {
		return ""
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return ""
	}

	return resolveImports(content, filepath.Dir(absPath), visited)
}

// loadImportDir loads all .md files from a directory, sorted alphabetically.
// It does not recurse into subdirectories.
func loadImportDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var sections []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		content := strings.TrimSpace(string(data))
		if content != "" {
			sections = append(sections, content)
		}
	}

	return strings.Join(sections, "\n\n")
}
