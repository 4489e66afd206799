// Package library indexes the reference corpus: cheat sheets, CLI notes,
// and any other markdown under the configured roots.
package library

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Doc is one indexed markdown document.
type Doc struct {
	Title    string
	Path     string // absolute path
	Rel      string // path relative to its root
	Headings []string
	Tables   int
	Size     int64
	ModTime  time.Time
}

// Index is the set of indexed documents.
type Index struct {
	Docs []Doc
}

// Build walks each root concurrently and indexes every .md file found.
// Results are sorted by modification time, most recent first. Duplicate
// relative paths across roots keep the first occurrence (root order is
// precedence). Unreadable files are skipped with a warning.
func Build(ctx context.Context, roots []string) (*Index, error) {
	var mu sync.Mutex
	perRoot := make([][]Doc, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			docs, err := walkRoot(ctx, root)
			if err != nil {
				return err
			}
			mu.Lock()
			perRoot[i] = docs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in root order so earlier roots win on duplicate relative paths.
	seen := make(map[string]bool)
	var all []Doc
	for _, docs := range perRoot {
		for _, d := range docs {
			if seen[d.Rel] {
				continue
			}
			seen[d.Rel] = true
			all = append(all, d)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ModTime.After(all[j].ModTime)
	})

	return &Index{Docs: all}, nil
}

// ByRel returns the document with the given relative path, if indexed.
func (idx *Index) ByRel(rel string) (Doc, bool) {
	for _, d := range idx.Docs {
		if d.Rel == rel {
			return d, true
		}
	}
	return Doc{}, false
}

func walkRoot(ctx context.Context, root string) ([]Doc, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil // missing roots are not errors
	}

	var docs []Doc
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warnf("skipping %s: %v", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// Hidden directories (.git, .claude) are not corpus content.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		doc, err := indexFile(root, path)
		if err != nil {
			log.Warnf("skipping %s: %v", path, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// indexFile scans a markdown file for its title, headings, and table count.
func indexFile(root, path string) (Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return Doc{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Doc{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	doc := Doc{
		Path:    path,
		Rel:     rel,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	inFence := false
	inTable := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			inTable = false
			continue
		}
		if inFence {
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(line[2:])
			}
			inTable = false
		case strings.HasPrefix(line, "## "):
			doc.Headings = append(doc.Headings, strings.TrimSpace(line[3:]))
			inTable = false
		case strings.HasPrefix(line, "### "):
			doc.Headings = append(doc.Headings, strings.TrimSpace(line[4:]))
			inTable = false
		case strings.HasPrefix(line, "|"):
			if !inTable {
				doc.Tables++
				inTable = true
			}
		default:
			inTable = false
		}
	}
	if err := scanner.Err(); err != nil {
		return Doc{}, err
	}

	if doc.Title == "" {
		// Fall back to the file name without extension.
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return doc, nil
}
