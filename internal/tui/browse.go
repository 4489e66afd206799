// Package tui implements the interactive corpus browser: a bubbletea app
// with a filterable list of skills, agents, and library docs on the left
// and a glamour-rendered preview on the right.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/anthropics/claude-skills-go/internal/agents"
	"github.com/anthropics/claude-skills-go/internal/library"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A855F7"))

	focusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A855F7"))

	blurredBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// Model is the browse UI state.
type Model struct {
	list     list.Model
	viewport viewport.Model

	width, height int
	focusPreview  bool
	fullscreen    bool
	current       *entry
}

// NewModel builds the browse model over the given corpus entries.
func NewModel(entries []entry) Model {
	items := make([]list.Item, len(entries))
	for i := range entries {
		items[i] = entries[i]
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Corpus"
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	vp := viewport.New(0, 0)
	vp.SetContent("Select an entry to preview.")

	return Model{list: l, viewport: vp}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case tea.KeyMsg:
		filtering := m.list.FilterState() == list.Filtering
		if !filtering {
			switch msg.String() {
			case "q", "ctrl+c":
				if m.fullscreen {
					m.fullscreen = false
					m.layout()
					return m, nil
				}
				return m, tea.Quit
			case "tab":
				m.focusPreview = !m.focusPreview
				return m, nil
			case "enter":
				if !m.fullscreen {
					m.fullscreen = true
					m.layout()
					return m, nil
				}
			case "esc":
				if m.fullscreen {
					m.fullscreen = false
					m.layout()
					return m, nil
				}
			}
		}

		if m.focusPreview || m.fullscreen {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		m.refreshPreview()
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.refreshPreview()
	return m, tea.Batch(cmds...)
}

// layout recomputes pane sizes for the current terminal dimensions.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentHeight := m.height - 3 // chrome: borders + hint line
	if contentHeight < 3 {
		contentHeight = 3
	}

	if m.fullscreen {
		m.viewport.Width = m.width - 4
		m.viewport.Height = contentHeight
		m.refreshPreview()
		return
	}

	listWidth := m.width * 2 / 5
	if listWidth < 24 {
		listWidth = 24
	}
	m.list.SetSize(listWidth-2, contentHeight)
	m.viewport.Width = m.width - listWidth - 6
	m.viewport.Height = contentHeight
	m.refreshPreview()
}

// refreshPreview re-renders the preview when the selection changes.
func (m *Model) refreshPreview() {
	item, ok := m.list.SelectedItem().(entry)
	if !ok {
		return
	}
	if m.current != nil && m.current.id() == item.id() {
		return
	}
	m.current = &item

	content, err := item.content()
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("error: %v", err))
		return
	}
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(library.RenderMarkdown(content, width))
	m.viewport.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	hint := hintStyle.Render("/ filter · tab switch pane · enter fullscreen · q quit")

	if m.fullscreen {
		return focusedBorder.Render(m.viewport.View()) + "\n" + hint
	}

	listPane := blurredBorder.Render(m.list.View())
	previewPane := blurredBorder.Render(m.viewport.View())
	if m.focusPreview {
		previewPane = focusedBorder.Render(m.viewport.View())
	} else {
		listPane = focusedBorder.Render(m.list.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane) + "\n" + hint
}

// Browse loads the corpus and runs the interactive browser. When stdout is
// not a terminal it falls back to a plain listing on w.
func Browse(ctx context.Context, cwd string, libraryRoots []string, w io.Writer) error {
	entries, err := loadEntries(ctx, cwd, libraryRoots)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		WriteListing(w, entries)
		return nil
	}

	p := tea.NewProgram(NewModel(entries), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

// WriteListing prints the corpus as plain text, one entry per line.
func WriteListing(w io.Writer, entries []entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-8s %s — %s\n", e.kind, e.name, e.describe())
	}
}

// loadEntries assembles the browsable corpus: skills, agents, then library
// docs.
func loadEntries(ctx context.Context, cwd string, libraryRoots []string) ([]entry, error) {
	var entries []entry

	sk, err := skills.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	for _, s := range sk {
		entries = append(entries, skillEntry(s))
	}

	ag, err := agents.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading agents: %w", err)
	}
	for _, a := range ag {
		entries = append(entries, agentEntry(a))
	}

	if len(libraryRoots) > 0 {
		idx, err := library.Build(ctx, libraryRoots)
		if err != nil {
			return nil, fmt.Errorf("indexing library: %w", err)
		}
		for _, d := range idx.Docs {
			entries = append(entries, docEntry(d))
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("nothing to browse: no skills, agents, or library docs found")
	}
	return entries, nil
}
