package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/lingonotes/internal/notes"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.viewportWidth = max(width-viewportHorizontalPadding, minViewportWidth)
	l.viewportHeight = max(height-chromeHeight, minViewportHeight)
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

type noteListView struct {
	content string
	// lines maps an entry index to its first line and height.
	lines   map[int]int
	heights map[int]int
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.refreshViewport()
	m.viewportDirty = false
}

func (m *model) refreshViewport() {
	view := m.buildNoteList()
	m.entryLines = view.lines
	m.viewport.SetContent(view.content)
	m.ensureCursorVisible(view)
}

func (m *model) buildNoteList() noteListView {
	cb := &contentBuilder{}
	view := noteListView{lines: map[int]int{}, heights: map[int]int{}}
	if len(m.entries) == 0 {
		cb.WriteString(helperStyle.Render(emptyListMessage))
		view.content = cb.String()
		return view
	}
	wrap := m.wrapWidth(6)
	body := m.noteTextStyle()
	for idx, entry := range m.entries {
		start := cb.Line()
		view.lines[idx] = start

		marker := "  "
		if idx == m.cursor {
			marker = "▸ "
		}
		number := fmt.Sprintf("%d. ", idx+1)
		original := indentMultiline(wordwrap.String(entry.Original, wrap), strings.Repeat(" ", len(marker)+len(number)))
		original = strings.TrimLeft(original, " ")
		head := marker + number + body.Render(original)
		if idx == m.cursor {
			head = currentLineStyle.Render(marker+number) + body.Render(original)
		}
		cb.WriteString(head)
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(m.renderTranslation(entry, wrap), "     "))
		cb.WriteRune('\n')
		if idx < len(m.entries)-1 {
			cb.WriteRune('\n')
		}
		view.heights[idx] = cb.Line() - start
	}
	view.content = strings.TrimRight(cb.String(), "\n")
	return view
}

func (m *model) renderTranslation(entry notes.Entry, wrap int) string {
	switch {
	case entry.Status == notes.StatusPending:
		return helperStyle.Render(m.spinner.View() + " " + pendingText)
	case entry.Status == notes.StatusFailed:
		return errorStyle.Render("→ "+notes.ErrorSentinel) + helperStyle.Render("  (Ctrl+R to retry)")
	case entry.Untranslated:
		return translationStyle.Render("→ "+wordwrap.String(entry.Translation, wrap)) + " " + untranslatedStyle.Render("(untranslated)")
	case strings.TrimSpace(entry.Translation) == "":
		return helperStyle.Render("→ " + pendingText)
	default:
		return translationStyle.Render("→ " + wordwrap.String(entry.Translation, wrap))
	}
}

func (m *model) noteTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(m.editor.Bold).Italic(m.editor.Italic)
}

// ensureCursorVisible scrolls the viewport so the selected entry is on screen.
func (m *model) ensureCursorVisible(view noteListView) {
	start, ok := view.lines[m.cursor]
	if !ok {
		m.viewport.GotoTop()
		return
	}
	end := start + view.heights[m.cursor]
	height := max(m.viewport.Height, 1)
	switch {
	case start < m.viewport.YOffset:
		m.viewport.SetYOffset(start)
	case end > m.viewport.YOffset+height:
		m.viewport.SetYOffset(end - height)
	}
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width - padding
	if width < 20 {
		width = 20
	}
	return width
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
