package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView()}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView(), m.helpView())
	} else {
		parts = append(parts, m.viewport.View())
	}
	parts = append(parts, m.messageView(), m.composerPanel(), m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	title := titleStyle.Render("LingoNotes")
	langs := sectionHeaderStyle.Render(fmt.Sprintf("%s → %s", m.editor.SourceLang, m.editor.TargetLang))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", langs),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) messageView() string {
	switch m.stage {
	case stageConfirmClear:
		return errorStyle.Render(fmt.Sprintf("Delete all %d note(s)? (y/n)", len(m.entries)))
	case stageExport:
		return sectionHeaderStyle.Render("Export as: ") +
			keyStyle.Render("t") + keyDescStyle.Render(" Text  ") +
			keyStyle.Render("d") + keyDescStyle.Render(" Word  ") +
			keyStyle.Render("p") + keyDescStyle.Render(" PDF  ") +
			helperStyle.Render("Esc to cancel")
	}
	var lines []string
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		lines = append(lines, helperStyle.Render(m.infoMessage))
	}
	return strings.Join(lines, "\n")
}

func (m *model) composerPanel() string {
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render("New note"),
		m.composer.View(),
	})
}

func (m *model) statusBarView() string {
	stats := []string{
		m.editor.Summary(),
		fmt.Sprintf("Notes %d", len(m.entries)),
	}
	if pending := m.pendingCount(); pending > 0 {
		stats = append(stats, fmt.Sprintf("Translating %d", pending))
	}
	if provider := m.session.Provider(); provider != "" {
		stats = append(stats, provider)
	} else {
		stats = append(stats, "No provider")
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	stats = append(stats, "Ctrl+G help")
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) pendingCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Pending() {
			n++
		}
	}
	return n
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	counts := map[jobKind]int{}
	for _, job := range m.running {
		counts[job.Kind]++
	}
	for _, kind := range []jobKind{jobKindExport, jobKindCopy} {
		if counts[kind] > 0 {
			badges = append(badges, fmt.Sprintf("%s…", kind))
		}
	}
	if m.lastJob != nil && m.lastJob.Status == jobStatusFailed && m.lastJob.Kind != jobKindTranslate {
		badges = append(badges, fmt.Sprintf("last %s failed", m.lastJob.Kind))
	}
	return badges
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	var hints []keyHint
	for _, binding := range m.keys.legend() {
		help := binding.Help()
		hints = append(hints, keyHint{Key: help.Key, Description: help.Desc})
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := min(i+columns, len(hints))
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("How it works"),
		helperStyle.Render("• type a phrase and press Enter; the translation appears under it when the provider answers."),
		helperStyle.Render("• failed translations show \"Error translating\"; select one and press Ctrl+R to try again."),
		helperStyle.Render("• notes are saved automatically and restored the next time you start LingoNotes."),
		helperStyle.Render("• Ctrl+E exports the list as text, Word or PDF into the export directory."),
		helperStyle.Render("• press Ctrl+G or Esc to close this cheatsheet."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}
