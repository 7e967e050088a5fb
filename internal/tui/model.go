package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/export"
	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/session"
	"github.com/csheth/lingonotes/internal/settings"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Session   *session.Controller
	Editor    settings.Editor
	ExportDir string
	Logger    *zap.Logger
	// Context is the parent of every background job.
	Context context.Context
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	// Now stamps exports; defaults to time.Now.
	Now func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Session == nil {
		config.Session = session.Open(context.Background(), nil, nil, session.Options{Logger: config.Logger})
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Clipboard == nil {
		config.Clipboard = clipboard.WriteAll
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.ExportDir == "" {
		config.ExportDir = "."
	}

	composer := textinput.New()
	composer.Placeholder = composerPlaceholder
	composer.CharLimit = composerCharLimit
	composer.Width = 70
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:        config,
		session:       config.Session,
		editor:        config.Editor.Normalize(),
		keys:          defaultKeyMap(),
		stage:         stageCompose,
		composer:      composer,
		spinner:       spin,
		viewport:      vp,
		layout:        newPageLayout(),
		jobs:          newJobBus(config.Context, config.Logger),
		running:       map[string]jobSnapshot{},
		entryLines:    map[int]int{},
		viewportDirty: true,
		logger:        config.Logger,
		infoMessage:   "Type a phrase and press Enter to translate it.",
	}
	m.refreshEntries()
	if n := len(m.entries); n > 0 {
		m.cursor = n - 1
		m.infoMessage = fmt.Sprintf("Restored %d note(s).", n)
	}
	return m
}

type model struct {
	config  Config
	session *session.Controller
	editor  settings.Editor
	keys    keyMap
	stage   stage

	composer textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout

	jobs    *jobBus
	running map[string]jobSnapshot
	lastJob *jobSnapshot

	entries       []notes.Entry
	cursor        int
	entryLines    map[int]int
	viewportDirty bool
	spinning      bool

	infoMessage  string
	errorMessage string
	helpVisible  bool

	logger *zap.Logger
}

// Init resumes entries left pending by an earlier run.
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	for _, req := range m.session.Resume(m.editor.SourceLang, m.editor.TargetLang) {
		cmds = append(cmds, m.jobs.Start(jobKindTranslate, translateJob(m.session, req)))
	}
	if len(cmds) > 1 {
		m.logger.Info("resuming pending translations", zap.Int("count", len(cmds)-1))
		cmds = append(cmds, m.startSpinner())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.hasPending() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.markViewportDirty()
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.composer.Width = max(m.layout.viewportWidth-4, 20)
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.running[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.ID)
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case translationResultMsg:
		return m.applyTranslation(msg.outcome)
	case exportResultMsg:
		if msg.err != nil {
			m.errorMessage = exportErrorMessage(msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exported %s to %s", formatLabel(msg.format), msg.path)
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("copy failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Translation copied to clipboard."
		return m, nil
	}
	return m, nil
}

// applyTranslation reconciles an outcome. Outcomes for entries deleted or
// cleared meanwhile are dropped.
func (m *model) applyTranslation(out session.Outcome) (tea.Model, tea.Cmd) {
	if !m.session.Reconcile(out) {
		return m, nil
	}
	m.refreshEntries()
	if out.Err != nil {
		m.errorMessage = fmt.Sprintf("translation failed: %v", out.Err)
		m.infoMessage = "Select the note and press Ctrl+R to retry."
	} else if out.Result.Untranslated {
		m.infoMessage = "The provider returned the phrase unchanged."
	} else if !m.hasPending() {
		m.errorMessage = ""
		m.infoMessage = "Translation ready."
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	switch m.stage {
	case stageConfirmClear:
		return m.handleConfirmClearKey(msg)
	case stageExport:
		return m.handleExportKey(msg)
	}
	if m.helpVisible && (key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Cancel)) {
		m.helpVisible = false
		m.markViewportDirty()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Cancel):
		m.composer.SetValue("")
		m.errorMessage = ""
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.deleteSelected()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if len(m.entries) == 0 {
			m.infoMessage = "Nothing to clear."
			return m, nil
		}
		m.stage = stageConfirmClear
		return m, nil
	case key.Matches(msg, m.keys.Export):
		if len(m.entries) == 0 {
			m.errorMessage = export.ErrNothingToExport.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.stage = stageExport
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		return m, m.retrySelected()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	case key.Matches(msg, m.keys.Bold):
		m.editor.ToggleBold()
		m.markViewportDirty()
		return m, nil
	case key.Matches(msg, m.keys.Italic):
		m.editor.ToggleItalic()
		m.markViewportDirty()
		return m, nil
	case key.Matches(msg, m.keys.Font):
		m.editor.CycleFont()
		m.infoMessage = "Font: " + m.editor.FontFamily.Label()
		return m, nil
	case key.Matches(msg, m.keys.Bigger):
		m.editor.ResizeFont(1)
		return m, nil
	case key.Matches(msg, m.keys.Smaller):
		m.editor.ResizeFont(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextTarget):
		m.editor.CycleTarget(1)
		return m, nil
	case key.Matches(msg, m.keys.NextSource):
		m.editor.CycleSource(1)
		return m, nil
	case key.Matches(msg, m.keys.Swap):
		m.editor.SwapLanguages()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *model) handleConfirmClearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		n := m.session.Clear()
		m.stage = stageCompose
		m.refreshEntries()
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Cleared %d note(s).", n)
	case "n", "N", "esc":
		m.stage = stageCompose
		m.infoMessage = "Clear canceled."
	}
	return m, nil
}

func (m *model) handleExportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var format export.Format
	switch msg.String() {
	case "t", "T":
		format = export.FormatText
	case "d", "D":
		format = export.FormatDoc
	case "p", "P":
		format = export.FormatPDF
	case "esc":
		m.stage = stageCompose
		return m, nil
	default:
		return m, nil
	}
	m.stage = stageCompose
	m.infoMessage = fmt.Sprintf("Exporting %s…", formatLabel(format))
	return m, m.jobs.Start(jobKindExport, exportJob(format, m.exportDocument(), m.config.ExportDir))
}

func (m *model) exportDocument() export.Document {
	return export.Document{
		Entries:    m.session.Snapshot(),
		SourceLang: m.editor.SourceLang,
		TargetLang: m.editor.TargetLang,
		ExportedAt: m.config.Now(),
		Editor:     m.editor,
	}
}

func (m *model) submit() tea.Cmd {
	req, ok := m.session.Submit(m.composer.Value(), m.editor.SourceLang, m.editor.TargetLang)
	if !ok {
		return nil
	}
	m.composer.SetValue("")
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Translating to %s…", m.editor.TargetLang)
	m.refreshEntries()
	m.cursor = len(m.entries) - 1
	return tea.Batch(m.jobs.Start(jobKindTranslate, translateJob(m.session, req)), m.startSpinner())
}

func (m *model) deleteSelected() {
	entry, ok := m.selectedEntry()
	if !ok {
		return
	}
	if m.session.Remove(entry.ID) {
		m.infoMessage = fmt.Sprintf("Deleted %q.", entry.Original)
	}
	m.refreshEntries()
}

func (m *model) retrySelected() tea.Cmd {
	entry, ok := m.selectedEntry()
	if !ok {
		return nil
	}
	req, ok := m.session.Retry(entry.ID, m.editor.SourceLang, m.editor.TargetLang)
	if !ok {
		m.infoMessage = "Only failed translations can be retried."
		return nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Retrying %q…", entry.Original)
	m.refreshEntries()
	return tea.Batch(m.jobs.Start(jobKindTranslate, translateJob(m.session, req)), m.startSpinner())
}

func (m *model) copySelected() tea.Cmd {
	entry, ok := m.selectedEntry()
	if !ok {
		return nil
	}
	if entry.Status != notes.StatusCompleted {
		m.infoMessage = "Nothing to copy yet."
		return nil
	}
	return m.jobs.Start(jobKindCopy, copyJob(m.config.Clipboard, entry.Translation))
}

func (m *model) selectedEntry() (notes.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return notes.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.entries)-1, m.cursor+delta))
	m.markViewportDirty()
}

// refreshEntries re-reads the list from the session and clamps the cursor.
func (m *model) refreshEntries() {
	m.entries = m.session.Snapshot()
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.markViewportDirty()
}

func (m *model) hasPending() bool {
	for _, e := range m.entries {
		if e.Pending() {
			return true
		}
	}
	return false
}

func (m *model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func exportErrorMessage(err error) string {
	if errors.Is(err, export.ErrNothingToExport) {
		return err.Error()
	}
	return fmt.Sprintf("export failed: %v", err)
}

func formatLabel(f export.Format) string {
	switch f {
	case export.FormatDoc:
		return "Word document"
	case export.FormatPDF:
		return "PDF"
	default:
		return "text file"
	}
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	translationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	untranslatedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e9c46a")).Italic(true)
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f4a259")).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
)
