package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hooklint/internal/core/ports"
	"hooklint/internal/data/history"
	"hooklint/internal/engine/lint"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

// problem is one message flattened with the file it belongs to.
type problem struct {
	path string
	msg  lint.Message
}

type panelMode int

const (
	panelProblems panelMode = iota
	panelFiles
)

type model struct {
	problemList list.Model
	fileList    list.Model
	mode        panelMode
	root        string
	fix         bool
	trendReport *history.TrendReport
	showTrend   bool

	problems   []problem
	files      []ports.FileResult
	result     ports.RunResult
	changed    []string
	runErr     string
	lastUpdate time.Time

	hasFileDetails bool
	selectedMsg    int
	jumpStatus     string
}

type updateMsg struct {
	result  ports.RunResult
	changed []string
	err     error
	at      time.Time
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.problemList.SetSize(width, height)
		m.fileList.SetSize(width, height)
	case updateMsg:
		m.lastUpdate = msg.at
		m.changed = msg.changed
		if msg.err != nil {
			m.runErr = msg.err.Error()
			break
		}
		m.runErr = ""
		m.result = msg.result
		m.setFiles(msg.result.Files)
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.jumpStatus = statusStyle.Render(fmt.Sprintf("Source jump failed: %v", msg.err))
		} else {
			m.jumpStatus = statusStyle.Render(fmt.Sprintf("Opened source: %s", msg.target))
		}
	}

	var cmd tea.Cmd
	if m.mode == panelProblems {
		m.problemList, cmd = m.problemList.Update(msg)
	} else {
		m.fileList, cmd = m.fileList.Update(msg)
	}
	return m, cmd
}

// setFiles rebuilds both lists. Only files with messages are listed.
func (m *model) setFiles(files []ports.FileResult) {
	m.files = nil
	m.problems = nil
	for _, f := range files {
		if len(f.Messages) == 0 {
			continue
		}
		m.files = append(m.files, f)
	}
	sort.Slice(m.files, func(i, j int) bool { return m.files[i].Path < m.files[j].Path })

	problemItems := []list.Item{}
	fileItems := make([]list.Item, 0, len(m.files))
	for _, f := range m.files {
		rel := m.displayPath(f.Path)
		for _, msg := range f.Messages {
			m.problems = append(m.problems, problem{path: f.Path, msg: msg})
			problemItems = append(problemItems, item{
				title: fmt.Sprintf("%s %s", severityLabel(msg), ruleLabel(msg)),
				desc:  fmt.Sprintf("%s:%d:%d %s", rel, msg.Line, msg.Column, msg.Message),
			})
		}
		fileItems = append(fileItems, item{
			title: rel,
			desc: fmt.Sprintf(
				"errors=%d warnings=%d fixable=%d",
				f.ErrorCount,
				f.WarningCount,
				f.FixableErrorCount+f.FixableWarningCount,
			),
		})
	}
	m.problemList.SetItems(problemItems)
	m.fileList.SetItems(fileItems)

	if m.hasFileDetails {
		if _, ok := m.selectedFile(); !ok {
			m.hasFileDetails = false
		}
		m.selectedMsg = 0
	}
}

func (m model) selectedFile() (ports.FileResult, bool) {
	if len(m.files) == 0 {
		return ports.FileResult{}, false
	}
	idx := m.fileList.Index()
	if idx < 0 || idx >= len(m.files) {
		idx = 0
	}
	return m.files[idx], true
}

func (m model) displayPath(path string) string {
	if m.root == "" {
		return path
	}
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func severityLabel(msg lint.Message) string {
	if msg.Severity == lint.SeverityError {
		return errorStyle.Render("error")
	}
	return warningStyle.Render("warn")
}

func ruleLabel(msg lint.Message) string {
	if msg.RuleID == "" {
		return "parse-error"
	}
	return msg.RuleID
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d changed",
		m.lastUpdate.Format("15:04:05"), len(m.result.Files), len(m.changed)))

	var summary string
	switch {
	case m.runErr != "":
		summary = errorStyle.Render("Run failed: " + m.runErr)
	case m.result.ErrorCount == 0 && m.result.WarningCount == 0:
		summary = successStyle.Render("No problems")
	default:
		summary = fmt.Sprintf("%s | %s",
			errorStyle.Render(fmt.Sprintf("%d errors", m.result.ErrorCount)),
			warningStyle.Render(fmt.Sprintf("%d warnings", m.result.WarningCount)))
	}

	title := "hooklint watch"
	if m.fix {
		title += " (fixing)"
	}
	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle(title), status, summary)
	help := renderHelp(m)

	body := m.problemList.View()
	if m.mode == panelFiles {
		body = renderFilePanel(m)
	}
	if m.showTrend {
		body += "\n\n" + renderTrendOverlay(m.trendReport)
	}
	if m.jumpStatus != "" {
		body += "\n\n" + m.jumpStatus
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func initialModel(root string, fix bool, trendReport *history.TrendReport) model {
	problemList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	problemList.Title = "Problems"
	problemList.SetShowStatusBar(false)
	problemList.SetFilteringEnabled(true)

	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Files"
	fileList.SetShowStatusBar(false)
	fileList.SetFilteringEnabled(true)

	return model{
		problemList: problemList,
		fileList:    fileList,
		mode:        panelProblems,
		root:        root,
		fix:         fix,
		trendReport: trendReport,
		lastUpdate:  time.Now(),
	}
}
