package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelProblems {
			m.mode = panelFiles
		} else {
			m.mode = panelProblems
		}
		return m, nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	}

	if m.mode != panelFiles {
		if msg.String() == "o" {
			target, ok := selectedProblemTarget(m)
			if !ok {
				m.jumpStatus = statusStyle.Render("No source target available.")
				return m, nil
			}
			return m, jumpToSourceCmd(target)
		}
		var cmd tea.Cmd
		m.problemList, cmd = m.problemList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if _, ok := m.selectedFile(); ok {
			m.hasFileDetails = true
			m.selectedMsg = 0
		}
		return m, nil
	case "esc", "backspace":
		m.hasFileDetails = false
		m.selectedMsg = 0
		return m, nil
	case "j":
		if f, ok := m.selectedFile(); ok && m.hasFileDetails {
			if m.selectedMsg < len(f.Messages)-1 {
				m.selectedMsg++
			}
			return m, nil
		}
	case "k":
		if m.hasFileDetails {
			if m.selectedMsg > 0 {
				m.selectedMsg--
			}
			return m, nil
		}
	case "o":
		if !m.hasFileDetails {
			return m, nil
		}
		target, ok := selectedMessageTarget(m)
		if !ok {
			m.jumpStatus = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	var cmd tea.Cmd
	m.fileList, cmd = m.fileList.Update(msg)
	return m, cmd
}

type sourceTarget struct {
	file   string
	line   int
	column int
}

func selectedProblemTarget(m model) (sourceTarget, bool) {
	if len(m.problems) == 0 {
		return sourceTarget{}, false
	}
	idx := m.problemList.Index()
	if idx < 0 || idx >= len(m.problems) {
		idx = 0
	}
	p := m.problems[idx]
	return sourceTarget{file: p.path, line: p.msg.Line, column: p.msg.Column}, true
}

func selectedMessageTarget(m model) (sourceTarget, bool) {
	f, ok := m.selectedFile()
	if !ok || len(f.Messages) == 0 {
		return sourceTarget{}, false
	}
	idx := m.selectedMsg
	if idx < 0 {
		idx = 0
	}
	if idx >= len(f.Messages) {
		idx = len(f.Messages) - 1
	}
	msg := f.Messages[idx]
	return sourceTarget{file: f.Path, line: msg.Line, column: msg.Column}, true
}

func editorArgs(editor string, target sourceTarget) []string {
	line := target.line
	if line < 1 {
		line = 1
	}
	base := editor
	if idx := strings.LastIndex(editor, "/"); idx >= 0 {
		base = editor[idx+1:]
	}
	switch base {
	case "vi", "vim", "nvim":
		return []string{fmt.Sprintf("+%d", line), target.file}
	case "code", "code-insiders":
		return []string{"--goto", fmt.Sprintf("%s:%d:%d", target.file, line, target.column)}
	}
	return []string{target.file}
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, editorArgs(editor, target)...)
	label := fmt.Sprintf("%s:%d:%d", target.file, target.line, target.column)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}
