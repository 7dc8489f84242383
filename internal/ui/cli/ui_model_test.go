package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hooklint/internal/core/ports"
	"hooklint/internal/data/history"
	"hooklint/internal/engine/ast"
	"hooklint/internal/engine/lint"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleResult() ports.RunResult {
	fix := &lint.Fix{Range: ast.Range{Start: 6, End: 11}, Text: "inputRef"}
	return ports.RunResult{
		Files: []ports.FileResult{
			{Path: "/proj/src/clean.ts"},
			{
				Path: "/proj/src/b.tsx",
				Messages: []lint.Message{
					{RuleID: "enforce-refs-end-with-ref", Severity: lint.SeverityError, Message: "Prefer reference variable declarations end with 'Ref'.", Line: 1, Column: 7, Fix: fix},
					{RuleID: "enforce-refs-end-with-ref", Severity: lint.SeverityError, Message: "Prefer reference variable declarations end with 'Ref'.", Line: 4, Column: 9, Fix: fix},
				},
				ErrorCount:        2,
				FixableErrorCount: 2,
			},
			{
				Path: "/proj/src/a.js",
				Messages: []lint.Message{
					{Severity: lint.SeverityError, Message: "Parsing error: Unexpected token", Line: 2, Column: 3, Fatal: true},
				},
				ErrorCount:      1,
				FatalErrorCount: 1,
			},
		},
		ErrorCount: 3,
	}
}

func TestModel_UpdateBuildsListsAndPanels(t *testing.T) {
	m := initialModel("/proj", false, nil)

	updated, _ := m.Update(updateMsg{result: sampleResult(), changed: []string{"/proj/src/a.js"}, at: time.Now()})
	state, ok := updated.(model)
	if !ok {
		t.Fatalf("expected model type, got %T", updated)
	}
	if len(state.problemList.Items()) != 3 {
		t.Fatalf("expected 3 problem items, got %d", len(state.problemList.Items()))
	}
	if len(state.fileList.Items()) != 2 {
		t.Fatalf("expected only files with problems, got %d", len(state.fileList.Items()))
	}
	if state.files[0].Path != "/proj/src/a.js" {
		t.Fatalf("expected files sorted by path, got %s", state.files[0].Path)
	}
	first := state.problemList.Items()[0].(item)
	if !strings.Contains(first.title, "parse-error") || !strings.HasPrefix(first.desc, "src/a.js:2:3") {
		t.Fatalf("unexpected first problem item: %+v", first)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelFiles {
		t.Fatalf("expected file panel after tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelProblems {
		t.Fatalf("expected problems panel after second tab, got %v", state.mode)
	}
}

func TestModel_FileDrillDownAndTrendToggle(t *testing.T) {
	report := &history.TrendReport{
		Window:   "24h0m0s",
		RunCount: 2,
		Points: []history.TrendPoint{
			{ErrorCount: 1},
			{ErrorCount: 3, DeltaErrors: 2, AvgErrors: 2},
		},
		TopRules: []history.RuleTotal{{RuleID: "enforce-refs-end-with-ref", Count: 4}},
	}
	m := initialModel("/proj", true, report)
	updated, _ := m.Update(updateMsg{result: sampleResult(), at: time.Now()})
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	if !state.hasFileDetails {
		t.Fatal("expected file details to open")
	}

	// a.js has a single message; the cursor stays put.
	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	state = updated.(model)
	if state.selectedMsg != 0 {
		t.Fatalf("expected cursor clamped at 0, got %d", state.selectedMsg)
	}
	target, ok := selectedMessageTarget(state)
	if !ok || target.file != "/proj/src/a.js" || target.line != 2 || target.column != 3 {
		t.Fatalf("unexpected source target: %+v", target)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	state = updated.(model)
	if !state.showTrend {
		t.Fatal("expected trend overlay toggled on")
	}
	view := state.View()
	if !strings.Contains(view, "Runs: 2") || !strings.Contains(view, "(fixing)") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.hasFileDetails {
		t.Fatal("expected file details to close on esc")
	}
}

func TestModel_RunErrorKeepsLastResult(t *testing.T) {
	m := initialModel("", false, nil)
	updated, _ := m.Update(updateMsg{result: sampleResult(), at: time.Now()})
	updated, _ = updated.(model).Update(updateMsg{err: errors.New("boom"), at: time.Now()})
	state := updated.(model)

	if state.runErr != "boom" {
		t.Fatalf("expected run error recorded, got %q", state.runErr)
	}
	if state.result.ErrorCount != 3 {
		t.Fatalf("expected previous result kept, got %d errors", state.result.ErrorCount)
	}
	if !strings.Contains(state.View(), "Run failed: boom") {
		t.Fatal("expected failure in view")
	}
}

func TestSelectedProblemTarget(t *testing.T) {
	m := initialModel("/proj", false, nil)
	if _, ok := selectedProblemTarget(m); ok {
		t.Fatal("expected no target without problems")
	}
	updated, _ := m.Update(updateMsg{result: sampleResult(), at: time.Now()})
	target, ok := selectedProblemTarget(updated.(model))
	if !ok || target.file != "/proj/src/a.js" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestEditorArgs(t *testing.T) {
	target := sourceTarget{file: "src/a.ts", line: 4, column: 9}
	tests := []struct {
		editor string
		want   []string
	}{
		{editor: "vim", want: []string{"+4", "src/a.ts"}},
		{editor: "/usr/bin/nvim", want: []string{"+4", "src/a.ts"}},
		{editor: "code", want: []string{"--goto", "src/a.ts:4:9"}},
		{editor: "nano", want: []string{"src/a.ts"}},
	}
	for _, tt := range tests {
		got := editorArgs(tt.editor, target)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Fatalf("editorArgs(%q) = %v, want %v", tt.editor, got, tt.want)
		}
	}
}
