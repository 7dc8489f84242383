package lint

import (
	"sort"

	"hooklint/internal/engine/ast"
)

// Fix replaces Range of the original text with Text.
type Fix struct {
	Range ast.Range
	Text  string
}

// Message is one reported problem. Lines are 1-based; columns are 1-based
// byte offsets. Fatal messages come from the parser and carry no RuleID.
type Message struct {
	RuleID    string
	Severity  Severity
	Message   string
	MessageID string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	NodeType  string
	Fatal     bool
	Fix       *Fix
}

func sortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Line != msgs[j].Line {
			return msgs[i].Line < msgs[j].Line
		}
		return msgs[i].Column < msgs[j].Column
	})
}
