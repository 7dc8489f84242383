package formats

import (
	"encoding/json"

	"hooklint/internal/core/ports"
	"hooklint/internal/engine/lint"
)

type jsonFix struct {
	Range [2]int `json:"range"`
	Text  string `json:"text"`
}

type jsonMessage struct {
	RuleID    *string  `json:"ruleId"`
	Severity  int      `json:"severity"`
	Message   string   `json:"message"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	NodeType  *string  `json:"nodeType"`
	MessageID string   `json:"messageId,omitempty"`
	EndLine   int      `json:"endLine,omitempty"`
	EndColumn int      `json:"endColumn,omitempty"`
	Fatal     bool     `json:"fatal,omitempty"`
	Fix       *jsonFix `json:"fix,omitempty"`
}

type jsonResult struct {
	FilePath            string        `json:"filePath"`
	Messages            []jsonMessage `json:"messages"`
	ErrorCount          int           `json:"errorCount"`
	FatalErrorCount     int           `json:"fatalErrorCount"`
	WarningCount        int           `json:"warningCount"`
	FixableErrorCount   int           `json:"fixableErrorCount"`
	FixableWarningCount int           `json:"fixableWarningCount"`
	Output              *string       `json:"output,omitempty"`
}

// JSON emits one result object per linted file, in the shape ESLint's json
// formatter uses.
func JSON(result ports.RunResult, _ Options) ([]byte, error) {
	out := make([]jsonResult, 0, len(result.Files))
	for _, f := range result.Files {
		r := jsonResult{
			FilePath:            f.Path,
			Messages:            make([]jsonMessage, 0, len(f.Messages)),
			ErrorCount:          f.ErrorCount,
			FatalErrorCount:     f.FatalErrorCount,
			WarningCount:        f.WarningCount,
			FixableErrorCount:   f.FixableErrorCount,
			FixableWarningCount: f.FixableWarningCount,
		}
		if f.Output != nil {
			text := string(f.Output)
			r.Output = &text
		}
		for _, m := range f.Messages {
			r.Messages = append(r.Messages, toJSONMessage(m))
		}
		out = append(out, r)
	}
	return json.Marshal(out)
}

func toJSONMessage(m lint.Message) jsonMessage {
	jm := jsonMessage{
		Severity:  int(m.Severity),
		Message:   m.Message,
		Line:      m.Line,
		Column:    m.Column,
		MessageID: m.MessageID,
		EndLine:   m.EndLine,
		EndColumn: m.EndColumn,
		Fatal:     m.Fatal,
	}
	if m.RuleID != "" {
		rule := m.RuleID
		jm.RuleID = &rule
	}
	if m.NodeType != "" {
		nodeType := m.NodeType
		jm.NodeType = &nodeType
	}
	if m.Fix != nil {
		jm.Fix = &jsonFix{Range: [2]int{m.Fix.Range.Start, m.Fix.Range.End}, Text: m.Fix.Text}
	}
	return jm
}
