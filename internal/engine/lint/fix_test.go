package lint

import (
	"testing"

	"hooklint/internal/engine/ast"

	"github.com/stretchr/testify/assert"
)

func msgWithFix(rule string, line, start, end int, text string) Message {
	return Message{
		RuleID: rule,
		Line:   line,
		Column: start + 1,
		Fix:    &Fix{Range: ast.Range{Start: start, End: end}, Text: text},
	}
}

func TestApplyFixes(t *testing.T) {
	src := []byte("const a = b;")

	tests := []struct {
		name      string
		msgs      []Message
		want      string
		fixed     bool
		remaining int
	}{
		{
			name: "no fixes",
			msgs: []Message{{RuleID: "r", Line: 1, Column: 1}},
			want: "const a = b;", remaining: 1,
		},
		{
			name:  "single replacement",
			msgs:  []Message{msgWithFix("r", 1, 6, 7, "aRef")},
			want:  "const aRef = b;",
			fixed: true,
		},
		{
			name: "applied in start order",
			msgs: []Message{
				msgWithFix("r", 1, 10, 11, "c"),
				msgWithFix("r", 1, 0, 5, "let"),
			},
			want:  "let a = c;",
			fixed: true,
		},
		{
			name: "overlap deferred",
			msgs: []Message{
				msgWithFix("r", 1, 6, 11, "x = y"),
				msgWithFix("q", 1, 8, 9, "=="),
			},
			want: "const x = y;", fixed: true, remaining: 1,
		},
		{
			name: "touching deferred",
			msgs: []Message{
				msgWithFix("r", 1, 0, 5, "let"),
				msgWithFix("q", 1, 5, 6, ""),
			},
			want: "let a = b;", fixed: true, remaining: 1,
		},
		{
			name: "insert at start",
			msgs: []Message{msgWithFix("r", 1, 0, 0, "'use strict'; ")},
			want: "'use strict'; const a = b;", fixed: true,
		},
		{
			name:      "invalid range kept",
			msgs:      []Message{msgWithFix("r", 1, 7, 3, "x"), msgWithFix("r", 1, 0, 99, "x")},
			want:      "const a = b;",
			remaining: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyFixes(src, tt.msgs)
			assert.Equal(t, tt.want, string(out.Output))
			assert.Equal(t, tt.fixed, out.Fixed)
			assert.Len(t, out.Remaining, tt.remaining)
		})
	}
	assert.Equal(t, "const a = b;", string(src), "input must not be modified")
}

func TestApplyFixes_CountsByRule(t *testing.T) {
	out := ApplyFixes([]byte("a b c"), []Message{
		msgWithFix("r", 1, 0, 1, "x"),
		msgWithFix("r", 1, 2, 3, "y"),
		msgWithFix("q", 1, 4, 5, "z"),
	})
	assert.Equal(t, "x y z", string(out.Output))
	assert.Equal(t, map[string]int{"r": 2, "q": 1}, out.AppliedByRule)
}
