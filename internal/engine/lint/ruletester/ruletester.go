// Package ruletester runs table-driven valid/invalid cases against a single
// rule using the real parser.
package ruletester

import (
	"context"
	"fmt"
	"testing"

	"hooklint/internal/engine/lint"
	"hooklint/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DefaultFilename selects the TypeScript grammar, which also accepts
// plain JavaScript.
const DefaultFilename = "file.ts"

type ValidCase struct {
	Name     string
	Code     string
	Filename string
}

// ExpectedError describes one expected message. Zero Line or Column is
// not checked.
type ExpectedError struct {
	MessageID string
	Line      int
	Column    int
}

// InvalidCase expects exactly len(Errors) messages. An empty Output means
// the case must not be changed by fixes.
type InvalidCase struct {
	Name     string
	Code     string
	Filename string
	Output   string
	Errors   []ExpectedError
}

type Cases struct {
	Valid   []ValidCase
	Invalid []InvalidCase
}

type RuleTester struct {
	parser lint.SourceParser
}

func New(t testing.TB) *RuleTester {
	t.Helper()
	p, err := parser.NewDefaultParser()
	require.NoError(t, err)
	return &RuleTester{parser: p}
}

func (rt *RuleTester) Run(t *testing.T, name string, rule *lint.Rule, cases Cases) {
	t.Helper()
	linter, err := lint.NewLinter(rt.parser,
		map[string]*lint.Rule{name: rule},
		map[string]lint.Severity{name: lint.SeverityError},
	)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		for i, tc := range cases.Valid {
			t.Run(caseName(tc.Name, tc.Code, i), func(t *testing.T) {
				msgs := verify(t, linter, filename(tc.Filename), tc.Code)
				assert.Empty(t, msgs, "expected no messages for %q", tc.Code)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for i, tc := range cases.Invalid {
			t.Run(caseName(tc.Name, tc.Code, i), func(t *testing.T) {
				rt.runInvalid(t, linter, name, tc)
			})
		}
	})
}

func (rt *RuleTester) runInvalid(t *testing.T, linter *lint.Linter, name string, tc InvalidCase) {
	require.NotEmpty(t, tc.Errors, "invalid case must expect at least one error")
	path := filename(tc.Filename)

	msgs := verify(t, linter, path, tc.Code)
	require.Len(t, msgs, len(tc.Errors), "message count for %q", tc.Code)
	for i, want := range tc.Errors {
		got := msgs[i]
		assert.Equal(t, name, got.RuleID)
		if want.MessageID != "" {
			assert.Equal(t, want.MessageID, got.MessageID, "message %d id", i)
		}
		if want.Line != 0 {
			assert.Equal(t, want.Line, got.Line, "message %d line", i)
		}
		if want.Column != 0 {
			assert.Equal(t, want.Column, got.Column, "message %d column", i)
		}
	}

	fixed := lint.ApplyFixes([]byte(tc.Code), msgs)
	want := tc.Output
	if want == "" {
		want = tc.Code
	}
	assert.Equal(t, want, string(fixed.Output), "fix output")

	if tc.Output != "" && tc.Output != tc.Code {
		again := verify(t, linter, path, tc.Output)
		stable := lint.ApplyFixes([]byte(tc.Output), again)
		assert.False(t, stable.Fixed, "fixed output must not be fixed again")
	}
}

func verify(t *testing.T, linter *lint.Linter, path, code string) []lint.Message {
	t.Helper()
	msgs, err := linter.Verify(context.Background(), path, []byte(code))
	require.NoError(t, err)
	for _, m := range msgs {
		require.False(t, m.Fatal, "%s in %q", m.Message, code)
	}
	return msgs
}

func filename(name string) string {
	if name == "" {
		return DefaultFilename
	}
	return name
}

func caseName(name, code string, i int) string {
	if name != "" {
		return name
	}
	if len(code) > 40 {
		code = code[:40]
	}
	if code == "" {
		return fmt.Sprintf("case_%d", i)
	}
	return code
}
