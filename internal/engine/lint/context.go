package lint

import (
	"fmt"
	"strings"

	"hooklint/internal/core/errors"
	"hooklint/internal/engine/ast"
)

// SourceCode is the text a rule is looking at.
type SourceCode struct {
	Text []byte
}

func (s *SourceCode) GetText(n ast.Node) string {
	if n == nil {
		return string(s.Text)
	}
	r := n.Range()
	if r.Start < 0 || r.End > len(s.Text) || r.Start > r.End {
		return ""
	}
	return string(s.Text[r.Start:r.End])
}

// Descriptor is what a rule hands to Context.Report.
type Descriptor struct {
	Node      ast.Node
	MessageID string
	Data      map[string]string
	Fix       FixFunc
}

// Context is created per rule per file and lives for one traversal.
type Context struct {
	rule     *Rule
	severity Severity
	filename string
	source   *SourceCode
	fixer    Fixer

	messages []Message
	err      error
}

func newContext(rule *Rule, severity Severity, filename string, source *SourceCode) *Context {
	return &Context{
		rule:     rule,
		severity: severity,
		filename: filename,
		source:   source,
	}
}

func (c *Context) ID() string              { return c.rule.Name }
func (c *Context) Filename() string        { return c.filename }
func (c *Context) SourceCode() *SourceCode { return c.source }
func (c *Context) Options() []any          { return c.rule.DefaultOptions }

// Report records a problem. Misuse (unknown message id, fixes from a rule
// that is not fixable) is kept as a rule error and surfaces from Verify.
func (c *Context) Report(d Descriptor) {
	if c.err != nil {
		return
	}
	if d.Node == nil {
		c.fail("report called without a node")
		return
	}
	template, ok := c.rule.Meta.Messages[d.MessageID]
	if !ok {
		c.fail(fmt.Sprintf("report called with messageId %q which is not present in meta.messages", d.MessageID))
		return
	}

	loc := d.Node.Loc()
	msg := Message{
		RuleID:    c.rule.Name,
		Severity:  c.severity,
		Message:   interpolate(template, d.Data),
		MessageID: d.MessageID,
		Line:      loc.Start.Line,
		Column:    loc.Start.Column + 1,
		EndLine:   loc.End.Line,
		EndColumn: loc.End.Column + 1,
		NodeType:  string(d.Node.Kind()),
	}

	if d.Fix != nil {
		if c.rule.Meta.Fixable == "" {
			c.fail("fixable rules must set meta.fixable")
			return
		}
		msg.Fix = d.Fix(&c.fixer)
	}

	c.messages = append(c.messages, msg)
}

func (c *Context) fail(reason string) {
	c.err = errors.AddContext(errors.New(errors.CodeRuleError, reason), errors.CtxRule, c.rule.Name)
}

// interpolate replaces {{ key }} placeholders with data values. Unknown
// placeholders are left as written.
func interpolate(template string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	var b strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx := strings.Index(rest[open:], "}}")
		if closeIdx < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx += open
		key := strings.TrimSpace(rest[open+2 : closeIdx])
		b.WriteString(rest[:open])
		if val, ok := data[key]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(rest[open : closeIdx+2])
		}
		rest = rest[closeIdx+2:]
	}
	return b.String()
}
