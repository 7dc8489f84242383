package lint

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	directiveDisableLine     = "hooklint-disable-line"
	directiveDisableNextLine = "hooklint-disable-next-line"
)

// directives holds line-scoped suppressions. A nil rule list suppresses
// every rule on that line.
type directives struct {
	lines map[int][]string
	all   map[int]bool
}

func parseDirectives(comments []*sitter.Node, src []byte) *directives {
	d := &directives{
		lines: make(map[int][]string),
		all:   make(map[int]bool),
	}
	for _, c := range comments {
		body := strings.TrimSpace(commentText(c, src))
		name, rest := splitDirective(body)

		var line int
		switch name {
		case directiveDisableLine:
			line = int(c.StartPosition().Row) + 1
		case directiveDisableNextLine:
			line = int(c.EndPosition().Row) + 2
		default:
			continue
		}

		rules := parseRuleList(rest)
		if len(rules) == 0 {
			d.all[line] = true
			continue
		}
		d.lines[line] = append(d.lines[line], rules...)
	}
	return d
}

func splitDirective(body string) (string, string) {
	idx := strings.IndexAny(body, " \t\n\r")
	if idx < 0 {
		return body, ""
	}
	return body[:idx], body[idx+1:]
}

// parseRuleList reads "rule-a, rule-b -- reason".
func parseRuleList(s string) []string {
	if idx := strings.Index(s, "--"); idx >= 0 {
		s = s[:idx]
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (d *directives) suppresses(m Message) bool {
	if m.Fatal {
		return false
	}
	if d.all[m.Line] {
		return true
	}
	for _, rule := range d.lines[m.Line] {
		if rule == m.RuleID {
			return true
		}
	}
	return false
}

func (d *directives) filter(msgs []Message) []Message {
	if len(d.lines) == 0 && len(d.all) == 0 {
		return msgs
	}
	out := msgs[:0]
	for _, m := range msgs {
		if !d.suppresses(m) {
			out = append(out, m)
		}
	}
	return out
}
