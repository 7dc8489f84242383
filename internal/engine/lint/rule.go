// Package lint is the rule host: it owns rule descriptors, walks parsed
// trees, dispatches nodes to rule visitors and applies reported fixes.
package lint

import (
	"hooklint/internal/engine/ast"
)

type RuleType string

const (
	TypeProblem    RuleType = "problem"
	TypeSuggestion RuleType = "suggestion"
	TypeLayout     RuleType = "layout"
)

// FixKind marks a rule as able to produce fixes. Empty means not fixable.
type FixKind string

const (
	FixableCode       FixKind = "code"
	FixableWhitespace FixKind = "whitespace"
)

type Docs struct {
	Description string
	Recommended bool
	URL         string
}

type Meta struct {
	Docs     Docs
	Type     RuleType
	Messages map[string]string
	Fixable  FixKind
	// Schema lists accepted options. Every shipped rule takes none.
	Schema []any
}

// Visitors maps a node kind to the handler invoked for every node of that
// kind, in document order.
type Visitors map[ast.Kind]func(ast.Node)

type Rule struct {
	Name           string
	Meta           Meta
	DefaultOptions []any
	Create         func(ctx *Context) Visitors
}

// NewRuleCreator returns a constructor that fills Docs.URL from the rule
// name, so every rule in a plugin links to its documentation the same way.
func NewRuleCreator(urlFor func(name string) string) func(Rule) *Rule {
	return func(r Rule) *Rule {
		if urlFor != nil {
			r.Meta.Docs.URL = urlFor(r.Name)
		}
		return &r
	}
}
