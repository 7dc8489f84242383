// Package plugin exposes the shipped rules by name so configuration can
// enable them.
package plugin

import (
	"hooklint/internal/engine/lint"
	"hooklint/internal/plugin/rules"
)

var Rules = map[string]*lint.Rule{
	rules.EnforceRefsEndWithRefName: rules.EnforceRefsEndWithRef,
}

// RecommendedSettings is the severity map used when no config mentions a
// rule.
func RecommendedSettings() map[string]lint.Severity {
	out := make(map[string]lint.Severity, len(Rules))
	for name, rule := range Rules {
		if rule.Meta.Docs.Recommended {
			out[name] = lint.SeverityError
		}
	}
	return out
}
