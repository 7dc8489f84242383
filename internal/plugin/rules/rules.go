// Package rules holds the rule implementations shipped by the plugin.
package rules

import (
	"fmt"

	"hooklint/internal/engine/lint"
)

const docsURLFormat = "https://github.com/hooklint/hooklint/blob/main/docs/rules/%s.md"

var createRule = lint.NewRuleCreator(func(name string) string {
	return fmt.Sprintf(docsURLFormat, name)
})
