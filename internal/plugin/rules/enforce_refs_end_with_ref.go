package rules

import (
	"strings"

	"hooklint/internal/engine/ast"
	"hooklint/internal/engine/lint"
)

const (
	EnforceRefsEndWithRefName = "enforce-refs-end-with-ref"

	addRefSuffix = "addRefSuffix"
	refSuffix    = "Ref"
	refHook      = "useRef"
)

// EnforceRefsEndWithRef flags `const x = useRef()` where the bound name
// does not end with "Ref" and fixes it by appending the suffix.
var EnforceRefsEndWithRef = createRule(lint.Rule{
	Name: EnforceRefsEndWithRefName,
	Meta: lint.Meta{
		Docs: lint.Docs{
			Description: `Ensures React references end with "Ref" in their variable declarations.`,
			Recommended: true,
		},
		Type: lint.TypeSuggestion,
		Messages: map[string]string{
			addRefSuffix: "Prefer reference variable declarations end with 'Ref'.",
		},
		Fixable: lint.FixableCode,
		Schema:  []any{},
	},
	DefaultOptions: []any{},
	Create: func(ctx *lint.Context) lint.Visitors {
		return lint.Visitors{
			ast.KindVariableDeclarator: func(n ast.Node) {
				decl, ok := n.(*ast.VariableDeclarator)
				if !ok || !isRefHookCall(decl.Init) {
					return
				}
				id, ok := decl.ID.(*ast.Identifier)
				if !ok || id.Name == "" || strings.HasSuffix(id.Name, refSuffix) {
					return
				}
				ctx.Report(lint.Descriptor{
					Node:      decl,
					MessageID: addRefSuffix,
					Fix: func(f *lint.Fixer) *lint.Fix {
						target, ok := decl.ID.(*ast.Identifier)
						if !ok {
							return nil
						}
						return f.ReplaceText(target, target.Name+refSuffix)
					},
				})
			},
		}
	},
})

// isRefHookCall matches a plain call whose callee is the bare identifier
// useRef. Optional calls arrive as ChainExpression and never match.
func isRefHookCall(init ast.Node) bool {
	call, ok := init.(*ast.CallExpression)
	if !ok {
		return false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	return ok && callee.Name == refHook
}
