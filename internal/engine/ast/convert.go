package ast

import (
	"hooklint/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// syntaxKinds maps tree-sitter node kinds to the variant Convert produces.
var syntaxKinds = map[string]Kind{
	"variable_declarator":  KindVariableDeclarator,
	"identifier":           KindIdentifier,
	"call_expression":      KindCallExpression,
	"member_expression":    KindMemberExpression,
	"subscript_expression": KindMemberExpression,
	"object_pattern":       KindObjectPattern,
	"array_pattern":        KindArrayPattern,
}

// KindOf reports the variant a tree-sitter kind converts to. Optional calls
// and tagged templates report KindCallExpression here; Convert decides the
// final variant.
func KindOf(syntaxKind string) Kind {
	if k, ok := syntaxKinds[syntaxKind]; ok {
		return k
	}
	return KindOther
}

// Convert builds the typed view of n. Parenthesized expressions are
// unwrapped, so `(useRef)()` and `const a = (useRef())` see the inner node.
// Convert returns nil for a nil node.
func Convert(n *sitter.Node, src []byte) Node {
	n = unwrapParens(n)
	if n == nil {
		return nil
	}

	b := baseOf(n, src)
	switch n.Kind() {
	case "variable_declarator":
		return &VariableDeclarator{
			base: b,
			ID:   Convert(n.ChildByFieldName("name"), src),
			Init: Convert(n.ChildByFieldName("value"), src),
		}
	case "identifier":
		return &Identifier{base: b, Name: n.Utf8Text(src)}
	case "call_expression":
		if isTaggedTemplate(n) {
			return &TaggedTemplateExpression{
				base: b,
				Tag:  Convert(n.ChildByFieldName("function"), src),
			}
		}
		call := &CallExpression{
			base:   b,
			Callee: Convert(n.ChildByFieldName("function"), src),
		}
		if isOptionalCall(n) {
			call.Optional = true
			return &ChainExpression{base: b, Expression: call}
		}
		return call
	case "member_expression":
		return &MemberExpression{
			base:     b,
			Object:   Convert(n.ChildByFieldName("object"), src),
			Property: Convert(n.ChildByFieldName("property"), src),
		}
	case "subscript_expression":
		return &MemberExpression{
			base:     b,
			Object:   Convert(n.ChildByFieldName("object"), src),
			Property: Convert(n.ChildByFieldName("index"), src),
			Computed: true,
		}
	case "object_pattern":
		return &ObjectPattern{base: b}
	case "array_pattern":
		return &ArrayPattern{base: b}
	default:
		return &Other{base: b, SyntaxKind: n.Kind()}
	}
}

func baseOf(n *sitter.Node, src []byte) base {
	start := n.StartPosition()
	end := n.EndPosition()
	startByte, endByte := int(n.StartByte()), int(n.EndByte())
	return base{
		rng: Range{Start: startByte, End: endByte},
		loc: SourceLocation{
			Start: Position{Line: int(start.Row) + 1, Column: util.UTF16Column(src, startByte, int(start.Column))},
			End:   Position{Line: int(end.Row) + 1, Column: util.UTF16Column(src, endByte, int(end.Column))},
		},
	}
}

func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		var inner *sitter.Node
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil || child.Kind() == "comment" {
				continue
			}
			if inner != nil {
				// Sequence or typed parenthesis; keep the wrapper.
				return n
			}
			inner = child
		}
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

func isTaggedTemplate(n *sitter.Node) bool {
	args := n.ChildByFieldName("arguments")
	return args != nil && args.Kind() == "template_string"
}

func isOptionalCall(n *sitter.Node) bool {
	if n.ChildByFieldName("optional_chain") != nil {
		return true
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == "optional_chain" {
			return true
		}
	}
	return false
}
