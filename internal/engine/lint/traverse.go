package lint

import (
	"hooklint/internal/core/errors"
	"hooklint/internal/engine/ast"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type listener struct {
	ctx *Context
	fn  func(ast.Node)
}

// walker visits the syntax tree once and fans each node out to every rule
// that registered a visitor for its kind.
type walker struct {
	src       []byte
	listeners map[ast.Kind][]listener
	comments  []*sitter.Node
}

func newWalker(src []byte) *walker {
	return &walker{
		src:       src,
		listeners: make(map[ast.Kind][]listener),
	}
}

func (w *walker) register(ctx *Context, visitors Visitors) {
	for kind, fn := range visitors {
		if fn == nil {
			continue
		}
		w.listeners[kind] = append(w.listeners[kind], listener{ctx: ctx, fn: fn})
	}
}

func (w *walker) wants(kind ast.Kind) bool {
	return len(w.listeners[kind]) > 0
}

func (w *walker) Walk(node *sitter.Node) {
	if node == nil {
		return
	}

	if node.Kind() == "comment" {
		w.comments = append(w.comments, node)
		return
	}

	if node.IsNamed() {
		w.visit(node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.Walk(node.Child(i))
	}
}

func (w *walker) visit(node *sitter.Node) {
	kind := ast.KindOf(node.Kind())
	if kind == ast.KindCallExpression {
		if !w.wants(ast.KindCallExpression) && !w.wants(ast.KindChainExpression) &&
			!w.wants(ast.KindTaggedTemplate) {
			return
		}
	} else if !w.wants(kind) {
		return
	}

	converted := ast.Convert(node, w.src)
	if chain, ok := converted.(*ast.ChainExpression); ok {
		w.dispatch(chain)
		w.dispatch(chain.Expression)
		return
	}
	w.dispatch(converted)
}

func (w *walker) dispatch(n ast.Node) {
	if n == nil {
		return
	}
	for _, l := range w.listeners[n.Kind()] {
		if l.ctx.err != nil {
			continue
		}
		call(l, n)
	}
}

func call(l listener, n ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			l.ctx.err = errors.AddContext(
				errors.Newf(errors.CodeRuleError, "rule panicked on %s: %v", n.Kind(), r),
				errors.CtxRule, l.ctx.rule.Name,
			)
		}
	}()
	l.fn(n)
}

// commentText returns the body of a line or block comment.
func commentText(node *sitter.Node, src []byte) string {
	text := node.Utf8Text(src)
	switch {
	case len(text) >= 2 && text[:2] == "//":
		return text[2:]
	case len(text) >= 4 && text[:2] == "/*" && text[len(text)-2:] == "*/":
		return text[2 : len(text)-2]
	default:
		return text
	}
}
