package lint

import (
	"hooklint/internal/engine/ast"
)

// Fixer builds edit descriptors. It never touches the source itself.
type Fixer struct{}

// FixFunc produces the fix for a report, or nil to decline.
type FixFunc func(f *Fixer) *Fix

func (f *Fixer) ReplaceText(n ast.Node, text string) *Fix {
	return f.ReplaceTextRange(n.Range(), text)
}

func (f *Fixer) ReplaceTextRange(r ast.Range, text string) *Fix {
	return &Fix{Range: r, Text: text}
}

func (f *Fixer) InsertTextBefore(n ast.Node, text string) *Fix {
	start := n.Range().Start
	return f.ReplaceTextRange(ast.Range{Start: start, End: start}, text)
}

func (f *Fixer) InsertTextAfter(n ast.Node, text string) *Fix {
	end := n.Range().End
	return f.ReplaceTextRange(ast.Range{Start: end, End: end}, text)
}

func (f *Fixer) Remove(n ast.Node) *Fix {
	return f.ReplaceText(n, "")
}
