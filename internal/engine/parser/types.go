package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Tree is a parsed source file. The caller owns it and must Close it.
type Tree struct {
	Path     string
	Language string
	Source   []byte
	tree     *sitter.Tree
}

func (t *Tree) Root() *sitter.Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return t.tree.RootNode()
}

func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

// SyntaxError points at the first ERROR or MISSING node of a tree.
type SyntaxError struct {
	Message string
	Line    int // 1-based
	Column  int // 1-based, in bytes
}
