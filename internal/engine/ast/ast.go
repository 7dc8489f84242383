// Package ast exposes a small typed view over tree-sitter JavaScript and
// TypeScript trees. Only the shapes rules actually inspect get their own
// variant; everything else is Other.
package ast

// Kind is the node-kind tag rules register visitors for. Values follow the
// ESTree names.
type Kind string

const (
	KindVariableDeclarator Kind = "VariableDeclarator"
	KindIdentifier         Kind = "Identifier"
	KindCallExpression     Kind = "CallExpression"
	KindChainExpression    Kind = "ChainExpression"
	KindTaggedTemplate     Kind = "TaggedTemplateExpression"
	KindMemberExpression   Kind = "MemberExpression"
	KindObjectPattern      Kind = "ObjectPattern"
	KindArrayPattern       Kind = "ArrayPattern"
	KindOther              Kind = "Other"
)

// Range is a half-open byte span [Start, End) into the source.
type Range struct {
	Start int
	End   int
}

// Position is a 1-based line and 0-based column counted in UTF-16 code
// units, as in ESTree.
type Position struct {
	Line   int
	Column int
}

type SourceLocation struct {
	Start Position
	End   Position
}

// Node is implemented by every variant in this package only.
type Node interface {
	Kind() Kind
	Range() Range
	Loc() SourceLocation
	node()
}

type base struct {
	rng Range
	loc SourceLocation
}

func (b base) Range() Range        { return b.rng }
func (b base) Loc() SourceLocation { return b.loc }
func (base) node()                 {}

// VariableDeclarator is one binding of a var/let/const declaration.
// Init is nil when the declarator has no initializer.
type VariableDeclarator struct {
	base
	ID   Node
	Init Node
}

func (*VariableDeclarator) Kind() Kind { return KindVariableDeclarator }

type Identifier struct {
	base
	Name string
}

func (*Identifier) Kind() Kind { return KindIdentifier }

// CallExpression is a non-optional call. `f?.()` converts to a
// ChainExpression wrapping a CallExpression with Optional set.
type CallExpression struct {
	base
	Callee   Node
	Optional bool
}

func (*CallExpression) Kind() Kind { return KindCallExpression }

type ChainExpression struct {
	base
	Expression Node
}

func (*ChainExpression) Kind() Kind { return KindChainExpression }

// TaggedTemplateExpression is a tag applied to a template literal, as in
// useRef`x`. It is not a call.
type TaggedTemplateExpression struct {
	base
	Tag Node
}

func (*TaggedTemplateExpression) Kind() Kind { return KindTaggedTemplate }

type MemberExpression struct {
	base
	Object   Node
	Property Node
	Computed bool
}

func (*MemberExpression) Kind() Kind { return KindMemberExpression }

type ObjectPattern struct {
	base
}

func (*ObjectPattern) Kind() Kind { return KindObjectPattern }

type ArrayPattern struct {
	base
}

func (*ArrayPattern) Kind() Kind { return KindArrayPattern }

// Other is any syntax without a dedicated variant. SyntaxKind is the
// tree-sitter node kind.
type Other struct {
	base
	SyntaxKind string
}

func (*Other) Kind() Kind { return KindOther }
