package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"hooklint/internal/core/errors"
	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const maxTokenPreview = 20

type Parser struct {
	loader     *GrammarLoader
	extensions map[string]string
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
	}
	return p
}

// NewDefaultParser builds a parser over the default language registry.
func NewDefaultParser() (*Parser, error) {
	loader, err := NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	return NewParser(loader), nil
}

func (p *Parser) Parse(path string, content []byte) (*Tree, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(
			errors.Newf(errors.CodeNotSupported, "unsupported file extension %q", filepath.Ext(path)),
			errors.CtxPath, path,
		)
	}

	pool := p.loader.Pool(lang)
	if pool == nil {
		return nil, errors.AddContext(
			errors.Newf(errors.CodeInternal, "grammar not loaded: %s", lang),
			errors.CtxLanguage, lang,
		)
	}

	tree, elapsed := pool.Parse(content)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	observability.ParsingDuration.WithLabelValues(lang).Observe(elapsed.Seconds())

	return &Tree{
		Path:     path,
		Language: lang,
		Source:   content,
		tree:     tree,
	}, nil
}

// FirstSyntaxError reports the first ERROR or MISSING node in document order.
func (t *Tree) FirstSyntaxError() (SyntaxError, bool) {
	root := t.Root()
	if root == nil || !root.HasError() {
		return SyntaxError{}, false
	}
	bad := findErrorNode(root)
	if bad == nil {
		bad = root
	}

	pos := bad.StartPosition()
	out := SyntaxError{
		Line:   int(pos.Row) + 1,
		Column: util.UTF16Column(t.Source, int(bad.StartByte()), int(pos.Column)) + 1,
	}
	if bad.IsMissing() {
		out.Message = fmt.Sprintf("Missing %s", bad.Kind())
		return out, true
	}

	token := strings.TrimSpace(bad.Utf8Text(t.Source))
	if idx := strings.IndexByte(token, '\n'); idx >= 0 {
		token = token[:idx]
	}
	token = util.TruncateRunes(token, maxTokenPreview)
	if token == "" {
		out.Message = "Unexpected token"
	} else {
		out.Message = fmt.Sprintf("Unexpected token %s", token)
	}
	return out, true
}

func findErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := findErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.GetLanguage(filePath) != ""
}

func (p *Parser) GetLanguage(path string) string {
	return p.detectLanguage(path)
}

func (p *Parser) SupportedExtensions() []string {
	out := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
