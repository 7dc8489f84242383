package parser

import (
	"sync"
	"sync/atomic"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool hands out tree-sitter parsers bound to one grammar. The
// loader keeps one pool per enabled language ID, and lint workers share
// them across goroutines.
type ParserPool struct {
	langID string
	lang   *sitter.Language
	pool   sync.Pool
	leased atomic.Int64
}

func NewParserPool(langID string, lang *sitter.Language) *ParserPool {
	p := &ParserPool{langID: langID, lang: lang}
	p.pool.New = func() any {
		sp := sitter.NewParser()
		_ = sp.SetLanguage(lang)
		return sp
	}
	return p
}

func (p *ParserPool) LanguageID() string {
	return p.langID
}

// Parse leases a parser, parses content and returns the parser before
// returning. The tree outlives the lease and must be closed by the caller.
func (p *ParserPool) Parse(content []byte) (*sitter.Tree, time.Duration) {
	sp := p.get()
	defer p.put(sp)

	start := time.Now()
	tree := sp.Parse(content, nil)
	return tree, time.Since(start)
}

func (p *ParserPool) get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	// Reset() drops the language on some builds.
	_ = sp.SetLanguage(p.lang)
	p.leased.Add(1)
	return sp
}

func (p *ParserPool) put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	p.leased.Add(-1)
	sp.Reset()
	p.pool.Put(sp)
}

// Leased reports parsers currently checked out.
func (p *ParserPool) Leased() int {
	return int(p.leased.Load())
}
