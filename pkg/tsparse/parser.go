// Package tsparse lowers TypeScript source into the checker's syntax tree
// using the tree-sitter TypeScript grammars.
package tsparse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/source"
)

const tsparseDebug = false

func debugPrintf(format string, args ...interface{}) {
	if tsparseDebug {
		fmt.Printf(format, args...)
	}
}

// WarnFileSize is the source size above which a warning is logged.
const WarnFileSize = 1 << 20

// Parser implements modules.Parser. It holds no tree-sitter state; every
// call creates its own parser, so one Parser may be shared by goroutines.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for frontend warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(p)
	}
	return p
}

var _ modules.Parser = (*Parser)(nil)

// Parse lowers file into a module. Syntax errors are returned as Syntax
// diagnostics next to a best-effort tree; err is reserved for failures of
// the parser itself.
func (p *Parser) Parse(ctx context.Context, file *source.SourceFile) (*ast.Module, []*errors.Error, error) {
	content := []byte(file.Content)
	if len(content) > WarnFileSize {
		p.logger.Warn("parsing large file",
			slog.String("file", file.DisplayPath()),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		return nil, nil, fmt.Errorf("parse %s: content is not valid UTF-8", file.DisplayPath())
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if strings.HasSuffix(file.Path, ".tsx") || strings.HasSuffix(file.Path, ".jsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", file.DisplayPath(), err)
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &lowerer{file: file, src: content}
	if root.HasError() {
		l.collectSyntaxErrors(root)
	}
	m := &ast.Module{Base: l.base(root), File: file, Body: l.stmts(root)}
	return m, l.diags, nil
}

// ParseString parses source text held in memory. It is a convenience for
// tests and the REPL.
func ParseString(ctx context.Context, name, content string) (*ast.Module, []*errors.Error, error) {
	return New().Parse(ctx, source.NewSourceFile(name, name, content))
}

// lowerer converts one concrete syntax tree.
type lowerer struct {
	file  *source.SourceFile
	src   []byte
	diags []*errors.Error
}

func (l *lowerer) span(n *sitter.Node) source.Span {
	return l.file.Span(int(n.StartByte()), int(n.EndByte()))
}

func (l *lowerer) base(n *sitter.Node) ast.Base { return ast.Base{Span: l.span(n)} }

func (l *lowerer) text(n *sitter.Node) string { return n.Content(l.src) }

// collectSyntaxErrors reports ERROR and missing nodes. The contents of an
// ERROR node are not searched further.
func (l *lowerer) collectSyntaxErrors(n *sitter.Node) {
	switch {
	case n.IsMissing():
		l.diags = append(l.diags, errors.New(errors.Syntax, l.span(n), "missing '%s'", n.Type()))
		return
	case n.Type() == "ERROR":
		text := l.text(n)
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		if len(text) > 20 {
			text = text[:20]
		}
		l.diags = append(l.diags, errors.New(errors.Syntax, l.span(n), "unexpected '%s'", text))
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		l.collectSyntaxErrors(n.Child(i))
	}
}

// --- CST helpers ---

func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for _, c := range named(n) {
		return c
	}
	return nil
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
