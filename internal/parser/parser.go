// Package parser implements a recursive-descent/Pratt parser that turns
// source text into the internal/ast shapes internal/bytecode.Compiler
// consumes, per spec.md §2/§4.4: "the parser itself is an external
// collaborator." It is grounded on internal/lexer's own scanning style
// (fmt.Errorf over a custom error type, byte-offset save/restore via
// Index/Reset for unbounded lookahead) and scoped deliberately to the
// exact AST shapes the compiler can compile: constructs the compiler
// cannot yet handle are rejected here with a descriptive error rather
// than being silently parsed into an AST the compiler would either
// panic on or, worse, miscompile.
package parser

import (
	"fmt"

	"github.com/trynova/nova-sub003/internal/ast"
	"github.com/trynova/nova-sub003/internal/lexer"
)

// Parser holds one token of lookahead over a Lexer.
type Parser struct {
	lex      *lexer.Lexer
	tok      lexer.Token
	tokStart int // byte offset where tok begins, usable with resetTo
}

// New constructs a Parser positioned at source's first token.
func New(source string) (*Parser, error) {
	p := &Parser{lex: lexer.New(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses source as a script, returning its Program.
func Parse(source string) (*ast.Program, error) {
	p, err := New(source)
	if err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// ParseModule parses source as a module body. Import/export declarations
// are not part of the AST this package's compiler consumes yet (there is
// no Import/ExportDeclaration node), so a module's statement grammar is
// otherwise identical to a script's; only the Module flag differs.
func ParseModule(source string) (*ast.Program, error) {
	p, err := New(source)
	if err != nil {
		return nil, err
	}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	prog.Module = true
	return prog, nil
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	var body []ast.Statement
	for p.tok.Type != lexer.TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return &ast.Program{Body: body}, nil
}

// advance fetches the next token, threading regexpAllowed through from the
// token that is about to become the previous one, per lexer.Lexer.Next's
// own doc comment: only the parser's grammar position knows whether a `/`
// here starts a RegularExpressionLiteral or a division Punctuator.
func (p *Parser) advance() error {
	allowRegexp := p.regexpAllowedAfterCurrent()
	start := p.lex.Index()
	tok, err := p.lex.Next(allowRegexp)
	if err != nil {
		return err
	}
	p.tok = tok
	p.tokStart = start
	return nil
}

func (p *Parser) regexpAllowedAfterCurrent() bool {
	switch p.tok.Type {
	case lexer.TokenIdentifier, lexer.TokenNumber, lexer.TokenBigInt, lexer.TokenString,
		lexer.TokenRegExp, lexer.TokenTemplate, lexer.TokenTemplateTail:
		return false
	case lexer.TokenPunctuator:
		return p.tok.Literal != ")" && p.tok.Literal != "]"
	case lexer.TokenKeyword:
		return p.tok.Literal != "this"
	default:
		return true
	}
}

// resetTo rewinds both the lexer and the current token to a byte offset
// previously observed via p.tokStart, for the handful of places that need
// unbounded lookahead (arrow-function parameter lists, labeled statements).
// The regexpAllowed computed for the refetch is based on the stale,
// about-to-be-replaced token rather than whatever actually preceded
// offset in the token stream; every call site resets to a position
// that cannot be followed by a `/`, so this never matters in practice.
func (p *Parser) resetTo(offset int) error {
	p.lex.Reset(offset)
	return p.advance()
}

func (p *Parser) isPunct(s string) bool {
	return p.tok.Type == lexer.TokenPunctuator && p.tok.Literal == s
}

func (p *Parser) isKeyword(s string) bool {
	return p.tok.Type == lexer.TokenKeyword && p.tok.Literal == s
}

// isContextualIdentifier reports whether tok can be used as a binding or
// reference identifier even though the lexer classifies it as a keyword
// (ECMAScript's contextual keywords).
func isContextualIdentifier(tok lexer.Token) bool {
	if tok.Type == lexer.TokenIdentifier {
		return true
	}
	if tok.Type != lexer.TokenKeyword {
		return false
	}
	switch tok.Literal {
	case "of", "async", "get", "set", "static", "yield", "await", "let":
		return true
	}
	return false
}

// errorf formats a parse error tagged with the current token's line.
func (p *Parser) errorf(format string, args ...any) error {
	args = append(args, p.tok.Line)
	return fmt.Errorf("parser: "+format+" (line %d)", args...)
}
