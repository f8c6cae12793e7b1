// Package parser implements the recursive-descent parser for Steps.
//
// There are three entry points, one per file kind: ParseBuilding,
// ParseFloor and ParseStep, plus ParseFragment for isolated statement
// sequences (REPL and validation). Expressions use Pratt parsing with the
// precedence ladder from expressions.go.
//
// The parser accumulates errors instead of stopping: on a bad statement it
// records the error and synchronizes to the next line at the current
// indentation depth, so one mistake does not hide the rest of the file.
package parser

import (
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/lexer"
	"github.com/steps-lang/steps/pkg/token"
)

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	toks []token.Token
	pos  int

	source string // original file text, attached to errors for excerpts
	errs   errors.List
}

// New creates a Parser over the given source. Lex errors are carried into
// the parser's error list.
func New(input, file string) *Parser {
	l := lexer.New(input, file)
	toks := l.Tokenize()
	return &Parser{
		toks:   toks,
		source: input,
		errs:   l.Errors(),
	}
}

// Errors returns all accumulated lex and parse errors.
func (p *Parser) Errors() errors.List { return p.errs }

// cur returns the current token.
func (p *Parser) cur() token.Token { return p.toks[p.pos] }

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

// next advances to the following token. The terminating EOF is sticky.
func (p *Parser) next() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek().Type == t }

// expect consumes a token of the given type or records an error. The
// return reports whether the expected token was present.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf(errors.CodeUnexpectedToken, "expected %s, found %s", t, p.describeCur())
	return false
}

// expectIdent consumes an identifier and returns it. Reserved words are
// rejected with a dedicated message.
func (p *Parser) expectIdent() (token.Token, bool) {
	tok := p.cur()
	if tok.Type == token.IDENT {
		p.next()
		return tok, true
	}
	if token.IsReserved(tok.Literal) && tok.Literal != "" {
		p.errorf(errors.CodeReservedWord, "%q is a reserved word and cannot be used as a name", tok.Literal)
	} else {
		p.errorf(errors.CodeUnexpectedToken, "expected a name, found %s", p.describeCur())
	}
	return tok, false
}

// describeCur renders the current token for an error message.
func (p *Parser) describeCur() string {
	tok := p.cur()
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "end of line"
	case token.INDENT:
		return "an indented block"
	case token.DEDENT:
		return "the end of a block"
	case token.TEXT:
		return "text \"" + tok.Literal + "\""
	}
	if tok.Literal != "" {
		return "\"" + tok.Literal + "\""
	}
	return tok.Type.String()
}

func (p *Parser) errorf(code string, format string, args ...any) {
	e := errors.New(errors.Parse, code, p.cur().Pos, format, args...)
	e.WithSource(p.source)
	p.errs = append(p.errs, e)
}

func (p *Parser) errorAt(pos token.Position, code string, format string, args ...any) {
	e := errors.New(errors.Parse, code, pos, format, args...)
	e.WithSource(p.source)
	p.errs = append(p.errs, e)
}

// synchronize skips to the start of the next statement at the current
// indentation depth: past the next NEWLINE, skipping over any nested
// blocks opened along the way. A DEDENT below the current depth stops the
// skip so enclosing parsers see the block end.
func (p *Parser) synchronize() {
	depth := 0
	for {
		switch p.cur().Type {
		case token.EOF:
			return
		case token.INDENT:
			depth++
		case token.DEDENT:
			if depth == 0 {
				return
			}
			depth--
		case token.NEWLINE:
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}

// skipNewlines consumes consecutive NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.next()
	}
}

// endLine consumes the statement-terminating NEWLINE, tolerating EOF and
// DEDENT (the lexer emits NEWLINE before both, but a recovered parse can
// land anywhere).
func (p *Parser) endLine() {
	if p.curIs(token.NEWLINE) {
		p.next()
		return
	}
	if p.curIs(token.EOF) || p.curIs(token.DEDENT) {
		return
	}
	p.errorf(errors.CodeUnexpectedToken, "unexpected %s before end of line", p.describeCur())
	p.synchronize()
}
