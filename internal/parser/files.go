package parser

import (
	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/pkg/token"
)

// ParseBuilding parses a .building file. The body may contain declare:
// and do: blocks as well as bare statements; all statements execute in
// source order.
func (p *Parser) ParseBuilding() *ast.Building {
	p.skipNewlines()
	b := &ast.Building{Token: p.cur()}

	if !p.expect(token.BUILDING) {
		p.synchronize()
		return b
	}
	p.expect(token.COLON)
	if name, ok := p.expectIdent(); ok {
		b.Name = name.Literal
	}
	p.endLine()
	p.skipNewlines()

	if !p.curIs(token.INDENT) {
		p.errorf(errors.CodeMissingClause, "a building needs an indented body")
		return b
	}
	p.next()

	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		switch p.cur().Type {
		case token.NEWLINE:
			p.next()
		case token.DECLARE:
			b.Declares = append(b.Declares, p.parseDeclareBlock()...)
		case token.DO:
			b.Statements = append(b.Statements, p.parseDoBlock()...)
		default:
			if stmt := p.parseStatement(); stmt != nil {
				b.Statements = append(b.Statements, stmt)
			}
		}
	}
	if p.curIs(token.DEDENT) {
		p.next()
	}
	return b
}

// ParseFloor parses a .floor file: the floor name and the list of step
// declarations.
func (p *Parser) ParseFloor() *ast.Floor {
	p.skipNewlines()
	f := &ast.Floor{Token: p.cur()}

	if !p.expect(token.FLOOR) {
		p.synchronize()
		return f
	}
	p.expect(token.COLON)
	if name, ok := p.expectIdent(); ok {
		f.Name = name.Literal
	}
	p.endLine()
	p.skipNewlines()

	if !p.curIs(token.INDENT) {
		p.errorf(errors.CodeMissingClause, "a floor needs an indented list of steps")
		return f
	}
	p.next()

	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.next()
			continue
		}
		decl := &ast.StepDecl{Token: p.cur()}
		if !p.expect(token.STEP) {
			p.synchronize()
			continue
		}
		p.expect(token.COLON)
		if name, ok := p.expectIdent(); ok {
			decl.Name = name.Literal
			f.Steps = append(f.Steps, decl)
		}
		p.endLine()
	}
	if p.curIs(token.DEDENT) {
		p.next()
	}

	if len(f.Steps) == 0 {
		p.errorAt(f.Pos(), errors.CodeMissingClause, "floor %q declares no steps", f.Name)
	}
	return f
}

// ParseStep parses a .step file: header clauses (belongs to, expects,
// returns), risers, declarations and the do: body.
func (p *Parser) ParseStep() *ast.Step {
	p.skipNewlines()
	s := &ast.Step{Token: p.cur()}

	if !p.expect(token.STEP) {
		p.synchronize()
		return s
	}
	p.expect(token.COLON)
	if name, ok := p.expectIdent(); ok {
		s.Name = name.Literal
	}
	p.endLine()
	p.skipNewlines()

	if !p.curIs(token.INDENT) {
		p.errorf(errors.CodeMissingClause, "a step needs an indented body")
		return s
	}
	p.next()
	p.skipNewlines()

	// belongs to: is mandatory and comes first.
	if p.curIs(token.BELONGSTO) {
		p.next()
		p.expect(token.COLON)
		s.FloorPos = p.cur().Pos
		if name, ok := p.expectIdent(); ok {
			s.FloorName = name.Literal
		}
		p.endLine()
	} else {
		p.errorf(errors.CodeMissingClause, "step %q is missing its belongs to: line", s.Name)
	}
	p.skipNewlines()

	if p.curIs(token.EXPECTS) {
		p.next()
		p.expect(token.COLON)
		s.Params = p.parseParamList()
		p.endLine()
		p.skipNewlines()
	}

	if p.curIs(token.RETURNS) {
		p.next()
		p.expect(token.COLON)
		if name, ok := p.expectIdent(); ok {
			s.Returns = name.Literal
		}
		p.endLine()
		p.skipNewlines()
	}

	for p.curIs(token.RISER) {
		if r := p.parseRiser(); r != nil {
			s.Risers = append(s.Risers, r)
		}
		p.skipNewlines()
	}

	if p.curIs(token.DECLARE) {
		s.Declares = p.parseDeclareBlock()
		p.skipNewlines()
	}

	if p.curIs(token.DO) {
		s.Body = p.parseDoBlock()
	} else {
		p.errorf(errors.CodeMissingClause, "step %q is missing its do: block", s.Name)
	}
	p.skipNewlines()

	if p.curIs(token.DEDENT) {
		p.next()
	}
	return s
}

// ParseFragment parses a bare statement sequence with no file-kind header.
// Used by the REPL and by isolated-source validation.
func (p *Parser) ParseFragment() []ast.Statement {
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		switch p.cur().Type {
		case token.NEWLINE, token.INDENT, token.DEDENT:
			p.next()
		default:
			if stmt := p.parseStatement(); stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
	}
	return stmts
}

// parseRiser parses a nested riser: block inside a step file.
func (p *Parser) parseRiser() *ast.Riser {
	r := &ast.Riser{Token: p.cur()}
	p.next() // riser
	p.expect(token.COLON)
	if name, ok := p.expectIdent(); ok {
		r.Name = name.Literal
	}
	p.endLine()
	p.skipNewlines()

	if !p.curIs(token.INDENT) {
		p.errorf(errors.CodeMissingClause, "riser %q needs an indented body", r.Name)
		return r
	}
	p.next()
	p.skipNewlines()

	if p.curIs(token.EXPECTS) {
		p.next()
		p.expect(token.COLON)
		r.Params = p.parseParamList()
		p.endLine()
		p.skipNewlines()
	}
	if p.curIs(token.RETURNS) {
		p.next()
		p.expect(token.COLON)
		if name, ok := p.expectIdent(); ok {
			r.Returns = name.Literal
		}
		p.endLine()
		p.skipNewlines()
	}
	if p.curIs(token.DECLARE) {
		r.Declares = p.parseDeclareBlock()
		p.skipNewlines()
	}
	if p.curIs(token.DO) {
		r.Body = p.parseDoBlock()
	} else {
		p.errorf(errors.CodeMissingClause, "riser %q is missing its do: block", r.Name)
	}
	p.skipNewlines()

	if p.curIs(token.DEDENT) {
		p.next()
	}
	return r
}

// parseParamList parses a comma-separated list of parameter names.
func (p *Parser) parseParamList() []string {
	var params []string
	for {
		name, ok := p.expectIdent()
		if !ok {
			p.synchronize()
			return params
		}
		params = append(params, name.Literal)
		if !p.curIs(token.COMMA) {
			return params
		}
		p.next()
	}
}

// parseDeclareBlock parses "declare:" and its indented declaration lines.
func (p *Parser) parseDeclareBlock() []*ast.DeclLine {
	p.next() // declare
	p.expect(token.COLON)
	p.endLine()
	p.skipNewlines()

	if !p.curIs(token.INDENT) {
		p.errorf(errors.CodeMissingClause, "declare: needs an indented block of declarations")
		return nil
	}
	p.next()

	var decls []*ast.DeclLine
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.next()
			continue
		}
		if d := p.parseDeclLine(); d != nil {
			decls = append(decls, d)
		}
	}
	if p.curIs(token.DEDENT) {
		p.next()
	}
	return decls
}

// parseDeclLine parses one declaration: "name as type [fixed]".
func (p *Parser) parseDeclLine() *ast.DeclLine {
	nameTok, ok := p.expectIdent()
	if !ok {
		p.synchronize()
		return nil
	}
	d := &ast.DeclLine{Token: nameTok, Name: nameTok.Literal}

	if !p.expect(token.AS) {
		p.synchronize()
		return nil
	}
	typeName, ok := p.parseTypeKeyword()
	if !ok {
		p.synchronize()
		return nil
	}
	d.DeclType = typeName

	if p.curIs(token.FIXED) {
		d.Fixed = true
		p.next()
	}
	p.endLine()
	return d
}

// parseTypeKeyword consumes one of the type keywords.
func (p *Parser) parseTypeKeyword() (string, bool) {
	switch p.cur().Type {
	case token.NUMBERTYPE, token.TEXTTYPE, token.BOOLEANTYPE, token.LISTTYPE, token.TABLETYPE, token.NOTHING:
		name := p.cur().Literal
		p.next()
		return name, true
	}
	p.errorf(errors.CodeUnexpectedToken,
		"expected a type (number, text, boolean, list, table), found %s", p.describeCur())
	return "", false
}

// parseDoBlock parses "do:" and its indented statement list.
func (p *Parser) parseDoBlock() []ast.Statement {
	p.next() // do
	p.expect(token.COLON)
	p.endLine()
	return p.parseIndentedBlock()
}

// parseIndentedBlock parses INDENT statement+ DEDENT. A missing INDENT
// yields an empty block, which callers treat as "body executes nothing".
func (p *Parser) parseIndentedBlock() []ast.Statement {
	p.skipNewlines()
	if !p.curIs(token.INDENT) {
		return nil
	}
	p.next()

	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.next()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.curIs(token.DEDENT) {
		p.next()
	}
	return stmts
}
