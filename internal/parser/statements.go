package parser

import (
	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/pkg/token"
)

// parseStatement dispatches on the current token. It returns nil after a
// parse error; the parser has already synchronized to the next line.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.DISPLAY:
		return p.parseDisplayStatement()
	case token.INDICATE:
		return p.parseIndicateStatement()
	case token.SET:
		return p.parseSetStatement()
	case token.CALL:
		return p.parseCallStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.EXIT:
		return p.parseExitStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.ATTEMPT:
		return p.parseAttemptStatement()
	case token.ADD:
		return p.parseAddStatement()
	case token.REMOVE:
		return p.parseRemoveStatement()
	case token.CLEARCONSOLE:
		return p.parseClearConsoleStatement()
	default:
		p.errorf(errors.CodeUnexpectedToken, "unexpected %s at the start of a statement", p.describeCur())
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseDisplayStatement() ast.Statement {
	stmt := &ast.DisplayStatement{Token: p.cur()}
	p.next()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.endLine()
	return stmt
}

func (p *Parser) parseIndicateStatement() ast.Statement {
	stmt := &ast.IndicateStatement{Token: p.cur()}
	p.next()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.endLine()
	return stmt
}

// parseSetStatement handles "set X to E", "set X[I] to E" and the special
// form "set iteration limit to E".
func (p *Parser) parseSetStatement() ast.Statement {
	setTok := p.cur()
	p.next()

	if p.curIs(token.ITERLIMIT) {
		p.next()
		stmt := &ast.SetIterationLimitStatement{Token: setTok}
		if !p.expect(token.TO) {
			p.synchronize()
			return nil
		}
		stmt.Limit = p.parseExpression(LOWEST)
		if stmt.Limit == nil {
			return nil
		}
		p.endLine()
		return stmt
	}

	stmt := &ast.SetStatement{Token: setTok}
	stmt.NamePos = p.cur().Pos
	if p.cur().Literal == "problem_message" {
		p.errorf(errors.CodeBadAssignTarget, "problem_message cannot be assigned to")
		p.synchronize()
		return nil
	}
	name, ok := p.expectIdent()
	if !ok {
		p.synchronize()
		return nil
	}
	stmt.Name = name.Literal

	if p.curIs(token.LBRACKET) {
		p.next()
		stmt.Index = p.parseExpression(LOWEST)
		if stmt.Index == nil {
			return nil
		}
		if !p.expect(token.RBRACKET) {
			p.synchronize()
			return nil
		}
	}

	if !p.expect(token.TO) {
		p.synchronize()
		return nil
	}
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.endLine()
	return stmt
}

func (p *Parser) parseCallStatement() ast.Statement {
	stmt := &ast.CallStatement{Token: p.cur()}
	p.next()

	stmt.NamePos = p.cur().Pos
	name, ok := p.expectIdent()
	if !ok {
		p.synchronize()
		return nil
	}
	stmt.Name = name.Literal

	if p.curIs(token.WITH) {
		p.next()
		for {
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			stmt.Args = append(stmt.Args, arg)
			if !p.curIs(token.COMMA) {
				break
			}
			p.next()
		}
	}

	if p.curIs(token.STORINGRESULT) {
		p.next()
		stmt.ResultPos = p.cur().Pos
		if p.cur().Literal == "problem_message" {
			p.errorf(errors.CodeBadAssignTarget, "problem_message cannot be assigned to")
			p.synchronize()
			return nil
		}
		result, ok := p.expectIdent()
		if !ok {
			p.synchronize()
			return nil
		}
		stmt.Result = result.Literal
	}
	p.endLine()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.cur()}
	p.next()
	if !p.curIs(token.NEWLINE) && !p.curIs(token.EOF) && !p.curIs(token.DEDENT) {
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	p.endLine()
	return stmt
}

func (p *Parser) parseExitStatement() ast.Statement {
	stmt := &ast.ExitStatement{Token: p.cur()}
	p.next()
	p.endLine()
	return stmt
}

// parseIfStatement parses an if chain: the first branch, any number of
// otherwise if branches, and an optional otherwise branch. The branch
// keywords sit at the same indentation as the opening if.
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.cur()}
	p.next()

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expect(token.COLON) {
		p.synchronize()
		return nil
	}
	p.endLine()
	stmt.Branches = append(stmt.Branches, ast.IfBranch{
		Condition: cond,
		Body:      p.parseIndentedBlock(),
	})

	for p.curIs(token.OTHERWISEIF) {
		p.next()
		cond := p.parseExpression(LOWEST)
		if cond == nil {
			return nil
		}
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Branches = append(stmt.Branches, ast.IfBranch{
			Condition: cond,
			Body:      p.parseIndentedBlock(),
		})
	}

	if p.curIs(token.OTHERWISE) {
		p.next()
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Otherwise = p.parseIndentedBlock()
		if stmt.Otherwise == nil {
			stmt.Otherwise = []ast.Statement{}
		}
	}
	return stmt
}

// parseRepeatStatement dispatches between the three loop forms:
//
//	repeat N times:
//	repeat for each X in C:
//	repeat while E:
func (p *Parser) parseRepeatStatement() ast.Statement {
	repTok := p.cur()
	p.next()

	switch p.cur().Type {
	case token.FOREACH:
		p.next()
		stmt := &ast.RepeatForEachStatement{Token: repTok}
		name, ok := p.expectIdent()
		if !ok {
			p.synchronize()
			return nil
		}
		stmt.VarName = name.Literal
		if !p.expect(token.IN) {
			p.synchronize()
			return nil
		}
		stmt.Collection = p.parseExpression(LOWEST)
		if stmt.Collection == nil {
			return nil
		}
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Body = p.parseIndentedBlock()
		return stmt

	case token.WHILE:
		p.next()
		stmt := &ast.RepeatWhileStatement{Token: repTok}
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Body = p.parseIndentedBlock()
		return stmt

	default:
		stmt := &ast.RepeatTimesStatement{Token: repTok}
		stmt.Count = p.parseExpression(LOWEST)
		if stmt.Count == nil {
			return nil
		}
		if !p.expect(token.TIMES) {
			p.synchronize()
			return nil
		}
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Body = p.parseIndentedBlock()
		return stmt
	}
}

// parseAttemptStatement parses attempt / if unsuccessful / then continue.
// Both follow-up blocks are optional; their keywords sit at the same
// indentation as the attempt.
func (p *Parser) parseAttemptStatement() ast.Statement {
	stmt := &ast.AttemptStatement{Token: p.cur()}
	p.next()
	if !p.expect(token.COLON) {
		p.synchronize()
		return nil
	}
	p.endLine()
	stmt.Try = p.parseIndentedBlock()

	if p.curIs(token.IFUNSUCCESSFUL) {
		p.next()
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Catch = p.parseIndentedBlock()
		if stmt.Catch == nil {
			stmt.Catch = []ast.Statement{}
		}
	}

	if p.curIs(token.THENCONTINUE) {
		p.next()
		if !p.expect(token.COLON) {
			p.synchronize()
			return nil
		}
		p.endLine()
		stmt.Finally = p.parseIndentedBlock()
		if stmt.Finally == nil {
			stmt.Finally = []ast.Statement{}
		}
	}
	return stmt
}

func (p *Parser) parseAddStatement() ast.Statement {
	stmt := &ast.AddToListStatement{Token: p.cur()}
	p.next()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expect(token.TO) {
		p.synchronize()
		return nil
	}
	stmt.ListPos = p.cur().Pos
	name, ok := p.expectIdent()
	if !ok {
		p.synchronize()
		return nil
	}
	stmt.ListName = name.Literal
	p.endLine()
	return stmt
}

func (p *Parser) parseRemoveStatement() ast.Statement {
	stmt := &ast.RemoveFromListStatement{Token: p.cur()}
	p.next()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expect(token.FROM) {
		p.synchronize()
		return nil
	}
	stmt.ListPos = p.cur().Pos
	name, ok := p.expectIdent()
	if !ok {
		p.synchronize()
		return nil
	}
	stmt.ListName = name.Literal
	p.endLine()
	return stmt
}

func (p *Parser) parseClearConsoleStatement() ast.Statement {
	stmt := &ast.ClearConsoleStatement{Token: p.cur()}
	p.next()
	p.endLine()
	return stmt
}
