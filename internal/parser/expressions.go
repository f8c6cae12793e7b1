package parser

import (
	"strconv"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/pkg/token"
)

// Precedence levels, lowest to highest. The ladder follows the language
// reference: or < and < not < equality < ordering < additive <
// multiplicative < unary minus < "as" conversion < indexing.
const (
	_ int = iota
	LOWEST
	ORPREC
	ANDPREC
	NOTPREC
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CONVERT
	INDEX
)

// precedences maps infix token types to their binding power.
var precedences = map[token.Type]int{
	token.OR:         ORPREC,
	token.AND:        ANDPREC,
	token.EQ:         EQUALS,
	token.NOTEQ:      EQUALS,
	token.CONTAINS:   EQUALS,
	token.STARTSWITH: EQUALS,
	token.ENDSWITH:   EQUALS,
	token.ISIN:       EQUALS,
	token.ISA:        EQUALS,
	token.LESS:       LESSGREATER,
	token.LESSEQ:     LESSGREATER,
	token.GREATER:    LESSGREATER,
	token.GREATEREQ:  LESSGREATER,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ADDEDTO:    SUM,
	token.SPLITBY:    SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
	token.AS:         CONVERT,
	token.LBRACKET:   INDEX,
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur().Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression is the Pratt core: parse a prefix form, then fold infix
// operators while their precedence exceeds the caller's.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// parsePrefix parses literals, identifiers, unary operators, grouping and
// the prefix operator phrases.
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}

	case token.NUMBER:
		p.next()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorAt(tok.Pos, errors.CodeUnexpectedToken, "malformed number %q", tok.Literal)
			return nil
		}
		return &ast.NumberLiteral{Token: tok, Value: f}

	case token.TEXT:
		p.next()
		return &ast.TextLiteral{Token: tok, Value: tok.Literal}

	case token.TRUE:
		p.next()
		return &ast.BooleanLiteral{Token: tok, Value: true}

	case token.FALSE:
		p.next()
		return &ast.BooleanLiteral{Token: tok, Value: false}

	case token.NOTHING:
		p.next()
		return &ast.NothingLiteral{Token: tok}

	case token.INPUT:
		p.next()
		// "input as <type>" folds the conversion into the input itself so
		// a failed conversion reports against the input expression.
		if p.curIs(token.AS) {
			switch p.peek().Type {
			case token.NUMBERTYPE, token.TEXTTYPE, token.BOOLEANTYPE:
				p.next()
				asType := p.cur().Literal
				p.next()
				return &ast.InputExpression{Token: tok, AsType: asType}
			}
		}
		return &ast.InputExpression{Token: tok}

	case token.MINUS:
		p.next()
		right := p.parseExpression(PREFIX)
		if right == nil {
			return nil
		}
		return &ast.UnaryExpression{Token: tok, Operator: "-", Right: right}

	case token.NOT:
		p.next()
		right := p.parseExpression(NOTPREC)
		if right == nil {
			return nil
		}
		return &ast.UnaryExpression{Token: tok, Operator: "not", Right: right}

	case token.LPAREN:
		p.next()
		inner := p.parseExpression(LOWEST)
		if inner == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return inner

	case token.LBRACKET:
		return p.parseBracketLiteral()

	case token.LENGTHOF:
		p.next()
		value := p.parseExpression(PREFIX)
		if value == nil {
			return nil
		}
		return &ast.LengthOfExpression{Token: tok, Value: value}

	case token.CHARACTERAT:
		p.next()
		index := p.parseExpression(LOWEST)
		if index == nil {
			return nil
		}
		if !p.expect(token.OF) {
			return nil
		}
		value := p.parseExpression(PREFIX)
		if value == nil {
			return nil
		}
		return &ast.CharacterAtExpression{Token: tok, Index: index, Value: value}

	case token.TYPEOF:
		p.next()
		value := p.parseExpression(PREFIX)
		if value == nil {
			return nil
		}
		return &ast.TypeOfExpression{Token: tok, Value: value}
	}

	p.errorf(errors.CodeUnexpectedToken, "unexpected %s in expression", p.describeCur())
	p.synchronize()
	return nil
}

// parseInfix folds one infix operator onto left.
func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.AS:
		return p.parseConversion(left)

	case token.LBRACKET:
		p.next()
		index := p.parseExpression(LOWEST)
		if index == nil {
			return nil
		}
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return &ast.IndexExpression{Token: tok, Left: left, Index: index}

	case token.ISA:
		p.next()
		typeName, ok := p.parseTypeKeyword()
		if !ok {
			return nil
		}
		return &ast.IsAExpression{Token: tok, Value: left, TypeName: typeName}
	}

	// Plain binary operators, including the infix operator phrases.
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parseConversion parses the postfix "as <type>" and "as decimal(N)".
func (p *Parser) parseConversion(left ast.Expression) ast.Expression {
	asTok := p.cur()
	p.next()

	if p.curIs(token.DECIMAL) {
		p.next()
		if !p.expect(token.LPAREN) {
			return nil
		}
		digits := p.parseExpression(LOWEST)
		if digits == nil {
			return nil
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &ast.DecimalFormatExpression{Token: asTok, Value: left, Digits: digits}
	}

	switch p.cur().Type {
	case token.NUMBERTYPE, token.TEXTTYPE, token.BOOLEANTYPE:
		target := p.cur().Literal
		p.next()
		return &ast.ConversionExpression{Token: asTok, Value: left, Target: target}
	}
	p.errorf(errors.CodeUnexpectedToken,
		"expected number, text, boolean or decimal(N) after \"as\", found %s", p.describeCur())
	p.synchronize()
	return nil
}

// parseBracketLiteral parses list literals [a, b], the empty table [:]
// and table literals ["k": v, ...].
func (p *Parser) parseBracketLiteral() ast.Expression {
	tok := p.cur()
	p.next() // [

	// Empty table [:]
	if p.curIs(token.COLON) {
		p.next()
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return &ast.TableLiteral{Token: tok}
	}

	// Empty list []
	if p.curIs(token.RBRACKET) {
		p.next()
		return &ast.ListLiteral{Token: tok}
	}

	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	// A colon after the first expression makes this a table literal.
	if p.curIs(token.COLON) {
		table := &ast.TableLiteral{Token: tok}
		p.next()
		firstVal := p.parseExpression(LOWEST)
		if firstVal == nil {
			return nil
		}
		table.Keys = append(table.Keys, first)
		table.Values = append(table.Values, firstVal)

		for p.curIs(token.COMMA) {
			p.next()
			key := p.parseExpression(LOWEST)
			if key == nil {
				return nil
			}
			if !p.expect(token.COLON) {
				return nil
			}
			val := p.parseExpression(LOWEST)
			if val == nil {
				return nil
			}
			table.Keys = append(table.Keys, key)
			table.Values = append(table.Values, val)
		}
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return table
	}

	list := &ast.ListLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.curIs(token.COMMA) {
		p.next()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		list.Elements = append(list.Elements, elem)
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return list
}
