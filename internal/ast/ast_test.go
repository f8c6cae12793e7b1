package ast

import (
	"testing"

	"github.com/steps-lang/steps/pkg/token"
)

func ident(name string) *Identifier {
	return &Identifier{Token: token.Token{Type: token.IDENT, Literal: name}, Value: name}
}

func number(lit string, v float64) *NumberLiteral {
	return &NumberLiteral{Token: token.Token{Type: token.NUMBER, Literal: lit}, Value: v}
}

func TestStatementStrings(t *testing.T) {
	tests := []struct {
		stmt Statement
		want string
	}{
		{&DisplayStatement{Value: &TextLiteral{Value: "hi"}}, `display "hi"`},
		{&SetStatement{Name: "x", Value: number("5", 5)}, "set x to 5"},
		{
			&SetStatement{Name: "ages", Index: &TextLiteral{Value: "bob"}, Value: number("25", 25)},
			`set ages["bob"] to 25`,
		},
		{
			&CallStatement{Name: "tip", Args: []Expression{ident("a"), ident("b")}, Result: "x"},
			"call tip with a, b storing result in x",
		},
		{&CallStatement{Name: "greet"}, "call greet"},
		{&ReturnStatement{}, "return"},
		{&ReturnStatement{Value: ident("x")}, "return x"},
		{&ExitStatement{}, "exit"},
		{&AddToListStatement{Value: number("1", 1), ListName: "basket"}, "add 1 to basket"},
		{&RemoveFromListStatement{Value: number("1", 1), ListName: "basket"}, "remove 1 from basket"},
		{&ClearConsoleStatement{}, "clear console"},
		{&SetIterationLimitStatement{Limit: number("1000", 1000)}, "set iteration limit to 1000"},
	}
	for _, tt := range tests {
		if got := tt.stmt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{&BinaryExpression{Left: ident("a"), Operator: "+", Right: ident("b")}, "(a + b)"},
		{&UnaryExpression{Operator: "-", Right: ident("a")}, "(-a)"},
		{&UnaryExpression{Operator: "not", Right: ident("a")}, "(not a)"},
		{&ConversionExpression{Value: ident("x"), Target: "number"}, "(x as number)"},
		{
			&DecimalFormatExpression{Value: ident("x"), Digits: number("2", 2)},
			"(x as decimal(2))",
		},
		{&IndexExpression{Left: ident("xs"), Index: number("0", 0)}, "(xs[0])"},
		{&LengthOfExpression{Value: ident("xs")}, "(length of xs)"},
		{
			&CharacterAtExpression{Index: number("0", 0), Value: ident("s")},
			"(character at 0 of s)",
		},
		{&TypeOfExpression{Value: ident("x")}, "(type of x)"},
		{&IsAExpression{Value: ident("x"), TypeName: "number"}, "(x is a number)"},
		{&ListLiteral{Elements: []Expression{number("1", 1), number("2", 2)}}, "[1, 2]"},
		{&TableLiteral{}, "[:]"},
		{&InputExpression{}, "input"},
		{&InputExpression{AsType: "number"}, "input as number"},
		{&NothingLiteral{}, "nothing"},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStepHelpers(t *testing.T) {
	step := &Step{
		Name:    "outer",
		Returns: "answer",
		Risers:  []*Riser{{Name: "helper"}},
	}
	if !step.HasReturn() {
		t.Error("HasReturn() = false for a step with a returns name")
	}
	if step.RiserByName("helper") == nil {
		t.Error("RiserByName missed an existing riser")
	}
	if step.RiserByName("ghost") != nil {
		t.Error("RiserByName found a ghost riser")
	}
	if (&Step{}).HasReturn() {
		t.Error("HasReturn() = true for a step without a returns name")
	}
}
