package ast

import (
	"bytes"
	"strconv"

	"github.com/steps-lang/steps/pkg/token"
)

// Identifier is a variable reference.
type Identifier struct {
	Token token.Token // the IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral is a number literal, stored as a 64-bit float.
type NumberLiteral struct {
	Token token.Token // the NUMBER token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() token.Position  { return nl.Token.Pos }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// TextLiteral is a double-quoted text literal with escapes resolved.
type TextLiteral struct {
	Token token.Token // the TEXT token
	Value string
}

func (tl *TextLiteral) expressionNode()      {}
func (tl *TextLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TextLiteral) Pos() token.Position  { return tl.Token.Pos }
func (tl *TextLiteral) String() string       { return strconv.Quote(tl.Value) }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Token token.Token // the TRUE or FALSE token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() token.Position  { return bl.Token.Pos }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// NothingLiteral is the literal nothing.
type NothingLiteral struct {
	Token token.Token // the 'nothing' token
}

func (nl *NothingLiteral) expressionNode()      {}
func (nl *NothingLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NothingLiteral) Pos() token.Position  { return nl.Token.Pos }
func (nl *NothingLiteral) String() string       { return "nothing" }

// ListLiteral is a bracketed list of expressions: [1, 2, 3].
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) Pos() token.Position  { return ll.Token.Pos }
func (ll *ListLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, e := range ll.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(e.String())
	}
	out.WriteString("]")
	return out.String()
}

// TableLiteral is a table literal: [:] when empty, ["k": v, ...] otherwise.
// Keys and Values are parallel slices in source order.
type TableLiteral struct {
	Token  token.Token // the '[' token
	Keys   []Expression
	Values []Expression
}

func (tl *TableLiteral) expressionNode()      {}
func (tl *TableLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TableLiteral) Pos() token.Position  { return tl.Token.Pos }
func (tl *TableLiteral) String() string {
	if len(tl.Keys) == 0 {
		return "[:]"
	}
	var out bytes.Buffer
	out.WriteString("[")
	for i := range tl.Keys {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(tl.Keys[i].String())
		out.WriteString(": ")
		out.WriteString(tl.Values[i].String())
	}
	out.WriteString("]")
	return out.String()
}

// InputExpression reads a line from the input hook, optionally converting.
//
//	input
//	input as number
type InputExpression struct {
	Token  token.Token // the 'input' token
	AsType string      // "", "number", "text", "boolean"
}

func (ie *InputExpression) expressionNode()      {}
func (ie *InputExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InputExpression) Pos() token.Position  { return ie.Token.Pos }
func (ie *InputExpression) String() string {
	if ie.AsType == "" {
		return "input"
	}
	return "input as " + ie.AsType
}

// BinaryExpression covers arithmetic, logical, comparison and the infix
// operator phrases. Operator holds the surface phrase ("+", "and",
// "is equal to", "added to", "contains", "split by", "is in", ...).
type BinaryExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() token.Position  { return be.Token.Pos }
func (be *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(be.Left.String())
	out.WriteString(" ")
	out.WriteString(be.Operator)
	out.WriteString(" ")
	out.WriteString(be.Right.String())
	out.WriteString(")")
	return out.String()
}

// UnaryExpression is unary minus or not.
type UnaryExpression struct {
	Token    token.Token // the operator token
	Operator string      // "-" or "not"
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() token.Position  { return ue.Token.Pos }
func (ue *UnaryExpression) String() string {
	if ue.Operator == "not" {
		return "(not " + ue.Right.String() + ")"
	}
	return "(" + ue.Operator + ue.Right.String() + ")"
}

// ConversionExpression is the postfix "as <type>" operator.
type ConversionExpression struct {
	Token  token.Token // the 'as' token
	Value  Expression
	Target string // "number", "text", "boolean"
}

func (ce *ConversionExpression) expressionNode()      {}
func (ce *ConversionExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ConversionExpression) Pos() token.Position  { return ce.Token.Pos }
func (ce *ConversionExpression) String() string {
	return "(" + ce.Value.String() + " as " + ce.Target + ")"
}

// DecimalFormatExpression is "as decimal(N)": fixed-precision text.
type DecimalFormatExpression struct {
	Token  token.Token // the 'as' token
	Value  Expression
	Digits Expression
}

func (de *DecimalFormatExpression) expressionNode()      {}
func (de *DecimalFormatExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DecimalFormatExpression) Pos() token.Position  { return de.Token.Pos }
func (de *DecimalFormatExpression) String() string {
	return "(" + de.Value.String() + " as decimal(" + de.Digits.String() + "))"
}

// IndexExpression is postfix indexing: list[i] or table["key"].
type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) Pos() token.Position  { return ix.Token.Pos }
func (ix *IndexExpression) String() string {
	return "(" + ix.Left.String() + "[" + ix.Index.String() + "])"
}

// LengthOfExpression is "length of X" for text, lists and tables.
type LengthOfExpression struct {
	Token token.Token // the 'length of' token
	Value Expression
}

func (le *LengthOfExpression) expressionNode()      {}
func (le *LengthOfExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LengthOfExpression) Pos() token.Position  { return le.Token.Pos }
func (le *LengthOfExpression) String() string {
	return "(length of " + le.Value.String() + ")"
}

// CharacterAtExpression is "character at N of S".
type CharacterAtExpression struct {
	Token token.Token // the 'character at' token
	Index Expression
	Value Expression
}

func (ca *CharacterAtExpression) expressionNode()      {}
func (ca *CharacterAtExpression) TokenLiteral() string { return ca.Token.Literal }
func (ca *CharacterAtExpression) Pos() token.Position  { return ca.Token.Pos }
func (ca *CharacterAtExpression) String() string {
	return "(character at " + ca.Index.String() + " of " + ca.Value.String() + ")"
}

// TypeOfExpression is "type of X": the type tag as text.
type TypeOfExpression struct {
	Token token.Token // the 'type of' token
	Value Expression
}

func (te *TypeOfExpression) expressionNode()      {}
func (te *TypeOfExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TypeOfExpression) Pos() token.Position  { return te.Token.Pos }
func (te *TypeOfExpression) String() string {
	return "(type of " + te.Value.String() + ")"
}

// IsAExpression is the type test "X is a number".
type IsAExpression struct {
	Token    token.Token // the 'is a' token
	Value    Expression
	TypeName string
}

func (ia *IsAExpression) expressionNode()      {}
func (ia *IsAExpression) TokenLiteral() string { return ia.Token.Literal }
func (ia *IsAExpression) Pos() token.Position  { return ia.Token.Pos }
func (ia *IsAExpression) String() string {
	return "(" + ia.Value.String() + " is a " + ia.TypeName + ")"
}
