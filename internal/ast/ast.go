// Package ast defines the Abstract Syntax Tree node types for Steps.
//
// There are three file-kind roots (Building, Floor, Step) plus the nested
// Riser node. Statement and expression nodes carry the token that opened
// them, so every node can report a source position for error messages.
package ast

import (
	"bytes"
	"strings"

	"github.com/steps-lang/steps/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal of the token the node started at.
	TokenLiteral() string

	// Pos returns the source position of the node.
	Pos() token.Position

	// String returns a compact representation for debugging and tests.
	String() string
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// DeclLine is one line of a declare: block, e.g. "score as number fixed".
type DeclLine struct {
	Token    token.Token // the identifier token
	Name     string
	DeclType string // "number", "text", "boolean", "list", "table"
	Fixed    bool
}

func (d *DeclLine) TokenLiteral() string { return d.Token.Literal }
func (d *DeclLine) Pos() token.Position  { return d.Token.Pos }
func (d *DeclLine) String() string {
	var out bytes.Buffer
	out.WriteString(d.Name)
	out.WriteString(" as ")
	out.WriteString(d.DeclType)
	if d.Fixed {
		out.WriteString(" fixed")
	}
	return out.String()
}

// Building is the root node of a .building file: the program entry point.
type Building struct {
	Token      token.Token // the 'building' token
	Name       string
	Declares   []*DeclLine
	Statements []Statement
}

func (b *Building) TokenLiteral() string { return b.Token.Literal }
func (b *Building) Pos() token.Position  { return b.Token.Pos }
func (b *Building) String() string {
	var out bytes.Buffer
	out.WriteString("building: ")
	out.WriteString(b.Name)
	out.WriteString("\n")
	for _, s := range b.Statements {
		out.WriteString("    ")
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// StepDecl is one "step: name" line inside a floor file.
type StepDecl struct {
	Token token.Token // the 'step' token
	Name  string
}

func (s *StepDecl) TokenLiteral() string { return s.Token.Literal }
func (s *StepDecl) Pos() token.Position  { return s.Token.Pos }
func (s *StepDecl) String() string       { return "step: " + s.Name }

// Floor is the root node of a .floor file: it enumerates the steps that
// belong to the floor.
type Floor struct {
	Token token.Token // the 'floor' token
	Name  string
	Steps []*StepDecl
}

func (f *Floor) TokenLiteral() string { return f.Token.Literal }
func (f *Floor) Pos() token.Position  { return f.Token.Pos }
func (f *Floor) String() string {
	var out bytes.Buffer
	out.WriteString("floor: ")
	out.WriteString(f.Name)
	out.WriteString("\n")
	for _, s := range f.Steps {
		out.WriteString("    ")
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Step is the root node of a .step file: one callable unit of work.
type Step struct {
	Token     token.Token // the 'step' token
	Name      string
	FloorName string // from the belongs to: line
	FloorPos  token.Position
	Params    []string
	Returns   string // declared result name; empty when the step returns nothing
	Risers    []*Riser
	Declares  []*DeclLine
	Body      []Statement
}

func (s *Step) TokenLiteral() string { return s.Token.Literal }
func (s *Step) Pos() token.Position  { return s.Token.Pos }

// HasReturn reports whether the step declares a returns: name.
func (s *Step) HasReturn() bool { return s.Returns != "" }

// RiserByName finds a riser of this step, or nil.
func (s *Step) RiserByName(name string) *Riser {
	for _, r := range s.Risers {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func (s *Step) String() string {
	var out bytes.Buffer
	out.WriteString("step: ")
	out.WriteString(s.Name)
	out.WriteString("\n    belongs to: ")
	out.WriteString(s.FloorName)
	if len(s.Params) > 0 {
		out.WriteString("\n    expects: ")
		out.WriteString(strings.Join(s.Params, ", "))
	}
	if s.Returns != "" {
		out.WriteString("\n    returns: ")
		out.WriteString(s.Returns)
	}
	out.WriteString("\n")
	return out.String()
}

// Riser is a private helper callable only from its parent step.
type Riser struct {
	Token    token.Token // the 'riser' token
	Name     string
	Params   []string
	Returns  string
	Declares []*DeclLine
	Body     []Statement
}

func (r *Riser) TokenLiteral() string { return r.Token.Literal }
func (r *Riser) Pos() token.Position  { return r.Token.Pos }

// HasReturn reports whether the riser declares a returns: name.
func (r *Riser) HasReturn() bool { return r.Returns != "" }

func (r *Riser) String() string {
	var out bytes.Buffer
	out.WriteString("riser: ")
	out.WriteString(r.Name)
	if len(r.Params) > 0 {
		out.WriteString("\n        expects: ")
		out.WriteString(strings.Join(r.Params, ", "))
	}
	out.WriteString("\n")
	return out.String()
}
