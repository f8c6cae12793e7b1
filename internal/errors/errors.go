// Package errors defines the structured error model for the Steps core.
// Every error carries a stable code, a kind, a source position, and an
// optional hint. Formatting with source context (gutter and caret) is
// provided for terminal display; the core itself never prints.
package errors

import (
	"fmt"
	"strings"

	"github.com/steps-lang/steps/pkg/token"
)

// Kind classifies an error by pipeline stage and recoverability.
type Kind int

const (
	// Structure indicates a bad project layout (missing or mismatched files).
	Structure Kind = iota
	// Lex indicates a lexical error (unknown character, bad indentation).
	Lex
	// Parse indicates a syntax error.
	Parse
	// Type indicates a type error (wrong operand kind, failed conversion).
	Type
	// Runtime indicates a runtime error (undefined name, bad index).
	Runtime
	// Internal indicates an interpreter invariant violation. A bug.
	Internal
)

var kindNames = map[Kind]string{
	Structure: "structure error",
	Lex:       "lex error",
	Parse:     "parse error",
	Type:      "type error",
	Runtime:   "runtime error",
	Internal:  "internal error",
}

// String returns a readable name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Stable error codes. Lex and parse errors are E1xx, type errors E2xx,
// runtime errors E3xx, structure and resource-ceiling errors E4xx.
const (
	CodeUnknownChar      = "E101"
	CodeTabIndent        = "E102"
	CodeBadIndentWidth   = "E103"
	CodeInconsistentDent = "E104"
	CodeUnterminatedText = "E105"
	CodeBadEscape        = "E106"
	CodeReservedWord     = "E107"
	CodeUnexpectedToken  = "E110"
	CodeMissingClause    = "E111"
	CodeBadAssignTarget  = "E112"

	CodeWrongOperand   = "E201"
	CodeBadConversion  = "E202"
	CodeFixedViolation = "E203"
	CodeBadIndexKind   = "E204"

	CodeUndefinedName  = "E301"
	CodeDivisionByZero = "E302"
	CodeIndexRange     = "E303"
	CodeKeyNotFound    = "E304"
	CodeWrongArgCount  = "E305"
	CodeMissingReturn  = "E306"
	CodeUnknownStep    = "E307"
	CodeBadLoopCount   = "E308"
	CodeNotIterable    = "E309"
	CodeHostFailure    = "E390"

	CodeDuplicateStep   = "E401"
	CodeMissingBuilding = "E402"
	CodeNameMismatch    = "E403"
	CodeNativeCollision = "E405"
	CodeRecursionLimit  = "E408"
	CodeIterationLimit  = "E410"

	CodeInternal = "E900"
)

// Error is the structured error object exposed by the core.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Hint    string
	Pos     token.Position

	// Source holds the full text of the originating file when available,
	// used to render the excerpt line in Format.
	Source string

	// uncatchable marks errors that bypass attempt blocks even though
	// their kind would normally be catchable (host I/O failures).
	uncatchable bool
}

// New creates an error with a kind, code, position and formatted message.
func New(kind Kind, code string, pos token.Position, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// WithHint attaches a hint and returns the error for chaining.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// WithSource attaches the originating file text for excerpt rendering.
func (e *Error) WithSource(src string) *Error {
	e.Source = src
	return e
}

// NewHostFailure wraps an error raised by a host-injected I/O hook. Host
// failures are runtime errors but are never catchable by attempt blocks.
func NewHostFailure(pos token.Position, err error) *Error {
	he := New(Runtime, CodeHostFailure, pos, "host I/O failure: %v", err)
	he.uncatchable = true
	return he
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Pos, e.Message)
}

// Catchable reports whether an attempt block may catch this error. Only
// Type and Runtime errors are catchable; the recursion and iteration
// ceilings and host failures always propagate.
func (e *Error) Catchable() bool {
	if e.uncatchable {
		return false
	}
	if e.Code == CodeRecursionLimit || e.Code == CodeIterationLimit {
		return false
	}
	return e.Kind == Type || e.Kind == Runtime
}

// Format renders the error for a terminal: position header, source excerpt
// with a caret under the offending column, message and hint.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Error [%s] at %s\n", e.Code, e.Pos)

	if line := e.sourceLine(e.Pos.Line); line != "" {
		gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")

		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(gutter)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	if e.Hint != "" {
		sb.WriteString("\n  Hint: ")
		sb.WriteString(e.Hint)
	}
	return sb.String()
}

// sourceLine extracts the 1-indexed line from the attached source.
func (e *Error) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// List is an accumulated collection of errors from the lexer, parser or
// loader. A nil or empty list means success.
type List []*Error

// HasErrors reports whether the list contains at least one error.
func (l List) HasErrors() bool { return len(l) > 0 }

// Error implements the error interface by joining the first few messages.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}

// Format renders every error in the list separated by blank lines.
func (l List) Format(color bool) string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n\n")
}
