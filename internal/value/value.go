// Package value defines the runtime value representation for Steps
// programs: number, text, boolean, list, table and nothing. Lists and
// tables have reference semantics; the primitives are immutable.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Type is the runtime type tag of a value. The tags double as the type
// keywords of the language ("number", "text", ...), so they appear
// verbatim in error messages and in "type of" results.
type Type string

const (
	NumberType  Type = "number"
	TextType    Type = "text"
	BooleanType Type = "boolean"
	ListType    Type = "list"
	TableType   Type = "table"
	NothingType Type = "nothing"
)

// Value is implemented by every runtime value.
type Value interface {
	// Type returns the runtime type tag.
	Type() Type

	// Display returns the user-facing form used by the display statement.
	Display() string

	// Inspect returns the debug form: like Display, but text values are
	// quoted. Used for container elements and diagnostics.
	Inspect() string
}

// Number is a 64-bit floating point number. Values that are mathematically
// integral display without a decimal point.
type Number struct {
	Value float64
}

// NewNumber creates a number value.
func NewNumber(f float64) *Number { return &Number{Value: f} }

func (n *Number) Type() Type { return NumberType }

func (n *Number) Display() string { return FormatNumber(n.Value) }

func (n *Number) Inspect() string { return n.Display() }

// IsIntegral reports whether the number has no fractional part.
func (n *Number) IsIntegral() bool {
	return n.Value == math.Trunc(n.Value) && !math.IsInf(n.Value, 0)
}

// Text is a Unicode string.
type Text struct {
	Value string
}

// NewText creates a text value.
func NewText(s string) *Text { return &Text{Value: s} }

func (t *Text) Type() Type { return TextType }

func (t *Text) Display() string { return t.Value }

func (t *Text) Inspect() string { return strconv.Quote(t.Value) }

// Boolean is true or false.
type Boolean struct {
	Value bool
}

// Shared instances; booleans are immutable so two suffice.
var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

// NewBoolean returns the shared boolean for b.
func NewBoolean(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

func (b *Boolean) Type() Type { return BooleanType }

func (b *Boolean) Display() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (b *Boolean) Inspect() string { return b.Display() }

// Nothing is the absence of a value.
type Nothing struct{}

// NothingValue is the shared nothing instance.
var NothingValue = &Nothing{}

func (n *Nothing) Type() Type { return NothingType }

func (n *Nothing) Display() string { return "nothing" }

func (n *Nothing) Inspect() string { return "nothing" }

// FormatNumber renders a float the way Steps displays numbers: integer
// form when the value is integral, shortest decimal form otherwise.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatDecimal renders a float with exactly n fractional digits.
func FormatDecimal(f float64, n int) string {
	if n < 0 {
		n = 0
	}
	return strconv.FormatFloat(f, 'f', n, 64)
}

// Equals implements the cross-type "is equal to" operator: values of
// different kinds are unequal, lists and tables compare element-wise.
func Equals(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Number:
		return av.Value == b.(*Number).Value
	case *Text:
		return av.Value == b.(*Text).Value
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *Nothing:
		return true
	case *List:
		bv := b.(*List)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Table:
		bv := b.(*Table)
		if len(av.keys) != len(bv.keys) {
			return false
		}
		for _, k := range av.keys {
			ov, ok := bv.Get(k)
			if !ok || !Equals(av.entries[k], ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Truthy implements conversion to boolean: a number is true when nonzero,
// text when non-empty, containers when non-empty; nothing is false.
func Truthy(v Value) bool {
	switch tv := v.(type) {
	case *Boolean:
		return tv.Value
	case *Number:
		return tv.Value != 0
	case *Text:
		return tv.Value != ""
	case *List:
		return len(tv.Elements) > 0
	case *Table:
		return len(tv.keys) > 0
	case *Nothing:
		return false
	}
	return false
}

// ParseNumber parses text as a Steps number: optional sign, digits,
// optional decimal part, surrounding whitespace ignored.
func ParseNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	rest := trimmed
	if rest[0] == '+' || rest[0] == '-' {
		rest = rest[1:]
	}
	if rest == "" {
		return 0, false
	}
	digits := func(s string) bool {
		for _, c := range s {
			if c < '0' || c > '9' {
				return false
			}
		}
		return len(s) > 0
	}
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		if !digits(rest[:dot]) || !digits(rest[dot+1:]) {
			return 0, false
		}
	} else if !digits(rest) {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
