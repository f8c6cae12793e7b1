package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/steps-lang/steps/internal/ast"
)

// parseExpr parses a single expression by wrapping it in a display
// statement, and returns its parenthesised String() form.
func parseExpr(t *testing.T, expr string) string {
	t.Helper()
	p := New("display "+expr+"\n", "expr.test")
	stmts := p.ParseFragment()
	require.False(t, p.Errors().HasErrors(), "%s: unexpected errors: %v", expr, p.Errors())
	require.Len(t, stmts, 1)
	display, ok := stmts[0].(*ast.DisplayStatement)
	require.True(t, ok)
	return display.Value.String()
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Arithmetic
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"10 / 2 - 3", "((10 / 2) - 3)"},
		{"-p + b", "((-p) + b)"},
		{"-p * b", "((-p) * b)"},

		// Comparisons bind looser than arithmetic
		{"p + 1 is greater than b", "((p + 1) is greater than b)"},
		{"p is less than or equal to b + 1", "(p is less than or equal to (b + 1))"},
		{"p is equal to b + 1", "(p is equal to (b + 1))"},
		{"p equals b", "(p equals b)"},

		// Logical ladder: or < and < not < comparison
		{"p or b and c", "(p or (b and c))"},
		{"not p and b", "((not p) and b)"},
		{"not p is equal to b", "(not (p is equal to b))"},
		{"p and b is equal to c", "(p and (b is equal to c))"},

		// added to sits with + / -
		{`"a" added to "b" added to "c"`, `(("a" added to "b") added to "c")`},
		{`name added to "!" is equal to greeting`, `((name added to "!") is equal to greeting)`},

		// as binds tighter than added to, looser than indexing
		{`x as text added to y`, `((x as text) added to y)`},
		{`scores[0] as text`, `((scores[0]) as text)`},
		{`x as decimal(2) added to "%"`, `((x as decimal(2)) added to "%")`},

		// Prefix phrases bind tighter than additive operators
		{"length of s + 1", "((length of s) + 1)"},
		{"type of x is equal to \"number\"", "((type of x) is equal to \"number\")"},
		{"character at 0 of s added to t", "((character at 0 of s) added to t)"},

		// Membership and type tests at comparison level
		{"x is in basket and y is in basket", "((x is in basket) and (y is in basket))"},
		{"x is a number or x is a text", "((x is a number) or (x is a text))"},

		// Indexing chains
		{"grid[1][2]", "((grid[1])[2])"},
		{"ages[\"alice\"]", "(ages[\"alice\"])"},
	}

	for _, tt := range tests {
		got := parseExpr(t, tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: precedence mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestLiteralForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"true", "true"},
		{"false", "false"},
		{"nothing", "nothing"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[]", "[]"},
		{"[:]", "[:]"},
		{`["a": 1, "b": 2]`, `["a": 1, "b": 2]`},
		{"input", "input"},
		{"input as number", "input as number"},
	}
	for _, tt := range tests {
		got := parseExpr(t, tt.input)
		require.Equal(t, tt.want, got, "input: %s", tt.input)
	}
}

func TestSplitByProducesBinary(t *testing.T) {
	got := parseExpr(t, `"a,b,c" split by ","`)
	require.Equal(t, `("a,b,c" split by ",")`, got)
}

func TestMalformedExpressionReported(t *testing.T) {
	p := New("display 1 +\n", "expr.test")
	p.ParseFragment()
	require.True(t, p.Errors().HasErrors())
}
