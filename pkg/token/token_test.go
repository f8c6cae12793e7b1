package token

import (
	"strings"
	"testing"
)

// Phrases must be ordered so that no phrase is preceded by one of its own
// prefixes; otherwise the shorter phrase would always win the match.
func TestPhraseOrderingLongestFirst(t *testing.T) {
	for i, p := range Phrases {
		for j := 0; j < i; j++ {
			earlier := Phrases[j]
			if len(earlier.Words) >= len(p.Words) {
				continue
			}
			if strings.HasPrefix(strings.Join(p.Words, " "), strings.Join(earlier.Words, " ")+" ") {
				t.Errorf("phrase %q (index %d) is shadowed by its prefix %q (index %d)",
					strings.Join(p.Words, " "), i, strings.Join(earlier.Words, " "), j)
			}
		}
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		word     string
		want     Type
		fragment bool
	}{
		{"building", BUILDING, false},
		{"display", DISPLAY, false},
		{"equals", EQ, false},
		{"number", NUMBERTYPE, false},
		{"true", TRUE, false},
		{"than", ILLEGAL, true},
		{"storing", ILLEGAL, true},
		{"unsuccessful", ILLEGAL, true},
		{"my_variable", IDENT, false},
		{"x", IDENT, false},
		{"problem_message", IDENT, false},
	}
	for _, tt := range tests {
		got, fragment := LookupIdent(tt.word)
		if got != tt.want || fragment != tt.fragment {
			t.Errorf("LookupIdent(%q) = (%v, %v), want (%v, %v)",
				tt.word, got, fragment, tt.want, tt.fragment)
		}
	}
}

func TestIsReserved(t *testing.T) {
	for _, word := range []string{
		"building", "floor", "step", "riser", "belongs", "expects", "returns",
		"declare", "do", "exit", "as", "fixed", "set", "call", "with",
		"storing", "result", "in", "return", "display", "indicate", "input",
		"if", "otherwise", "repeat", "times", "for", "each", "while",
		"attempt", "unsuccessful", "then", "continue", "note", "block", "end",
		"and", "or", "not", "is", "equal", "less", "greater", "than",
		"added", "split", "by", "character", "at", "of", "length",
		"contains", "starts", "ends", "add", "remove", "from", "type", "a",
		"number", "text", "boolean", "list", "table", "true", "false",
		"nothing", "clear", "console", "iteration", "limit",
	} {
		if !IsReserved(word) {
			t.Errorf("%q must be reserved", word)
		}
	}
	for _, word := range []string{"amount", "guest", "total", "x"} {
		if IsReserved(word) {
			t.Errorf("%q must not be reserved", word)
		}
	}
}

func TestTypeString(t *testing.T) {
	if EOF.String() != "EOF" {
		t.Errorf("EOF.String() = %q", EOF.String())
	}
	if STORINGRESULT.String() != "storing result in" {
		t.Errorf("STORINGRESULT.String() = %q", STORINGRESULT.String())
	}
	if Type(9999).String() != "Type(9999)" {
		t.Errorf("unknown type String() = %q", Type(9999).String())
	}
}

func TestPositionString(t *testing.T) {
	p := Position{File: "main.building", Line: 3, Column: 7}
	if p.String() != "main.building:3:7" {
		t.Errorf("Position.String() = %q", p.String())
	}
	anon := Position{Line: 1, Column: 2}
	if anon.String() != "1:2" {
		t.Errorf("anonymous Position.String() = %q", anon.String())
	}
}
