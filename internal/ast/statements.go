package ast

import (
	"bytes"

	"github.com/steps-lang/steps/pkg/token"
)

// DisplayStatement writes a value followed by a newline.
//
//	display "Hello, World!"
type DisplayStatement struct {
	Token token.Token // the 'display' token
	Value Expression
}

func (ds *DisplayStatement) statementNode()       {}
func (ds *DisplayStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DisplayStatement) Pos() token.Position  { return ds.Token.Pos }
func (ds *DisplayStatement) String() string       { return "display " + ds.Value.String() }

// IndicateStatement writes a value without a trailing newline.
type IndicateStatement struct {
	Token token.Token // the 'indicate' token
	Value Expression
}

func (is *IndicateStatement) statementNode()       {}
func (is *IndicateStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IndicateStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IndicateStatement) String() string       { return "indicate " + is.Value.String() }

// SetStatement assigns to a plain name or an indexed target.
//
//	set total to 0
//	set scores["alice"] to 97
type SetStatement struct {
	Token token.Token // the 'set' token
	Name  string
	NamePos token.Position
	Index Expression // nil for a plain target
	Value Expression
}

func (ss *SetStatement) statementNode()       {}
func (ss *SetStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SetStatement) Pos() token.Position  { return ss.Token.Pos }
func (ss *SetStatement) String() string {
	var out bytes.Buffer
	out.WriteString("set ")
	out.WriteString(ss.Name)
	if ss.Index != nil {
		out.WriteString("[")
		out.WriteString(ss.Index.String())
		out.WriteString("]")
	}
	out.WriteString(" to ")
	out.WriteString(ss.Value.String())
	return out.String()
}

// CallStatement invokes a native function, step or riser by name.
//
//	call greet
//	call calculate_tip with amount, percent storing result in tip
type CallStatement struct {
	Token   token.Token // the 'call' token
	Name    string
	NamePos token.Position
	Args    []Expression
	// Result is the name bound by "storing result in"; empty when absent.
	Result    string
	ResultPos token.Position
}

func (cs *CallStatement) statementNode()       {}
func (cs *CallStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *CallStatement) Pos() token.Position  { return cs.Token.Pos }
func (cs *CallStatement) String() string {
	var out bytes.Buffer
	out.WriteString("call ")
	out.WriteString(cs.Name)
	for i, a := range cs.Args {
		if i == 0 {
			out.WriteString(" with ")
		} else {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	if cs.Result != "" {
		out.WriteString(" storing result in ")
		out.WriteString(cs.Result)
	}
	return out.String()
}

// ReturnStatement ends the current step or riser, optionally with a value.
type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression  // nil when returning nothing
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// ExitStatement terminates the program with success.
type ExitStatement struct {
	Token token.Token // the 'exit' token
}

func (es *ExitStatement) statementNode()       {}
func (es *ExitStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExitStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExitStatement) String() string       { return "exit" }

// IfBranch is one condition/body pair of an if chain.
type IfBranch struct {
	Condition Expression
	Body      []Statement
}

// IfStatement is an if / otherwise if / otherwise chain.
type IfStatement struct {
	Token     token.Token // the 'if' token
	Branches  []IfBranch
	Otherwise []Statement // nil when there is no otherwise branch
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	for i, b := range is.Branches {
		if i == 0 {
			out.WriteString("if ")
		} else {
			out.WriteString(" otherwise if ")
		}
		out.WriteString(b.Condition.String())
		out.WriteString(": ...")
	}
	if is.Otherwise != nil {
		out.WriteString(" otherwise: ...")
	}
	return out.String()
}

// RepeatTimesStatement runs its body a fixed number of times.
//
//	repeat 5 times:
type RepeatTimesStatement struct {
	Token token.Token // the 'repeat' token
	Count Expression
	Body  []Statement
}

func (rt *RepeatTimesStatement) statementNode()       {}
func (rt *RepeatTimesStatement) TokenLiteral() string { return rt.Token.Literal }
func (rt *RepeatTimesStatement) Pos() token.Position  { return rt.Token.Pos }
func (rt *RepeatTimesStatement) String() string {
	return "repeat " + rt.Count.String() + " times: ..."
}

// RepeatForEachStatement iterates a list's elements, a text's characters
// or a table's keys.
//
//	repeat for each name in guests:
type RepeatForEachStatement struct {
	Token      token.Token // the 'repeat' token
	VarName    string
	Collection Expression
	Body       []Statement
}

func (rf *RepeatForEachStatement) statementNode()       {}
func (rf *RepeatForEachStatement) TokenLiteral() string { return rf.Token.Literal }
func (rf *RepeatForEachStatement) Pos() token.Position  { return rf.Token.Pos }
func (rf *RepeatForEachStatement) String() string {
	return "repeat for each " + rf.VarName + " in " + rf.Collection.String() + ": ..."
}

// RepeatWhileStatement is a pre-test loop.
type RepeatWhileStatement struct {
	Token     token.Token // the 'repeat' token
	Condition Expression
	Body      []Statement
}

func (rw *RepeatWhileStatement) statementNode()       {}
func (rw *RepeatWhileStatement) TokenLiteral() string { return rw.Token.Literal }
func (rw *RepeatWhileStatement) Pos() token.Position  { return rw.Token.Pos }
func (rw *RepeatWhileStatement) String() string {
	return "repeat while " + rw.Condition.String() + ": ..."
}

// AttemptStatement is the structured error-recovery form: the attempt body
// runs first; on a catchable error the if unsuccessful body runs with
// problem_message bound; the then continue body always runs.
type AttemptStatement struct {
	Token   token.Token // the 'attempt' token
	Try     []Statement
	Catch   []Statement // nil when there is no if unsuccessful: block
	Finally []Statement // nil when there is no then continue: block
}

func (as *AttemptStatement) statementNode()       {}
func (as *AttemptStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AttemptStatement) Pos() token.Position  { return as.Token.Pos }
func (as *AttemptStatement) String() string       { return "attempt: ..." }

// AddToListStatement appends a value to a named list.
//
//	add score to results
type AddToListStatement struct {
	Token    token.Token // the 'add' token
	Value    Expression
	ListName string
	ListPos  token.Position
}

func (al *AddToListStatement) statementNode()       {}
func (al *AddToListStatement) TokenLiteral() string { return al.Token.Literal }
func (al *AddToListStatement) Pos() token.Position  { return al.Token.Pos }
func (al *AddToListStatement) String() string {
	return "add " + al.Value.String() + " to " + al.ListName
}

// RemoveFromListStatement removes the first matching element from a named
// list. Removing an absent value is a silent no-op.
type RemoveFromListStatement struct {
	Token    token.Token // the 'remove' token
	Value    Expression
	ListName string
	ListPos  token.Position
}

func (rl *RemoveFromListStatement) statementNode()       {}
func (rl *RemoveFromListStatement) TokenLiteral() string { return rl.Token.Literal }
func (rl *RemoveFromListStatement) Pos() token.Position  { return rl.Token.Pos }
func (rl *RemoveFromListStatement) String() string {
	return "remove " + rl.Value.String() + " from " + rl.ListName
}

// ClearConsoleStatement emits the terminal clear sequence via the output hook.
type ClearConsoleStatement struct {
	Token token.Token // the 'clear console' token
}

func (cc *ClearConsoleStatement) statementNode()       {}
func (cc *ClearConsoleStatement) TokenLiteral() string { return cc.Token.Literal }
func (cc *ClearConsoleStatement) Pos() token.Position  { return cc.Token.Pos }
func (cc *ClearConsoleStatement) String() string       { return "clear console" }

// SetIterationLimitStatement changes the global loop iteration ceiling.
//
//	set iteration limit to 1000
type SetIterationLimitStatement struct {
	Token token.Token // the 'set' token
	Limit Expression
}

func (sl *SetIterationLimitStatement) statementNode()       {}
func (sl *SetIterationLimitStatement) TokenLiteral() string { return sl.Token.Literal }
func (sl *SetIterationLimitStatement) Pos() token.Position  { return sl.Token.Pos }
func (sl *SetIterationLimitStatement) String() string {
	return "set iteration limit to " + sl.Limit.String()
}
