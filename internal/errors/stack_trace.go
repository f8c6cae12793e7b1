package errors

import (
	"fmt"
	"strings"

	"github.com/steps-lang/steps/pkg/token"
)

// StackFrame records one active step or riser invocation: the callee name
// and the position of the call site.
type StackFrame struct {
	StepName string
	CallSite token.Position
}

// String returns "step_name [line: N, column: M]", or just the step name
// when no call site is recorded (the synthetic building frame).
func (sf StackFrame) String() string {
	if sf.CallSite.Line == 0 {
		return sf.StepName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]",
		sf.StepName, sf.CallSite.Line, sf.CallSite.Column)
}

// StackTrace is a call stack ordered oldest first.
type StackTrace []StackFrame

// String renders the trace newest frame first, one frame per line.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Top returns the most recent frame, or nil if the stack is empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Depth returns the number of frames in the stack.
func (st StackTrace) Depth() int {
	return len(st)
}
