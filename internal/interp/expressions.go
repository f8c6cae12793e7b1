package interp

import (
	"math"
	"strings"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/value"
	"github.com/steps-lang/steps/pkg/token"
)

// eval evaluates an expression to a runtime value.
func (i *Interpreter) eval(expr ast.Expression) (value.Value, *errors.Error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return value.NewNumber(e.Value), nil
	case *ast.TextLiteral:
		return value.NewText(e.Value), nil
	case *ast.BooleanLiteral:
		return value.NewBoolean(e.Value), nil
	case *ast.NothingLiteral:
		return value.NothingValue, nil
	case *ast.Identifier:
		v, ok := i.env.Get(e.Value)
		if !ok {
			return nil, undefinedName(e.Value, e.Pos())
		}
		return v, nil
	case *ast.ListLiteral:
		return i.evalListLiteral(e)
	case *ast.TableLiteral:
		return i.evalTableLiteral(e)
	case *ast.InputExpression:
		return i.evalInput(e)
	case *ast.UnaryExpression:
		return i.evalUnary(e)
	case *ast.BinaryExpression:
		return i.evalBinary(e)
	case *ast.ConversionExpression:
		return i.evalConversion(e)
	case *ast.DecimalFormatExpression:
		return i.evalDecimalFormat(e)
	case *ast.IndexExpression:
		return i.evalIndex(e)
	case *ast.LengthOfExpression:
		return i.evalLengthOf(e)
	case *ast.CharacterAtExpression:
		return i.evalCharacterAt(e)
	case *ast.TypeOfExpression:
		v, err := i.eval(e.Value)
		if err != nil {
			return nil, err
		}
		return value.NewText(string(v.Type())), nil
	case *ast.IsAExpression:
		v, err := i.eval(e.Value)
		if err != nil {
			return nil, err
		}
		return value.NewBoolean(string(v.Type()) == e.TypeName), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, expr.Pos(),
		"unhandled expression %T", expr)
}

func (i *Interpreter) evalListLiteral(e *ast.ListLiteral) (value.Value, *errors.Error) {
	list := value.NewList()
	for _, elem := range e.Elements {
		v, err := i.eval(elem)
		if err != nil {
			return nil, err
		}
		list.Add(v)
	}
	return list, nil
}

func (i *Interpreter) evalTableLiteral(e *ast.TableLiteral) (value.Value, *errors.Error) {
	table := value.NewTable()
	for n := range e.Keys {
		k, err := i.eval(e.Keys[n])
		if err != nil {
			return nil, err
		}
		key, ok := k.(*value.Text)
		if !ok {
			return nil, errors.New(errors.Type, errors.CodeBadIndexKind, e.Keys[n].Pos(),
				"table keys are text, got %s", k.Type())
		}
		v, err := i.eval(e.Values[n])
		if err != nil {
			return nil, err
		}
		table.Set(key.Value, v)
	}
	return table, nil
}

// evalInput reads one line through the injected hook. Host failures are
// uncatchable; a failed "input as number" conversion is catchable.
func (i *Interpreter) evalInput(e *ast.InputExpression) (value.Value, *errors.Error) {
	if i.env.hooks.ReadLine == nil {
		return nil, errors.NewHostFailure(e.Pos(), errNoInput)
	}
	line, err := i.env.hooks.ReadLine()
	if err != nil {
		return nil, errors.NewHostFailure(e.Pos(), err)
	}
	line = strings.TrimRight(line, "\r\n")

	switch e.AsType {
	case "", "text":
		return value.NewText(line), nil
	case "number":
		f, ok := value.ParseNumber(line)
		if !ok {
			return nil, conversionError(value.NewText(line), "number", e.Pos())
		}
		return value.NewNumber(f), nil
	case "boolean":
		return value.NewBoolean(value.Truthy(value.NewText(line))), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, e.Pos(),
		"unhandled input conversion %q", e.AsType)
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpression) (value.Value, *errors.Error) {
	v, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		num, ok := v.(*value.Number)
		if !ok {
			return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Pos(),
				"cannot negate a %s", v.Type()).
				WithHint("convert with \"as number\" first")
		}
		return value.NewNumber(-num.Value), nil
	case "not":
		return value.NewBoolean(!value.Truthy(v)), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, e.Pos(),
		"unhandled unary operator %q", e.Operator)
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpression) (value.Value, *errors.Error) {
	// and/or short-circuit: the right operand only evaluates when needed.
	if e.Operator == "and" || e.Operator == "or" {
		left, err := i.eval(e.Left)
		if err != nil {
			return nil, err
		}
		truthy := value.Truthy(left)
		if e.Operator == "and" && !truthy {
			return value.False, nil
		}
		if e.Operator == "or" && truthy {
			return value.True, nil
		}
		right, err := i.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return value.NewBoolean(value.Truthy(right)), nil
	}

	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "+", "-", "*", "/":
		return evalArithmetic(e.Operator, left, right, e.Pos())
	case "is equal to", "equals":
		return value.NewBoolean(value.Equals(left, right)), nil
	case "is not equal to":
		return value.NewBoolean(!value.Equals(left, right)), nil
	case "is less than", "is less than or equal to", "is greater than", "is greater than or equal to":
		return evalOrdering(e.Operator, left, right, e.Pos())
	case "added to":
		return evalAddedTo(left, right, e.Pos())
	case "contains":
		return evalTextPredicate("contains", left, right, e.Pos(), strings.Contains)
	case "starts with":
		return evalTextPredicate("starts with", left, right, e.Pos(), strings.HasPrefix)
	case "ends with":
		return evalTextPredicate("ends with", left, right, e.Pos(), strings.HasSuffix)
	case "split by":
		return evalSplitBy(left, right, e.Pos())
	case "is in":
		return evalIsIn(left, right, e.Pos())
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, e.Pos(),
		"unhandled operator %q", e.Operator)
}

func evalArithmetic(op string, left, right value.Value, pos token.Position) (value.Value, *errors.Error) {
	ln, lok := left.(*value.Number)
	rn, rok := right.(*value.Number)
	if !lok || !rok {
		err := errors.New(errors.Type, errors.CodeWrongOperand, pos,
			"cannot apply %q to %s and %s", op, left.Type(), right.Type())
		if op == "+" && (left.Type() == value.TextType || right.Type() == value.TextType) {
			return nil, err.WithHint("use \"added to\" to join text, or \"as number\" to convert")
		}
		return nil, err.WithHint("arithmetic needs numbers; convert with \"as number\"")
	}
	switch op {
	case "+":
		return value.NewNumber(ln.Value + rn.Value), nil
	case "-":
		return value.NewNumber(ln.Value - rn.Value), nil
	case "*":
		return value.NewNumber(ln.Value * rn.Value), nil
	case "/":
		if rn.Value == 0 {
			return nil, errors.New(errors.Runtime, errors.CodeDivisionByZero, pos,
				"division by zero")
		}
		return value.NewNumber(ln.Value / rn.Value), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, pos, "unhandled arithmetic %q", op)
}

func evalOrdering(op string, left, right value.Value, pos token.Position) (value.Value, *errors.Error) {
	var cmp int
	switch l := left.(type) {
	case *value.Number:
		r, ok := right.(*value.Number)
		if !ok {
			return nil, orderingError(op, left, right, pos)
		}
		switch {
		case l.Value < r.Value:
			cmp = -1
		case l.Value > r.Value:
			cmp = 1
		}
	case *value.Text:
		r, ok := right.(*value.Text)
		if !ok {
			return nil, orderingError(op, left, right, pos)
		}
		cmp = strings.Compare(l.Value, r.Value)
	default:
		return nil, orderingError(op, left, right, pos)
	}

	switch op {
	case "is less than":
		return value.NewBoolean(cmp < 0), nil
	case "is less than or equal to":
		return value.NewBoolean(cmp <= 0), nil
	case "is greater than":
		return value.NewBoolean(cmp > 0), nil
	case "is greater than or equal to":
		return value.NewBoolean(cmp >= 0), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, pos, "unhandled ordering %q", op)
}

func orderingError(op string, left, right value.Value, pos token.Position) *errors.Error {
	return errors.New(errors.Type, errors.CodeWrongOperand, pos,
		"cannot compare %s with %s using %q", left.Type(), right.Type(), op).
		WithHint("ordered comparison works between two numbers or two texts")
}

func evalAddedTo(left, right value.Value, pos token.Position) (value.Value, *errors.Error) {
	lt, lok := left.(*value.Text)
	rt, rok := right.(*value.Text)
	if !lok || !rok {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
			"\"added to\" joins text, got %s and %s", left.Type(), right.Type()).
			WithHint("convert with \"as text\" first")
	}
	return value.NewText(lt.Value + rt.Value), nil
}

func evalTextPredicate(op string, left, right value.Value, pos token.Position, pred func(string, string) bool) (value.Value, *errors.Error) {
	lt, lok := left.(*value.Text)
	rt, rok := right.(*value.Text)
	if !lok || !rok {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
			"%q works on text, got %s and %s", op, left.Type(), right.Type())
	}
	return value.NewBoolean(pred(lt.Value, rt.Value)), nil
}

func evalSplitBy(left, right value.Value, pos token.Position) (value.Value, *errors.Error) {
	lt, lok := left.(*value.Text)
	rt, rok := right.(*value.Text)
	if !lok || !rok {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
			"\"split by\" works on text, got %s and %s", left.Type(), right.Type())
	}
	parts := strings.Split(lt.Value, rt.Value)
	list := value.NewList()
	for _, part := range parts {
		list.Add(value.NewText(part))
	}
	return list, nil
}

// evalIsIn implements membership: element in list, substring in text, or
// key in table.
func evalIsIn(left, right value.Value, pos token.Position) (value.Value, *errors.Error) {
	switch container := right.(type) {
	case *value.List:
		return value.NewBoolean(container.Contains(left)), nil
	case *value.Text:
		needle, ok := left.(*value.Text)
		if !ok {
			return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
				"\"is in\" on text needs a text to search for, got %s", left.Type())
		}
		return value.NewBoolean(strings.Contains(container.Value, needle.Value)), nil
	case *value.Table:
		key, ok := left.(*value.Text)
		if !ok {
			return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
				"\"is in\" on a table needs a text key, got %s", left.Type())
		}
		_, found := container.Get(key.Value)
		return value.NewBoolean(found), nil
	}
	return nil, errors.New(errors.Type, errors.CodeWrongOperand, pos,
		"\"is in\" needs a list, text or table on the right, got %s", right.Type())
}

// evalConversion implements the postfix "as <type>" operator.
func (i *Interpreter) evalConversion(e *ast.ConversionExpression) (value.Value, *errors.Error) {
	v, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	switch e.Target {
	case "number":
		switch tv := v.(type) {
		case *value.Number:
			return tv, nil
		case *value.Text:
			f, ok := value.ParseNumber(tv.Value)
			if !ok {
				return nil, conversionError(v, "number", e.Pos())
			}
			return value.NewNumber(f), nil
		default:
			return nil, conversionError(v, "number", e.Pos())
		}
	case "text":
		return value.NewText(v.Display()), nil
	case "boolean":
		return value.NewBoolean(value.Truthy(v)), nil
	}
	return nil, errors.New(errors.Internal, errors.CodeInternal, e.Pos(),
		"unhandled conversion target %q", e.Target)
}

func conversionError(v value.Value, target string, pos token.Position) *errors.Error {
	return errors.New(errors.Type, errors.CodeBadConversion, pos,
		"cannot convert %s to %s", v.Inspect(), target)
}

func (i *Interpreter) evalDecimalFormat(e *ast.DecimalFormatExpression) (value.Value, *errors.Error) {
	v, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	num, ok := v.(*value.Number)
	if !ok {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Pos(),
			"as decimal works on numbers, got %s", v.Type())
	}
	d, err := i.eval(e.Digits)
	if err != nil {
		return nil, err
	}
	digits, ok := d.(*value.Number)
	if !ok || digits.Value < 0 || digits.Value != math.Trunc(digits.Value) {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Digits.Pos(),
			"decimal places must be a non-negative whole number")
	}
	return value.NewText(value.FormatDecimal(num.Value, int(digits.Value))), nil
}

func (i *Interpreter) evalIndex(e *ast.IndexExpression) (value.Value, *errors.Error) {
	container, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	idx, err := i.eval(e.Index)
	if err != nil {
		return nil, err
	}

	switch c := container.(type) {
	case *value.List:
		n, err := listIndex(idx, len(c.Elements), e.Index.Pos())
		if err != nil {
			return nil, err
		}
		return c.Elements[n], nil
	case *value.Table:
		key, ok := idx.(*value.Text)
		if !ok {
			return nil, errors.New(errors.Type, errors.CodeBadIndexKind, e.Index.Pos(),
				"table keys are text, got %s", idx.Type())
		}
		v, found := c.Get(key.Value)
		if !found {
			return nil, errors.New(errors.Runtime, errors.CodeKeyNotFound, e.Index.Pos(),
				"the table has no key %q", key.Value).
				WithHint("check with \"is in\" before looking a key up")
		}
		return v, nil
	}
	return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Pos(),
		"a %s cannot be indexed", container.Type()).
		WithHint("use \"character at\" to pick characters out of text")
}

func (i *Interpreter) evalLengthOf(e *ast.LengthOfExpression) (value.Value, *errors.Error) {
	v, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case *value.Text:
		return value.NewNumber(float64(len([]rune(c.Value)))), nil
	case *value.List:
		return value.NewNumber(float64(c.Len())), nil
	case *value.Table:
		return value.NewNumber(float64(c.Len())), nil
	}
	return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Pos(),
		"length of works on text, lists and tables, got %s", v.Type())
}

func (i *Interpreter) evalCharacterAt(e *ast.CharacterAtExpression) (value.Value, *errors.Error) {
	idx, err := i.eval(e.Index)
	if err != nil {
		return nil, err
	}
	v, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	text, ok := v.(*value.Text)
	if !ok {
		return nil, errors.New(errors.Type, errors.CodeWrongOperand, e.Value.Pos(),
			"character at works on text, got %s", v.Type())
	}
	runes := []rune(text.Value)
	n, lerr := listIndex(idx, len(runes), e.Index.Pos())
	if lerr != nil {
		if lerr.Code == errors.CodeIndexRange {
			return nil, errors.New(errors.Runtime, errors.CodeIndexRange, e.Index.Pos(),
				"position %s is outside the text (it has %d characters)", idx.Display(), len(runes))
		}
		return nil, lerr
	}
	return value.NewText(string(runes[n])), nil
}
