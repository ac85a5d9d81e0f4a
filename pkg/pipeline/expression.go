package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrArity          = errors.New("wrong number of arguments")
	ErrUnknownOp      = errors.New("unknown operator")
)

// Expression is an integer expression over the current item.
type Expression struct {
	Op      string
	Args    []Expression
	Literal int64
}

var (
	unaryOps  = map[string]func(int64) int64{"@neg": neg, "@abs": abs, "@not": not}
	binaryOps = map[string]func(a, b int64) (int64, error){
		"@add": func(a, b int64) (int64, error) { return a + b, nil },
		"@sub": func(a, b int64) (int64, error) { return a - b, nil },
		"@mul": func(a, b int64) (int64, error) { return a * b, nil },
		"@div": func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		},
		"@mod": func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a % b, nil
		},
		"@eq":  func(a, b int64) (int64, error) { return boolInt(a == b), nil },
		"@ne":  func(a, b int64) (int64, error) { return boolInt(a != b), nil },
		"@lt":  func(a, b int64) (int64, error) { return boolInt(a < b), nil },
		"@lte": func(a, b int64) (int64, error) { return boolInt(a <= b), nil },
		"@gt":  func(a, b int64) (int64, error) { return boolInt(a > b), nil },
		"@gte": func(a, b int64) (int64, error) { return boolInt(a >= b), nil },
	}
)

func neg(a int64) int64 { return -a }
func not(a int64) int64 { return boolInt(a == 0) }

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e *Expression) UnmarshalJSON(b []byte) error {
	// try to unmarshal as a bool terminal expression
	bv := false
	if err := json.Unmarshal(b, &bv); err == nil {
		*e = Expression{Op: "@int", Literal: boolInt(bv)}
		return nil
	}

	// try to unmarshal as an int terminal expression
	var iv int64 = 0
	if err := json.Unmarshal(b, &iv); err == nil {
		*e = Expression{Op: "@int", Literal: iv}
		return nil
	}

	// "$" is the item itself
	sv := ""
	if err := json.Unmarshal(b, &sv); err == nil {
		if sv != "$" {
			return NewUnmarshalError("expression", sv)
		}
		*e = Expression{Op: "@item"}
		return nil
	}

	mv := []Expression{}
	if err := json.Unmarshal(b, &mv); err == nil {
		*e = Expression{Op: "@list", Args: mv}
		return nil
	}

	// an op has a single key that starts with @
	cv := map[string]Expression{}
	if err := json.Unmarshal(b, &cv); err == nil && len(cv) == 1 {
		for op, arg := range cv {
			if !strings.HasPrefix(op, "@") {
				break
			}
			*e = Expression{Op: op, Args: []Expression{arg}}
			if arg.Op == "@list" {
				e.Args = arg.Args
			}
			return e.validate()
		}
	}

	return NewUnmarshalError("expression", string(b))
}

func (e *Expression) validate() error {
	switch {
	case unaryOps[e.Op] != nil:
		if len(e.Args) != 1 {
			return NewExpressionError(e, ErrArity)
		}
	case binaryOps[e.Op] != nil:
		if len(e.Args) != 1 && len(e.Args) != 2 {
			return NewExpressionError(e, ErrArity)
		}
	case e.Op == "@and", e.Op == "@or", e.Op == "@min", e.Op == "@max":
		if len(e.Args) == 0 {
			return NewExpressionError(e, ErrArity)
		}
	default:
		return NewExpressionError(e, ErrUnknownOp)
	}
	return nil
}

// Evaluate computes the expression for item x. A binary operator with a single argument takes x
// as its left operand.
func (e *Expression) Evaluate(x int64) (int64, error) {
	switch e.Op {
	case "@int":
		return e.Literal, nil
	case "@item":
		return x, nil
	case "@and", "@or":
		for i := range e.Args {
			v, err := e.Args[i].Evaluate(x)
			if err != nil {
				return 0, err
			}
			if (v == 0) == (e.Op == "@and") {
				return boolInt(e.Op == "@or"), nil
			}
		}
		return boolInt(e.Op == "@and"), nil
	case "@min", "@max":
		var ret int64
		for i := range e.Args {
			v, err := e.Args[i].Evaluate(x)
			if err != nil {
				return 0, err
			}
			if i == 0 || (e.Op == "@min" && v < ret) || (e.Op == "@max" && v > ret) {
				ret = v
			}
		}
		return ret, nil
	}

	if f, ok := unaryOps[e.Op]; ok {
		v, err := e.Args[0].Evaluate(x)
		if err != nil {
			return 0, err
		}
		return f(v), nil
	}

	f, ok := binaryOps[e.Op]
	if !ok {
		return 0, NewExpressionError(e, ErrUnknownOp)
	}
	lhs, rhs := x, int64(0)
	var err error
	if len(e.Args) == 2 {
		if lhs, err = e.Args[0].Evaluate(x); err != nil {
			return 0, err
		}
	}
	if rhs, err = e.Args[len(e.Args)-1].Evaluate(x); err != nil {
		return 0, err
	}
	v, err := f(lhs, rhs)
	if err != nil {
		return 0, NewExpressionError(e, err)
	}
	return v, nil
}

// Func compiles the expression into a selector. Evaluation errors are logged and yield zero, as
// operator callbacks cannot fail.
func (e *Expression) Func(log logr.Logger) func(int64) int64 {
	return func(x int64) int64 {
		v, err := e.Evaluate(x)
		if err != nil {
			log.Error(err, "expression evaluation failed", "item", x)
			return 0
		}
		return v
	}
}

// Predicate compiles the expression into a filter: nonzero results keep the item.
func (e *Expression) Predicate(log logr.Logger) func(int64) bool {
	f := e.Func(log)
	return func(x int64) bool { return f(x) != 0 }
}

func (e *Expression) String() string {
	switch e.Op {
	case "@int":
		return fmt.Sprintf("%d", e.Literal)
	case "@item":
		return "$"
	}
	args := make([]string, len(e.Args))
	for i := range e.Args {
		args[i] = e.Args[i].String()
	}
	return fmt.Sprintf("%s(%s)", e.Op, strings.Join(args, ","))
}
