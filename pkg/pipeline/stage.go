package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	OpWhere    = "@where"
	OpSelect   = "@select"
	OpSort     = "@sort"
	OpWindow   = "@window"
	OpDistinct = "@distinct"
	OpGroupBy  = "@groupBy"
)

var ErrOrderedInput = errors.New("stage requires an ordered input")

// Window is the argument of a @window stage.
type Window struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

// Stage is a single pipeline step.
type Stage struct {
	Name string
	Op   string
	// Arg is the predicate, selector or key expression; nil means identity.
	Arg *Expression
	// Descending reverses a @sort.
	Descending bool
	Window     *Window
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return NewUnmarshalError("stage", string(b))
	}

	if name, ok := raw["name"]; ok {
		if err := json.Unmarshal(name, &s.Name); err != nil {
			return NewUnmarshalError("stage name", string(name))
		}
		delete(raw, "name")
	}

	if len(raw) != 1 {
		return NewUnmarshalError("stage", string(b))
	}
	for op, arg := range raw {
		s.Op = op
		return s.parseArg(arg)
	}
	return nil
}

func (s *Stage) parseArg(arg json.RawMessage) error {
	switch s.Op {
	case OpWhere, OpSelect, OpGroupBy:
		return s.parseExpression(arg)

	case OpDistinct:
		switch strings.TrimSpace(string(arg)) {
		case "", "null", "{}", "true":
			return nil
		}
		return s.parseExpression(arg)

	case OpSort:
		order := ""
		if err := json.Unmarshal(arg, &order); err == nil {
			switch order {
			case "asc":
			case "desc":
				s.Descending = true
			default:
				return NewUnmarshalError("sort order", order)
			}
			return nil
		}
		return s.parseExpression(arg)

	case OpWindow:
		w := Window{}
		if err := json.Unmarshal(arg, &w); err != nil {
			return NewUnmarshalError("window", string(arg))
		}
		s.Window = &w
		return nil
	}

	return NewUnmarshalError("stage op", s.Op)
}

func (s *Stage) parseExpression(arg json.RawMessage) error {
	e := Expression{}
	if err := json.Unmarshal(arg, &e); err != nil {
		return err
	}
	if e.Op == "@list" {
		return NewUnmarshalError(s.Op+" argument", string(arg))
	}
	s.Arg = &e
	return nil
}

// Ordered reports whether the stage produces an ordered output given the ordering of its input.
func (s *Stage) Ordered(input bool) bool {
	switch s.Op {
	case OpSort:
		return true
	case OpWhere, OpSelect, OpWindow:
		return input
	default:
		return false
	}
}

// Label is a short human-readable rendering of the stage.
func (s *Stage) Label() string {
	switch {
	case s.Window != nil:
		return fmt.Sprintf("%s(%d,%d)", s.Op, s.Window.Skip, s.Window.Take)
	case s.Arg != nil:
		return fmt.Sprintf("%s: %s", s.Op, s.Arg)
	case s.Op == OpSort && s.Descending:
		return s.Op + ": desc"
	case s.Op == OpSort:
		return s.Op + ": asc"
	}
	return s.Op
}
