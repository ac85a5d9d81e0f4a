package pipeline

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"

	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
	"github.com/l7mp/rcollections/pkg/operator"
	"github.com/l7mp/rcollections/pkg/util"
)

var (
	ErrNoWindow        = errors.New("pipeline has no @window stage")
	ErrMultipleWindows = errors.New("at most one @window stage is allowed")
	ErrDuplicateName   = errors.New("duplicate stage name")
)

// ValidateStages assigns default names to unnamed stages and checks that the stages can be
// chained onto an ordered source.
func ValidateStages(stages []Stage) error {
	names := mapset.NewThreadUnsafeSet[string]()
	ordered, windows := true, 0
	for i := range stages {
		s := &stages[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("%s-%d", strings.TrimPrefix(s.Op, "@"), i)
		}
		if !names.Add(s.Name) {
			return NewStageError(s.Name, ErrDuplicateName)
		}

		switch s.Op {
		case OpWhere, OpSelect, OpGroupBy:
			if s.Arg == nil {
				return NewStageError(s.Name, fmt.Errorf("%s requires an expression", s.Op))
			}
		case OpWindow:
			if windows++; windows > 1 {
				return NewStageError(s.Name, ErrMultipleWindows)
			}
			if !ordered {
				return NewStageError(s.Name, ErrOrderedInput)
			}
		case OpSort, OpDistinct:
		default:
			return NewStageError(s.Name, ErrUnknownOp)
		}
		ordered = s.Ordered(ordered)
	}
	return nil
}

// View is a chain of operators built from a list of stages.
type View struct {
	stages     []Stage
	list       operator.ListChain[int64]
	coll       operator.CollectionChain[int64]
	ordered    bool
	skip, take *observable.Value[int]
	log        logr.Logger
}

// NewView builds the stages on top of src.
func NewView(src collection.List[int64], stages []Stage, log logr.Logger) (*View, error) {
	if err := ValidateStages(stages); err != nil {
		return nil, NewPipelineError(err)
	}

	v := &View{
		stages:  stages,
		list:    operator.FromList(src),
		ordered: true,
		log:     log,
	}
	for i := range stages {
		v.add(&stages[i])
	}

	labels := util.Map(func(s Stage) string { return s.Label() }, stages)
	v.log.V(1).Info("view ready", "stages", strings.Join(labels, " -> "), "ordered", v.ordered)

	return v, nil
}

func (v *View) unordered() operator.CollectionChain[int64] {
	if v.ordered {
		v.coll, v.ordered = v.list.AsCollection(), false
	}
	return v.coll
}

func (v *View) add(s *Stage) {
	log := v.log.WithName(s.Name)

	switch s.Op {
	case OpWhere:
		if v.ordered {
			v.list = v.list.Where(s.Arg.Predicate(log), nil)
		} else {
			v.coll = v.coll.Where(s.Arg.Predicate(log), nil)
		}

	case OpSelect:
		if v.ordered {
			v.list = operator.ChainListSelect(v.list, s.Arg.Func(log), nil)
		} else {
			v.coll = operator.ChainSelect(v.coll, s.Arg.Func(log), nil)
		}

	case OpSort:
		key, compare := identity, cmp.Compare[int64]
		if s.Arg != nil {
			key = s.Arg.Func(log)
		}
		if s.Descending {
			compare = func(a, b int64) int { return cmp.Compare(b, a) }
		}
		v.list, v.ordered = operator.ChainSort(v.unordered(), key, compare, nil), true

	case OpWindow:
		v.skip, v.take = observable.NewValue(s.Window.Skip), observable.NewValue(s.Window.Take)
		v.list = v.list.Window(v.skip, v.take)

	case OpDistinct:
		if s.Arg == nil {
			v.coll = v.unordered().Distinct()
		} else {
			v.coll = operator.ChainDistinct(v.unordered(), s.Arg.Func(log), nil)
		}

	case OpGroupBy:
		groups := operator.ChainGroupBy(v.unordered(), s.Arg.Func(log), nil)
		v.coll = operator.ChainSelect(groups, groupKey, nil)
	}
}

func identity(x int64) int64 { return x }

func groupKey(g *operator.Group[int64, int64]) int64 { return g.Key() }

// Collection returns the output of the view.
func (v *View) Collection() collection.Collection[int64] {
	if v.ordered {
		return v.list
	}
	return v.coll
}

// List returns the output of the view if it is ordered.
func (v *View) List() (collection.List[int64], bool) {
	if v.ordered {
		return v.list, true
	}
	return nil, false
}

func (v *View) Items() []int64 { return v.Collection().Items() }

func (v *View) Ordered() bool { return v.ordered }

func (v *View) Stages() []Stage { return v.stages }

// Operators returns the operators of the view in creation order.
func (v *View) Operators() []operator.Operator {
	if v.ordered {
		return v.list.Stages()
	}
	return v.coll.Stages()
}

// SetWindow updates the bounds of the @window stage; nil leaves a bound unchanged.
func (v *View) SetWindow(skip, take *int) error {
	if v.skip == nil {
		return ErrNoWindow
	}
	if skip != nil {
		v.skip.Set(*skip)
	}
	if take != nil {
		v.take.Set(*take)
	}
	return nil
}

// Stop detaches every operator of the view.
func (v *View) Stop() {
	if v.ordered {
		v.list.Stop()
	} else {
		v.coll.Stop()
	}
}
