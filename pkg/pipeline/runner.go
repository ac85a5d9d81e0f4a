package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-logr/logr"

	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/util"
	"github.com/l7mp/rcollections/pkg/zset"
)

var (
	ErrNotFound         = errors.New("item not found")
	ErrUnexpectedResult = errors.New("unexpected result")
)

// Runner replays a scenario against its view.
type Runner struct {
	scenario *Scenario
	source   *collection.MutableList[int64]
	view     *View
	log      logr.Logger
}

// NewRunner creates the source list and builds the view of a validated scenario.
func NewRunner(s *Scenario, log logr.Logger) (*Runner, error) {
	log = log.WithName(s.Name)
	source := collection.NewMutableList(s.Initial...)
	view, err := NewView(source, s.Pipeline, log)
	if err != nil {
		return nil, err
	}
	return &Runner{scenario: s, source: source, view: view, log: log}, nil
}

func (r *Runner) Source() *collection.MutableList[int64] { return r.source }

func (r *Runner) View() *View { return r.view }

// Run applies the steps in order. OnStep, if not nil, is called before each step.
func (r *Runner) Run(ctx context.Context, onStep func(i int, step *Step)) error {
	for i := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := &r.scenario.Steps[i]
		if onStep != nil {
			onStep(i, step)
		}
		r.log.V(2).Info("applying step", "step", i, "kind", step.Kind())
		if err := r.apply(step); err != nil {
			return NewScenarioError(i, err)
		}
		r.log.V(4).Info("step ready", "step", i, "result", util.Stringify(r.view.Items()))
	}
	return nil
}

func (r *Runner) apply(s *Step) error {
	switch {
	case s.Add != nil:
		r.source.Add(*s.Add)
	case s.Remove != nil:
		if !r.source.Remove(*s.Remove) {
			return fmt.Errorf("remove %d: %w", *s.Remove, ErrNotFound)
		}
	case s.Insert != nil:
		return r.source.Insert(s.Insert.Index, s.Insert.Value)
	case s.RemoveAt != nil:
		return r.source.RemoveAt(*s.RemoveAt)
	case s.Set != nil:
		return r.source.Set(s.Set.Index, s.Set.Value)
	case s.Move != nil:
		return r.source.Move(s.Move.From, s.Move.To)
	case s.Clear:
		r.source.Clear()
	case s.Reset != nil:
		r.source.Reset(*s.Reset)
	case s.Skip != nil || s.Take != nil:
		return r.view.SetWindow(s.Skip, s.Take)
	case s.Transaction != nil:
		return r.transaction(s.Transaction)
	default:
		return ErrInvalidStep
	}
	return nil
}

// transaction commits the steps applied so far even if a later one fails.
func (r *Runner) transaction(steps []Step) error {
	tx, err := r.source.Transaction()
	if err != nil {
		return err
	}
	defer tx.Close()
	for i := range steps {
		if err := r.apply(&steps[i]); err != nil {
			return fmt.Errorf("transaction step %d: %w", i, err)
		}
	}
	return nil
}

// Verify compares the output with the expected result of the scenario, if any.
func (r *Runner) Verify() error {
	if r.scenario.Expected == nil {
		return nil
	}
	got, expected := r.view.Items(), *r.scenario.Expected
	equal := zset.FromSlice(got).Equal(zset.FromSlice(expected))
	if r.view.Ordered() {
		equal = slices.Equal(got, expected)
	}
	if !equal {
		return fmt.Errorf("%w: got %v, expected %v", ErrUnexpectedResult, got, expected)
	}
	return nil
}

// Stop detaches the view from the source.
func (r *Runner) Stop() { r.view.Stop() }
