package pipeline

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

var ErrInvalidStep = errors.New("a step must specify exactly one mutation")

// Scenario is a pipeline together with a source list and a sequence of mutations to replay.
type Scenario struct {
	Name     string  `json:"name"`
	Initial  []int64 `json:"initial,omitempty"`
	Pipeline []Stage `json:"pipeline"`
	Steps    []Step  `json:"steps,omitempty"`
	// Expected is the output after the last step. It is compared in order if the output is
	// ordered, and as a multiset otherwise.
	Expected *[]int64 `json:"expected,omitempty"`
}

type IndexValue struct {
	Index int   `json:"index"`
	Value int64 `json:"value"`
}

type Move struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Step is a single mutation of the source list or the window bounds.
type Step struct {
	Add      *int64      `json:"add,omitempty"`
	Remove   *int64      `json:"remove,omitempty"`
	Insert   *IndexValue `json:"insert,omitempty"`
	RemoveAt *int        `json:"removeAt,omitempty"`
	Set      *IndexValue `json:"set,omitempty"`
	Move     *Move       `json:"move,omitempty"`
	Clear    bool        `json:"clear,omitempty"`
	Reset    *[]int64    `json:"reset,omitempty"`
	Skip     *int        `json:"skip,omitempty"`
	Take     *int        `json:"take,omitempty"`
	// Transaction applies the nested steps to the source as a single batch.
	Transaction []Step `json:"transaction,omitempty"`
}

// Kind returns the name of the mutation.
func (s *Step) Kind() string {
	switch {
	case s.Add != nil:
		return "add"
	case s.Remove != nil:
		return "remove"
	case s.Insert != nil:
		return "insert"
	case s.RemoveAt != nil:
		return "removeAt"
	case s.Set != nil:
		return "set"
	case s.Move != nil:
		return "move"
	case s.Clear:
		return "clear"
	case s.Reset != nil:
		return "reset"
	case s.Skip != nil || s.Take != nil:
		return "window"
	case s.Transaction != nil:
		return "transaction"
	}
	return "unknown"
}

func (s *Step) validate() error {
	n := 0
	for _, set := range []bool{s.Add != nil, s.Remove != nil, s.Insert != nil, s.RemoveAt != nil,
		s.Set != nil, s.Move != nil, s.Clear, s.Reset != nil, s.Skip != nil || s.Take != nil,
		s.Transaction != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return ErrInvalidStep
	}
	for i := range s.Transaction {
		if err := s.Transaction[i].validate(); err != nil {
			return fmt.Errorf("transaction step %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the pipeline and the steps.
func (s *Scenario) Validate() error {
	if err := ValidateStages(s.Pipeline); err != nil {
		return NewPipelineError(err)
	}
	for i := range s.Steps {
		if err := s.Steps[i].validate(); err != nil {
			return NewScenarioError(i, err)
		}
	}
	return nil
}

// Load parses and validates a YAML scenario.
func Load(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads a scenario from a file.
func LoadFile(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %q: %w", path, err)
	}
	return Load(b)
}
