package pipeline

import (
	"fmt"
)

type ErrPipeline = error

func NewPipelineError(err error) ErrPipeline {
	return fmt.Errorf("failed to build pipeline: %w", err)
}

type ErrStage = error

func NewStageError(stage string, err error) ErrStage {
	return fmt.Errorf("invalid stage %q: %w", stage, err)
}

type ErrScenario = error

func NewScenarioError(step int, err error) ErrScenario {
	return fmt.Errorf("scenario step %d failed: %w", step, err)
}

type ErrUnmarshal = error

func NewUnmarshalError(kind, content string) ErrUnmarshal {
	return fmt.Errorf("JSON parsing error in %s at %q", kind, content)
}

type ErrExpression = error

func NewExpressionError(e *Expression, err error) ErrExpression {
	return fmt.Errorf("failed to evaluate expression %s: %w", e, err)
}
