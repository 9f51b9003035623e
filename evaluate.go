package settings

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when Evaluate receives an empty expression.
var ErrEmptyExpression = errors.New("settings: expression must not be empty")

// Evaluator runs a predicate expression against the effective settings.
// Option names are exposed as top-level variables.
type Evaluator interface {
	Engine() string
	Evaluate(env map[string]any, expression string) (any, error)
}

// Evaluate resolves every option and runs expression against the result,
// for example `FORMAT_TYPES == "dasherize" && PLURALIZE_TYPES`.
func (s *Settings) Evaluate(expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	evaluator := s.evaluator()
	value, err := evaluator.Evaluate(snapshot, expression)
	if err != nil {
		return nil, wrapEvaluationError(evaluator.Engine(), expression, err)
	}
	return value, nil
}

// EvaluateBool is Evaluate for predicates.
func (s *Settings) EvaluateBool(expression string) (bool, error) {
	value, err := s.Evaluate(expression)
	if err != nil {
		return false, err
	}
	result, ok := value.(bool)
	if !ok {
		return false, &EvaluationError{
			Engine: s.evaluator().Engine(),
			Expr:   expression,
			Err:    fmt.Errorf("result %T is not a bool", value),
		}
	}
	return result, nil
}

func (s *Settings) evaluator() Evaluator {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator
	}
	var opts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		opts = append(opts, ExprWithProgramCache(s.cfg.programCache))
	}
	return NewExprEvaluator(opts...)
}
