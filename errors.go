package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOption matches errors raised for option names missing from
	// the default mapping.
	ErrInvalidOption = errors.New("settings: invalid option")
	// ErrOptionType matches errors raised by typed accessors.
	ErrOptionType = errors.New("settings: unexpected option type")
)

// InvalidOptionError reports a lookup for an option that has no default. It
// signals a programming error such as a misspelled name.
type InvalidOptionError struct {
	Name string
}

func (e *InvalidOptionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: invalid JSON:API setting %q", e.Name)
}

// Is lets errors.Is match ErrInvalidOption.
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// OptionTypeError reports a resolved value that cannot be represented as the
// requested type.
type OptionTypeError struct {
	Name  string
	Want  string
	Value any
}

func (e *OptionTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: option %q holds %T, want %s", e.Name, e.Value, e.Want)
}

// Is lets errors.Is match ErrOptionType.
func (e *OptionTypeError) Is(target error) bool {
	return target == ErrOptionType
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("settings: %s evaluator %s: %v", e.Engine, expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	if strings.HasPrefix(err.Error(), "settings:") {
		return err
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}
