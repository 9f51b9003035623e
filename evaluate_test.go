package settings

import (
	"errors"
	"testing"
	"time"
)

func newEvaluationSettings(opts ...Option) *Settings {
	source := NewMemorySource(map[string]any{
		"JSON_API_FORMAT_TYPES":    "dasherize",
		"JSON_API_PLURALIZE_TYPES": true,
	})
	return NewJSONAPI(source, opts...)
}

func TestEvaluateWithEngines(t *testing.T) {
	engines := map[string]Evaluator{
		"expr":        NewExprEvaluator(),
		"expr-cached": NewExprEvaluator(ExprWithProgramCache(NewProgramCache(time.Minute))),
		"cel":         NewCELEvaluator(),
		"cel-cached":  NewCELEvaluator(CELWithProgramCache(NewProgramCache(0))),
	}
	if jsEvaluatorAvailable() {
		engines["js"] = NewJSEvaluator(JSWithProgramCache(NewProgramCache(0)))
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			s := newEvaluationSettings(WithEvaluator(engine))
			for i := 0; i < 2; i++ {
				ok, err := s.EvaluateBool(`FORMAT_TYPES == "dasherize" && PLURALIZE_TYPES`)
				if err != nil {
					t.Fatalf("evaluate: %v", err)
				}
				if !ok {
					t.Fatalf("expected predicate to hold")
				}
			}
			ok, err := s.EvaluateBool(`UNIFORM_EXCEPTIONS`)
			if err != nil || ok {
				t.Fatalf("expected default false, got %v err=%v", ok, err)
			}
		})
	}
}

func TestEvaluateDefaultsToExpr(t *testing.T) {
	s := newEvaluationSettings(WithProgramCache(NewProgramCache(time.Minute)))
	value, err := s.Evaluate(`FORMAT_TYPES + "-x"`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if value != "dasherize-x" {
		t.Fatalf("unexpected value %v", value)
	}
}

func TestEvaluateErrors(t *testing.T) {
	s := newEvaluationSettings()

	if _, err := s.Evaluate(""); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected empty expression error, got %v", err)
	}

	_, err := s.Evaluate(`FORMAT_TYPES ==`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T %v", err, err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != `FORMAT_TYPES ==` {
		t.Fatalf("unexpected error metadata %+v", evalErr)
	}

	_, err = s.EvaluateBool(`FORMAT_TYPES`)
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected non-bool result to fail, got %v", err)
	}
}

func TestProgramCacheExpiry(t *testing.T) {
	cache := NewProgramCache(time.Millisecond)
	cache.Set("k", 1)
	if value, ok := cache.Get("k"); !ok || value != 1 {
		t.Fatalf("expected cached value, got %v %v", value, ok)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}

	forever := NewProgramCache(0)
	forever.Set("k", 2)
	if value, ok := forever.Get("k"); !ok || value != 2 {
		t.Fatalf("expected non-expiring entry, got %v %v", value, ok)
	}
}
