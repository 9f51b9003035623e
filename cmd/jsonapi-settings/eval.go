package main

import (
	"fmt"

	"github.com/spf13/cobra"

	settings "github.com/goliatone/go-jsonapi-settings"
)

func newEvalCmd(flags *globalFlags) *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "eval EXPRESSION",
		Short: "Evaluate an expression against the effective options",
		Example: `  jsonapi-settings eval 'FORMAT_TYPES == "dasherize" && PLURALIZE_TYPES'
  jsonapi-settings eval --engine cel 'UNIFORM_EXCEPTIONS'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, src, err := openResolver(cmd, flags)
			if err != nil {
				return err
			}
			defer src.close()
			defer resolver.Close()

			evaluator, err := evaluatorFor(engine)
			if err != nil {
				return err
			}
			snapshot, err := resolver.Snapshot()
			if err != nil {
				return err
			}
			value, err := evaluator.Evaluate(snapshot, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "expr", "Expression engine (expr, cel, js)")
	return cmd
}

func evaluatorFor(engine string) (settings.Evaluator, error) {
	switch engine {
	case "expr":
		return settings.NewExprEvaluator(), nil
	case "cel":
		return settings.NewCELEvaluator(), nil
	case "js":
		if evaluator := settings.NewJSEvaluator(); evaluator != nil {
			return evaluator, nil
		}
		return nil, fmt.Errorf("js engine requires building with -tags js_eval")
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
