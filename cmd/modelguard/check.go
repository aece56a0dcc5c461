package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deppfellow/go-modelguard/internal/api"
	"github.com/deppfellow/go-modelguard/internal/lib/utils"
	"github.com/deppfellow/go-modelguard/internal/model"
	"github.com/deppfellow/go-modelguard/internal/validation"
)

type checkOptions struct {
	model        string
	detectCycles bool
	maxDepth     int
}

func newCheckCmd() *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check --model <name> [file|-]",
		Short: "Decode a JSON document into a model and validate it",
		Long: `Decode a JSON document into the named model and validate it.

The validated model is printed as JSON. Exit codes:
  1  a mandatory field is missing or a value rule failed
  2  the model definition is broken
  3  unknown model, unreadable input or malformed JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return check(cmd, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "registered model name (see `modelguard models`)")
	cmd.Flags().BoolVar(&opts.detectCycles, "detect-cycles", true, "skip models already being validated on the current path")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", model.DefaultMaxDepth, "maximum nesting depth")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func check(cmd *cobra.Command, opts checkOptions, path string) error {
	factory, ok := api.Lookup(opts.model)
	if !ok {
		return &exitError{code: exitInput, err: errors.Errorf("unknown model %q", opts.model)}
	}

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return &exitError{code: exitInput, err: errors.Wrap(err, "open input")}
		}
		defer f.Close()
		in = f
	}

	m := factory()
	if err := json.NewDecoder(in).Decode(m); err != nil {
		return &exitError{code: exitInput, err: errors.Wrap(err, "decode input")}
	}

	v := model.NewValidator(
		model.WithCycleDetection(opts.detectCycles),
		model.WithMaxDepth(opts.maxDepth),
	)

	if err := validation.Check(v, m); err != nil {
		return checkFailure(err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ok\n", m.ModelType().Name)
	return utils.PrintJSON(cmd.OutOrStdout(), m)
}

// checkFailure maps a validation error to the exit code contract. The message
// printed is the one from the model error, not the HTTP translation.
func checkFailure(err error) error {
	var missing *model.RequiredFieldMissingError
	var definition *model.DefinitionError

	switch {
	case errors.As(err, &missing):
		return &exitError{code: exitMissingField, err: missing}
	case errors.As(err, &definition):
		return &exitError{code: exitDefinition, err: definition}
	default:
		return &exitError{code: exitMissingField, err: err}
	}
}
