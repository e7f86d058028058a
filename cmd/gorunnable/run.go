package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/runnable"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var (
		input string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "run <pipeline>",
		Short: "Invoke a pipeline once and print its output as JSON",
		Example: `  gorunnable run rivalry --input '{"teams": "East Bengal and Mohun Bagan", "tournament": "IFA Shield"}'
  echo '{"topic": "Russia Ukraine Conflict"}' | gorunnable run topic_summary --input -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(ctx) }()

			stage, ok := a.catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown pipeline %q (available: %s)", args[0], strings.Join(a.catalog.Names(), ", "))
			}

			ctx = logger.ContextWithRunID(ctx, uuid.NewString())
			out, err := runnable.Invoke(ctx, stage, in)
			if err != nil {
				return fmt.Errorf("pipeline %s failed: %w", args[0], err)
			}
			return writeOutput(cmd.OutOrStdout(), out, raw)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", `Pipeline input as JSON, or "-" to read it from stdin`)
	cmd.Flags().BoolVar(&raw, "raw", false, "Print text output without JSON quoting")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func parseInput(input string, stdin io.Reader) (runnable.Value, error) {
	data := []byte(input)
	if input == "-" {
		var err error
		if data, err = io.ReadAll(stdin); err != nil {
			return runnable.Value{}, fmt.Errorf("reading input: %w", err)
		}
	}
	var v runnable.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return runnable.Value{}, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return v, nil
}

func writeOutput(w io.Writer, out runnable.Value, raw bool) error {
	if s, ok := out.AsText(); ok && raw {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
