package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/kernz"
	"github.com/zoobzio/kernz/internal/vector"
	"github.com/zoobzio/kernz/logging"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [ints...]",
		Short: "Run the vector pipeline on a list of integers",
		Long: `Run the vector pipeline once. Integers given as arguments replace the
config file's input.

Example:
  kernz run --subtract 2 2 3 4   # prints 3
  kernz run --subtract 2 2 1 4   # fails at stage non-negative`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Input, err = parseInts(args)
				if err != nil {
					return err
				}
			}

			typed, err := vector.Pipeline(cfg.Subtract)
			if err != nil {
				return err
			}
			defer typed.Close() //nolint:errcheck

			if err := logging.Attach(typed.Pipeline(), opts.logger); err != nil {
				return err
			}

			out, err := typed.Process(cmd.Context(), &cfg.Input)
			if err != nil {
				var runErr *kernz.Error
				if errors.As(err, &runErr) {
					opts.logger.Debug("run failed",
						zap.Int("stage", runErr.Stage),
						zap.Error(runErr.Err),
					)
				}
				return fmt.Errorf("pipeline failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), *out)
			return nil
		},
	}
}

func parseInts(args []string) ([]int, error) {
	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}
