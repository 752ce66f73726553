package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/kernz"
	"github.com/zoobzio/kernz/internal/vector"
)

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the vector pipeline schema as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			typed, err := vector.Pipeline(cfg.Subtract)
			if err != nil {
				return err
			}
			defer typed.Close() //nolint:errcheck

			data, err := json.MarshalIndent(kernz.NewSchema(typed.Schema()), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
