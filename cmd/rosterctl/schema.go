package main

import (
	"fmt"

	"github.com/JonMunkholm/roster/internal/store"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the PostgreSQL DDL for the reference and members tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), store.New(nil, table).Schema())
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "members", "Name of the members table")
	return cmd
}
