package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "Preview and import roster spreadsheets",
		Long: `rosterctl reads semicolon-separated roster exports (or .xlsx workbooks),
reconciles every row against the organizations, managers, coordinators and
accounts already on record, and reports what an import would store.

Logs go to stderr; reports go to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(
		newPreviewCmd(),
		newImportCmd(),
		newColumnsCmd(),
		newSchemaCmd(),
	)
	return cmd
}

// parseDelimiter accepts a single character, "tab", or "" for detection.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid --delimiter %q: want a single character or \"tab\"", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid --delimiter %q", s)
	}
	return r, nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// describeError appends the user message of err when one is known.
func describeError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%w\n  %s", err, core.FormatUserError(err))
}

func newColumnsCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Print the header line of an import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			delim, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}
			if delim == 0 {
				delim = ';'
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(core.ExpectedColumns, string(delim)))
			return err
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", ";", "Field separator of the template")
	return cmd
}
