package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type importOptions struct {
	file         string
	delimiter    string
	dryRun       bool
	ensureSchema bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a roster file into PostgreSQL",
		Long: `import loads the reference dataset from PostgreSQL, validates the file
and copies every accepted row into the members table in one transaction.
Rejected rows are reported and skipped.

Connection settings come from the environment (DATABASE_URL, DB_MEMBERS_TABLE,
...) and from a .env file in the working directory, if present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Roster file, text or .xlsx (required)")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", "Field separator; empty uses IMPORT_DELIMITER or detects it")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate against the database but store nothing")
	cmd.Flags().BoolVar(&opts.ensureSchema, "ensure-schema", false, "Create missing tables before importing")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	delim := cfg.Import.DelimiterRune()
	if opts.delimiter != "" {
		if delim, err = parseDelimiter(opts.delimiter); err != nil {
			return err
		}
	}

	data, err := readInput(opts.file)
	if err != nil {
		return err
	}
	if int64(len(data)) > cfg.Import.MaxFileSize {
		return describeError(fmt.Errorf("%s: %w", opts.file, core.ErrFileTooLarge))
	}

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return describeError(err)
	}
	defer pool.Close()

	st := store.New(pool, cfg.Database.MembersTable)
	if opts.ensureSchema {
		if err := st.EnsureSchema(ctx); err != nil {
			return describeError(err)
		}
	}

	ref, err := st.LoadReference(ctx)
	if err != nil {
		return describeError(err)
	}

	importer := &core.Importer{Delimiter: delim}
	preview, err := importer.Preview(ctx, data, ref)
	if err != nil {
		return describeError(fmt.Errorf("preview %s: %w", opts.file, err))
	}
	if err := printSummary(out, opts.file, preview.Summary); err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintln(out, "\nDry run: nothing stored.")
		return nil
	}

	commitCtx, cancel := context.WithTimeout(ctx, cfg.Import.CommitTimeout)
	defer cancel()

	n, err := core.Commit(commitCtx, preview, st)
	if err != nil {
		return describeError(err)
	}
	fmt.Fprintf(out, "\nStored %d records in %s.\n", n, cfg.Database.MembersTable)
	return nil
}
