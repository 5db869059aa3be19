package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	file      string
	reference string
	delimiter string
	today     string
	json      bool
	strict    bool
}

func newPreviewCmd() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Validate a roster file against a YAML reference dataset",
		Long: `preview runs the whole validation pipeline without touching a database.
The reference dataset (organizations, managers, coordinators, accounts) is
read from a YAML file. Nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Roster file, text or .xlsx (required)")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "YAML reference dataset (required)")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", "Field separator; empty detects it from the header")
	cmd.Flags().StringVar(&opts.today, "today", "", "Import date used for defaults, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the full preview as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any row is rejected")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

func runPreview(ctx context.Context, out io.Writer, opts previewOptions) error {
	delim, err := parseDelimiter(opts.delimiter)
	if err != nil {
		return err
	}

	importer := &core.Importer{Delimiter: delim}
	if opts.today != "" {
		today, err := time.Parse("2006-01-02", opts.today)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		importer.Now = func() time.Time { return today }
	}

	ref, err := loadReferenceFile(opts.reference)
	if err != nil {
		return err
	}

	data, err := readInput(opts.file)
	if err != nil {
		return err
	}

	preview, err := importer.Preview(ctx, data, ref)
	if err != nil {
		return describeError(fmt.Errorf("preview %s: %w", opts.file, err))
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(preview); err != nil {
			return err
		}
	} else if err := printSummary(out, opts.file, preview.Summary); err != nil {
		return err
	}

	if opts.strict && preview.Summary.ErrorRows > 0 {
		return fmt.Errorf("%d of %d rows rejected", preview.Summary.ErrorRows, preview.Summary.TotalRows)
	}
	return nil
}

func loadReferenceFile(path string) (*core.ReferenceDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	ref, err := core.LoadReferenceYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ref, nil
}

// printSummary writes the human-readable report of one preview.
func printSummary(out io.Writer, fileName string, s core.ImportSummary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s (%s)\n", fileName, s.Encoding)
	fmt.Fprintf(tw, "Rows:\t%d\n", s.TotalRows)
	fmt.Fprintf(tw, "Accepted:\t%d\n", s.SuccessCount)
	fmt.Fprintf(tw, "Rejected:\t%d\n", s.ErrorRows)
	if s.Amounts.Count > 0 {
		fmt.Fprintf(tw, "Monthly amounts:\t%d rows, total %.2f, mean %.2f, median %.2f\n",
			s.Amounts.Count, s.Amounts.Total, s.Amounts.Mean, s.Amounts.Median)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	printList(out, "Errors", s.Errors)
	printList(out, "Warnings", s.Warnings)
	return nil
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(out, "  %s\n", item)
	}
}
