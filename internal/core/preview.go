package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/montanaflynn/stats"
)

// AmountStats summarizes the monthly amounts of accepted rows.
type AmountStats struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ImportSummary aggregates all row outcomes of one run.
// Errors and Warnings are prefixed with their row number ("Row 3: ...").
type ImportSummary struct {
	TotalRows    int         `json:"totalRows"`
	SuccessCount int         `json:"successCount"`
	ErrorRows    int         `json:"errorRows"`
	Errors       []string    `json:"errors"`
	Warnings     []string    `json:"warnings"`
	Encoding     string      `json:"encoding"`
	Amounts      AmountStats `json:"amounts"`
}

// Preview is the side-effect free result of phase one.
type Preview struct {
	Summary  ImportSummary `json:"summary"`
	Outcomes []RowOutcome  `json:"outcomes"`
}

// Accepted returns the records of accepted rows in file order.
func (p *Preview) Accepted() []Record {
	if p == nil {
		return nil
	}
	records := make([]Record, 0, p.Summary.SuccessCount)
	for _, o := range p.Outcomes {
		if rec, ok := o.Record(); ok {
			records = append(records, rec)
		}
	}
	return records
}

// RecordSink stores accepted records. Implementations decide atomicity.
type RecordSink interface {
	InsertRecords(ctx context.Context, records []Record) (int64, error)
}

// Importer runs the preview phase.
type Importer struct {
	// Delimiter separates fields in text files. Zero means detect.
	Delimiter rune

	// Now returns the run date used for defaults. Nil means time.Now.
	Now func() time.Time
}

// Preview decodes, tokenizes and validates data against ref.
//
// Only an unreadable file returns an error (ErrEmptyFile, ErrHeaderNotFound,
// ErrNoDataRows, ErrUnreadableWorkbook). Problems in individual rows are
// reported through the returned outcomes.
func (im *Importer) Preview(ctx context.Context, data []byte, ref *ReferenceDataset) (*Preview, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	if ref == nil {
		return nil, ErrNoReference
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	rows, enc, err := im.readRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	headerIdx := MakeHeaderIndex(rows[0])
	if !headerIdx.hasAny(requiredColumns) {
		return nil, fmt.Errorf("%w (expected: %v)", ErrHeaderNotFound, ExpectedColumns)
	}

	dataRows := rows[1:]
	if len(dataRows) == 0 {
		return nil, ErrNoDataRows
	}

	validator := NewRowValidator(headerIdx, NewResolver(ref), im.now())
	if enc == EncodingWorkbook {
		validator.UseRawNumbers()
	}

	outcomes := make([]RowOutcome, 0, len(dataRows))
	for i, row := range dataRows {
		outcome := validator.ValidateRow(row, i+2) // 1-indexed, after header
		if !outcome.OK() {
			logger.Debug("row rejected", "row", outcome.RowNumber, "errors", outcome.Errors())
		}
		outcomes = append(outcomes, outcome)
	}

	summary := Summarize(outcomes)
	summary.Encoding = enc

	logger.Info("import preview",
		"rows", summary.TotalRows,
		"accepted", summary.SuccessCount,
		"rejected", summary.ErrorRows,
		"warnings", len(summary.Warnings),
		"encoding", enc,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Preview{Summary: summary, Outcomes: outcomes}, nil
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

// readRows turns raw bytes into rows, reading workbooks and text alike.
func (im *Importer) readRows(data []byte) ([][]string, string, error) {
	if IsWorkbook(data) {
		rows, err := ReadWorkbookRows(bytes.NewReader(data))
		return rows, EncodingWorkbook, err
	}

	text, enc := DecodeText(data)
	delim := im.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}
	return Tokenize(text, delim), enc, nil
}

// Summarize flattens outcomes into an ImportSummary, preserving row order.
func Summarize(outcomes []RowOutcome) ImportSummary {
	s := ImportSummary{
		TotalRows: len(outcomes),
		Errors:    []string{},
		Warnings:  []string{},
	}

	var amounts []float64
	for _, o := range outcomes {
		if rec, ok := o.Record(); ok {
			s.SuccessCount++
			if f, ok := NumericFloat(rec.MonthlyAmount); ok {
				amounts = append(amounts, f)
			}
		} else {
			s.ErrorRows++
		}
		for _, e := range o.Errors() {
			s.Errors = append(s.Errors, fmt.Sprintf("Row %d: %s", o.RowNumber, e))
		}
		for _, w := range o.Warnings {
			s.Warnings = append(s.Warnings, fmt.Sprintf("Row %d: %s", o.RowNumber, w))
		}
	}

	s.Amounts = summarizeAmounts(amounts)
	return s
}

func summarizeAmounts(amounts []float64) AmountStats {
	if len(amounts) == 0 {
		return AmountStats{}
	}
	data := stats.Float64Data(amounts)
	total, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	return AmountStats{
		Count:  len(amounts),
		Total:  total,
		Mean:   mean,
		Median: median,
	}
}

// Commit hands the accepted records of p to sink as a single batch.
func Commit(ctx context.Context, p *Preview, sink RecordSink) (int64, error) {
	records := p.Accepted()
	if len(records) == 0 {
		return 0, ErrNothingToCommit
	}

	n, err := sink.InsertRecords(ctx, records)
	if err != nil {
		return n, fmt.Errorf("commit %d records: %w", len(records), err)
	}

	logging.FromContext(ctx).Info("import committed", "records", len(records), "inserted", n)
	return n, nil
}
