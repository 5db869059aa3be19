package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "empty file", err: ErrEmptyFile, wantCode: "FILE005"},
		{name: "wrapped empty file", err: fmt.Errorf("preview roster.csv: %w", ErrEmptyFile), wantCode: "FILE005"},
		{name: "no data rows", err: ErrNoDataRows, wantCode: "FILE006"},
		{name: "header not found", err: fmt.Errorf("%w (expected: [a b])", ErrHeaderNotFound), wantCode: "VAL004"},
		{name: "workbook", err: fmt.Errorf("%w: zip: not a valid zip file", ErrUnreadableWorkbook), wantCode: "FILE002"},
		{name: "file too large", err: ErrFileTooLarge, wantCode: "FILE001"},
		{name: "no file", err: ErrNoFile, wantCode: "FILE004"},
		{name: "preview not found", err: ErrPreviewNotFound, wantCode: "IMP001"},
		{name: "nothing to commit", err: ErrNothingToCommit, wantCode: "IMP002"},
		{name: "no reference", err: fmt.Errorf("load reference: %w", ErrNoReference), wantCode: "IMP003"},
		{name: "too many imports", err: ErrTooManyImports, wantCode: "UPL002"},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "foreign key", err: errors.New("violates foreign key constraint"), wantCode: "DB003"},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantCode: "DB004"},
		{name: "deadlock", err: errors.New("ERROR: deadlock detected"), wantCode: "DB007"},
		{name: "timeout", err: errors.New("i/o timeout"), wantCode: "DB006"},
		{name: "context canceled", err: context.Canceled, wantCode: "UPL004"},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: "UPL005"},
		{name: "unknown", err: errors.New("something odd"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError(%v) missing message or action: %+v", tt.err, got)
			}
		})
	}
}

func TestMapError_SentinelBeatsPattern(t *testing.T) {
	// The wrapped text mentions a timeout, but the sentinel decides.
	err := fmt.Errorf("reading upload timeout: %w", ErrFileTooLarge)
	if got := MapError(err).Code; got != "FILE001" {
		t.Errorf("MapError().Code = %q, want FILE001", got)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrPreviewNotFound)
	want := "Preview session not found (Code: IMP001). Upload the file again to get a new preview"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrEmptyFile, true},
		{errors.New("deadlock detected"), true},
		{errors.New("mystery"), false},
	}

	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
