package core

// error_messages.go defines user-friendly error messages with codes for support
// reference. Row-level problems never reach this table: they are reported as
// row errors and warnings in the ImportSummary. What lands here are failures
// of a whole file, a preview session or the commit.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Split the file into smaller chunks
//	FILE002 - Invalid workbook: The spreadsheet could not be opened
//	          Action: Save the sheet as .xlsx or as semicolon-separated text
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to import
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a file with a header and data rows
//	FILE006 - No data rows: The file has a header but no data rows
//	          Action: Add at least one data row below the header
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Header not found: Organization, Manager and Name columns are missing
//	         Action: Download the template and keep its header row
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Preview expired: Preview session not found
//	         Action: Upload the file again to get a new preview
//	IMP002 - Nothing to commit: No row of the preview was accepted
//	         Action: Fix the reported row errors and upload again
//	IMP003 - Reference unavailable: Reference data could not be loaded
//	         Action: Please try again in a few moments
//	UPL002 - System busy: Too many imports in progress
//	         Action: Please wait a moment and try again
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key, DB003 - Foreign key, DB004 - Connection refused,
//	DB006 - Timeout, DB007 - Deadlock
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Support staff should check the
// application logs for the original technical error.
//
// # Matching
//
// Sentinel errors are matched with errors.Is first. Anything else is matched
// case-insensitively with strings.Contains against the pattern table; the
// first matching pattern wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for whole-file and session failures.
var (
	ErrEmptyFile          = errors.New("empty file")
	ErrNoDataRows         = errors.New("no data rows after header")
	ErrHeaderNotFound     = errors.New("header not found")
	ErrUnreadableWorkbook = errors.New("invalid workbook")
	ErrFileTooLarge       = errors.New("file too large")
	ErrNoFile             = errors.New("no file provided")
	ErrNoReference        = errors.New("reference dataset not loaded")
	ErrPreviewNotFound    = errors.New("preview not found")
	ErrNothingToCommit    = errors.New("nothing to commit")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgInvalidWorkbook = UserMessage{
		Message: "The spreadsheet could not be opened",
		Action:  "Save the sheet as .xlsx or as semicolon-separated text",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a file to import",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with a header and data rows",
		Code:    "FILE005",
	}
	msgNoDataRows = UserMessage{
		Message: "The file has a header but no data rows",
		Action:  "Add at least one data row below the header",
		Code:    "FILE006",
	}
	msgHeaderNotFound = UserMessage{
		Message: "Organization, Manager and Name columns are missing",
		Action:  "Download the template and keep its header row",
		Code:    "VAL004",
	}
	msgPreviewNotFound = UserMessage{
		Message: "Preview session not found",
		Action:  "Upload the file again to get a new preview",
		Code:    "IMP001",
	}
	msgNothingToCommit = UserMessage{
		Message: "No row of the preview was accepted",
		Action:  "Fix the reported row errors and upload again",
		Code:    "IMP002",
	}
	msgNoReference = UserMessage{
		Message: "Reference data could not be loaded",
		Action:  "Please try again in a few moments",
		Code:    "IMP003",
	}
	msgTooManyImports = UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
)

// sentinelMessages is checked with errors.Is before any pattern.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrUnreadableWorkbook, msgInvalidWorkbook},
	{ErrNoFile, msgNoFile},
	{ErrEmptyFile, msgEmptyFile},
	{ErrNoDataRows, msgNoDataRows},
	{ErrHeaderNotFound, msgHeaderNotFound},
	{ErrPreviewNotFound, msgPreviewNotFound},
	{ErrNothingToCommit, msgNothingToCommit},
	{ErrNoReference, msgNoReference},
	{ErrTooManyImports, msgTooManyImports},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Check whether this file was already imported",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Reference data changed since the preview; upload the file again",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try importing a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("preview: %w", ErrEmptyFile))
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
