// Package validation implements the requirement validation engine: per-record
// validators, the module progression validator, and the result type they all
// share. Rule violations are results, not Go errors - a validator returns a
// Go error only when validation itself could not be performed (for example
// the template store failing).
package validation

import (
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// MACHINE CODES
// Stable codes carried by every issue. Callers key UI and API behavior on
// them; messages are for humans and may change.
// ══════════════════════════════════════════════════════════════════════════════

const (
	CodeTemplateNotFound     = "TEMPLATE_NOT_FOUND"
	CodeNoActiveModule       = "NO_ACTIVE_MODULE"
	CodeProcedureNotInModule = "PROCEDURE_NOT_IN_MODULE"
	CodeProcedureUnknown     = "PROCEDURE_NOT_IN_TEMPLATE"
	CodeModuleMismatch       = "MODULE_MISMATCH"
	CodeRoleNotRequired      = "ROLE_NOT_REQUIRED"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeLocationRequired     = "LOCATION_REQUIRED"
	CodeUnsyncedCompleted    = "COMPLETED_NOT_SYNCED"

	CodeZeroDuration      = "ZERO_DURATION"
	CodeWeeklyHoursTarget = "WEEKLY_HOURS_TARGET"

	CodeDateOrder         = "DATE_ORDER"
	CodeDurationShortfall = "DURATION_SHORTFALL"
	CodeFutureCompletion  = "FUTURE_COMPLETION"

	CodeMandatoryUnapproved = "MANDATORY_COURSE_UNAPPROVED"
	CodeFutureDate          = "FUTURE_DATE"

	CodeModuleNotFound      = "MODULE_NOT_FOUND"
	CodeModuleCompleted     = "MODULE_COMPLETED"
	CodeModuleNotStarted    = "MODULE_NOT_STARTED"
	CodeModuleExpired       = "MODULE_EXPIRED"
	CodeModuleTypeMismatch  = "MODULE_TYPE_MISMATCH"
	CodeTrackMismatch       = "TRACK_MISMATCH"
	CodeProgressDiscard     = "PROGRESS_DISCARD"
	CodeShortfall           = "REQUIREMENT_SHORTFALL"
	CodeBelowThreshold      = "PROGRESS_BELOW_THRESHOLD"
	CodeEndDateApproaching  = "END_DATE_APPROACHING"
	CodeEndDatePassed       = "END_DATE_PASSED"
	CodeYearOutOfRange      = "YEAR_OUT_OF_RANGE"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT
// Composed by accumulation: every applicable rule runs and contributes its
// own issue regardless of earlier failures, except where a missing
// prerequisite makes further checks meaningless.
// ══════════════════════════════════════════════════════════════════════════════

// Issue is one validation finding.
type Issue struct {
	// Field - the record field the issue concerns, empty for whole-record.
	Field string

	// Code - stable machine-readable code.
	Code string

	// Message - human-readable description.
	Message string
}

// String returns a compact representation for logs and messages.
func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Code, i.Field, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// Result is the transient outcome of running a validator. Never persisted.
type Result struct {
	// Errors - blocking issues. Any entry makes the result invalid.
	Errors []Issue

	// Warnings - advisory issues. They never block acceptance.
	Warnings []Issue
}

// NewResult returns an empty (valid) result.
func NewResult() *Result {
	return &Result{}
}

// IsValid reports whether the result carries no blocking errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError appends a blocking issue.
func (r *Result) AddError(field, code, message string) *Result {
	r.Errors = append(r.Errors, Issue{Field: field, Code: code, Message: message})
	return r
}

// AddErrorf appends a blocking issue with a formatted message.
func (r *Result) AddErrorf(field, code, format string, args ...interface{}) *Result {
	return r.AddError(field, code, fmt.Sprintf(format, args...))
}

// AddWarning appends an advisory issue.
func (r *Result) AddWarning(field, code, message string) *Result {
	r.Warnings = append(r.Warnings, Issue{Field: field, Code: code, Message: message})
	return r
}

// AddWarningf appends an advisory issue with a formatted message.
func (r *Result) AddWarningf(field, code, format string, args ...interface{}) *Result {
	return r.AddWarning(field, code, fmt.Sprintf(format, args...))
}

// Merge appends all issues from other.
func (r *Result) Merge(other *Result) *Result {
	if other == nil {
		return r
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	return r
}

// HasCode reports whether any issue (error or warning) carries the code.
func (r *Result) HasCode(code string) bool {
	for _, i := range r.Errors {
		if i.Code == code {
			return true
		}
	}
	for _, i := range r.Warnings {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Summary joins all blocking error messages into one line. Used by callers
// that expose a (valid, message) pair.
func (r *Result) Summary() string {
	if r.IsValid() {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, i := range r.Errors {
		parts = append(parts, i.String())
	}
	return strings.Join(parts, "; ")
}
