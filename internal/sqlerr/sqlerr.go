// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and converts them
// into problem details the client can act on (e.g., converting a "check
// violation" into a 400 Bad Request).
package sqlerr

import (
	"fmt"
	"strings"
)

// Code is a coarse category of a database error, derived from its SQLSTATE.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	StringTooLong       Code = "string_data_right_truncation"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	SerializationFail   Code = "serialization_failure"
	DeadlockDetected    Code = "deadlock_detected"
	QueryCanceled       Code = "query_canceled"
	ConnectionFailure   Code = "connection_failure"
	UndefinedTable      Code = "undefined_table"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
var sqlStateCodes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"23P01": ExclusionViolation,
	"22001": StringTooLong,
	"22P02": InvalidText,
	"22003": NumericOutOfRange,
	"40001": SerializationFail,
	"40P01": DeadlockDetected,
	"57014": QueryCanceled,
	"08000": ConnectionFailure,
	"08003": ConnectionFailure,
	"08006": ConnectionFailure,
	"42P01": UndefinedTable,
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStateCodes[sqlState]; ok {
		return code
	}
	return Other
}

// Severity is the severity reported by the server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity normalizes the server severity string. Unknown values map to
// SeverityError.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
