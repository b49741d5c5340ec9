package main

import (
	"go.uber.org/zap"
)

// DiagnosticKind names the user-visible warning or error categories.
type DiagnosticKind string

const (
	StopwordLoadWarning DiagnosticKind = "stopword_load_warning"
	FetchStatusWarning  DiagnosticKind = "fetch_status_warning"
	FetchFailure        DiagnosticKind = "fetch_error"
	EmptyResultWarning  DiagnosticKind = "empty_result_warning"
	InvalidRequest      DiagnosticKind = "invalid_request"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
}

// Diagnostics collects warnings and errors for one pipeline run so the
// caller decides how to show them. It is not safe for concurrent use; every
// request gets its own.
type Diagnostics struct {
	records []Diagnostic
	logger  *zap.Logger
}

func NewDiagnostics(logger *zap.Logger) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) Warn(kind DiagnosticKind, msg string) {
	d.record(Diagnostic{Kind: kind, Severity: SeverityWarning, Message: msg})
}

func (d *Diagnostics) Error(kind DiagnosticKind, msg string) {
	d.record(Diagnostic{Kind: kind, Severity: SeverityError, Message: msg})
}

func (d *Diagnostics) Info(kind DiagnosticKind, msg string) {
	d.record(Diagnostic{Kind: kind, Severity: SeverityInfo, Message: msg})
}

func (d *Diagnostics) record(rec Diagnostic) {
	if d == nil {
		return
	}
	d.records = append(d.records, rec)

	fields := []zap.Field{zap.String("kind", string(rec.Kind))}
	switch rec.Severity {
	case SeverityError:
		d.logger.Error(rec.Message, fields...)
	case SeverityWarning:
		d.logger.Warn(rec.Message, fields...)
	default:
		d.logger.Debug(rec.Message, fields...)
	}
}

// Records returns a copy of everything collected so far.
func (d *Diagnostics) Records() []Diagnostic {
	if d == nil {
		return nil
	}
	out := make([]Diagnostic, len(d.records))
	copy(out, d.records)
	return out
}

// Has reports whether a record of the given kind was collected.
func (d *Diagnostics) Has(kind DiagnosticKind) bool {
	if d == nil {
		return false
	}
	for _, r := range d.records {
		if r.Kind == kind {
			return true
		}
	}
	return false
}
