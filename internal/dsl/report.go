package dsl

import (
	"fmt"
	"strings"
)

// Fault is one validation problem, located by a JSON-ish path into the
// strategy document.
type Fault struct {
	Path    string
	Message string
}

func (f Fault) String() string {
	return fmt.Sprintf("%s: %s", f.Path, f.Message)
}

// ValidationReport accumulates every fault found while loading a strategy.
// A strategy with a non-empty report is never executed.
type ValidationReport struct {
	faults []Fault
}

func NewValidationReport() *ValidationReport {
	return &ValidationReport{}
}

// Add records one fault.
func (r *ValidationReport) Add(path, message string) {
	r.faults = append(r.faults, Fault{Path: path, Message: message})
}

// OK reports whether the document passed with no faults.
func (r *ValidationReport) OK() bool {
	return len(r.faults) == 0
}

// Faults returns all recorded faults in discovery order.
func (r *ValidationReport) Faults() []Fault {
	return r.faults
}

// Error implements the error interface so a failed load can be returned
// directly; the message lists every fault.
func (r *ValidationReport) Error() string {
	if r.OK() {
		return ""
	}
	lines := make([]string, 0, len(r.faults))
	for _, f := range r.faults {
		lines = append(lines, f.String())
	}
	return fmt.Sprintf("strategy validation failed with %d fault(s):\n  %s",
		len(r.faults), strings.Join(lines, "\n  "))
}
