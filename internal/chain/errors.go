package chain

import "fmt"

// FormatError reports a malformed line in the index or a chain file.
// The whole file is rejected; the dataset is authoritative and a partial
// load would silently under-report chains.
type FormatError struct {
	File   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

func formatErrf(file string, line int, format string, args ...any) *FormatError {
	return &FormatError{File: file, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a chain that parsed cleanly but fails the
// addition-chain summation property, or whose kind tag disagrees with the
// star-chain test. Only raised in strict mode.
type InvariantViolation struct {
	N      int
	Chain  []int
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("chain %v for n=%d: %s", e.Chain, e.N, e.Reason)
}

// NotFoundError reports a query for a target the store has no data for.
type NotFoundError struct {
	N int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no chains loaded for n=%d", e.N)
}
