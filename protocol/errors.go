// Package protocol implements the message-id decoder and the statement
// executor's request-building state machine that ride on top of tnsproto's
// framing and auth's session key.
package protocol

import "fmt"

// EndOfFetchCode is the ORA number that signals a normal fetch completion
// rather than a genuine server error.
const EndOfFetchCode = 1403

// OracleError is the user-visible server-error carrier: every
// caller-facing operation that fails with a server-originated error
// returns one of these.
type OracleError struct {
	Number    int
	Message   string
	CursorID  uint16
	Position  int
	RowCount  int64
	RowID     string // optional logical RowID associated with the error
	SQL       string // original SQL text, when available
	SourceRef string // caller-supplied file:line for diagnostic provenance
}

func (e *OracleError) Error() string {
	if e.SQL != "" {
		return fmt.Sprintf("ORA-%05d: %s (sql: %s)", e.Number, e.Message, e.SQL)
	}
	return fmt.Sprintf("ORA-%05d: %s", e.Number, e.Message)
}

// IsEndOfFetch reports whether err is the ORA-01403 "no data found"
// sentinel that terminates a normal fetch.
func IsEndOfFetch(err *OracleError) bool {
	return err != nil && err.Number == EndOfFetchCode
}

// RowError is one row's failure within a batch execution (batchErrors
// mode).
type RowError struct {
	Row   int
	Error OracleError
}

// BatchError aggregates per-row failures from a batch DML execution that
// otherwise completed; it is attached to the successful result rather than
// failing the whole execution.
type BatchError struct {
	AffectedRows int64
	RowErrors    []RowError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch execution: %d row error(s) out of affected=%d", len(e.RowErrors), e.AffectedRows)
}

// TransactionError aggregates the up-to-three errors withTransaction can
// surface simultaneously: the closure's own error, a commit
// failure, and a rollback failure.
type TransactionError struct {
	ClosureError  error
	CommitError   error
	RollbackError error
}

func (e *TransactionError) Error() string {
	msg := "transaction failed"
	if e.ClosureError != nil {
		msg += fmt.Sprintf("; closure error: %v", e.ClosureError)
	}
	if e.CommitError != nil {
		msg += fmt.Sprintf("; commit error: %v", e.CommitError)
	}
	if e.RollbackError != nil {
		msg += fmt.Sprintf("; rollback error: %v", e.RollbackError)
	}
	return msg
}

// HasAny reports whether any of the three error slots is populated.
func (e *TransactionError) HasAny() bool {
	return e.ClosureError != nil || e.CommitError != nil || e.RollbackError != nil
}
