package oraconn

import (
	"github.com/google/uuid"

	"github.com/mickamy/ora-ttc/bind"
	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/protocol"
	"github.com/mickamy/ora-ttc/stmt"
)

// taskKind tags the work a submitted task asks the I/O goroutine to do.
type taskKind int

const (
	taskPing taskKind = iota
	taskCommit
	taskRollback
	taskStatement
	taskLOB
	taskClose
)

// statementRequest carries everything a taskStatement needs to build and
// send an execute request.
type statementRequest struct {
	stmt    stmt.Statement
	cursor  *cursor.Cursor
	opts    protocol.ExecuteOptions
	encoder *bind.Encoder
	rows    [][]bind.Value
}

// lobRequest identifies a LOB locator read/write operation; the payload is
// opaque to the task queue and interpreted by the I/O goroutine.
type lobRequest struct {
	locator []byte
	write   []byte // non-nil for a write, nil for a read
	offset  uint64
}

// task is one unit of work submitted to a Connection's serialized queue.
// ID is an opaque caller-observable correlation id, never placed on the
// wire.
type task struct {
	id   uuid.UUID
	kind taskKind

	statement *statementRequest
	lob       *lobRequest

	result chan taskResult
}

// taskResult is delivered to the submitter once the I/O goroutine has
// processed a task.
type taskResult struct {
	rows chan cursor.Row // non-nil for a statement task producing a row stream
	err  error
}

// newTask allocates a task with a fresh correlation id and a one-slot
// result channel.
func newTask(kind taskKind) *task {
	return &task{id: uuid.New(), kind: kind, result: make(chan taskResult, 1)}
}
