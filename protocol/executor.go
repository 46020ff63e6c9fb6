package protocol

import (
	"fmt"

	"github.com/mickamy/ora-ttc/bind"
	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/stmt"
	"github.com/mickamy/ora-ttc/wire"
)

// functionCodeExecute is the TTC function code for an all-in-one
// parse/bind/execute/fetch request.
const functionCodeExecute = 0x5E

// al8i4Len is the fixed length, in UB4 slots, of the al8i4 parameter array
// carried on every execute request.
const al8i4Len = 13

// maxLongBindLength caps the buffer size advertised for a "long" bind
// (LOB-style) column, per the column's own declared size otherwise.
const maxLongBindLength = 0x7FFFFFFF

// oacColIDFieldVersion is the TTC field version (12.2 and later) at and
// above which the oaccolid trailer byte is written in bind metadata.
const oacColIDFieldVersion = 9

// ExecutePlan records the decisions the executor makes about how to run
// one statement: whether a full parse/execute is required, whether a
// reexecute can be used instead, and whether fetch can be fused into the
// same round-trip.
type ExecutePlan struct {
	Parse               bool
	Execute             bool
	Fetch               bool
	Describe            bool
	RequiresFullExecute bool
}

// PlanExecution decides the execute flags for a statement given the
// server-visible state: whether a cursor is already assigned, whether the
// server has indicated a full re-parse is required, whether the caller
// asked for parse-only, and whether a fetch can be fused in.
func PlanExecution(st stmt.Statement, hasCursor, requiresFullExecute, parseOnly bool, prefetch uint32) ExecutePlan {
	plan := ExecutePlan{RequiresFullExecute: requiresFullExecute}

	needsParse := !hasCursor || requiresFullExecute || st.Kind == stmt.KindDDL
	plan.Parse = needsParse
	plan.Execute = !parseOnly
	plan.Describe = needsParse && st.Kind == stmt.KindQuery

	canFuseFetch := !needsParse && st.Kind == stmt.KindQuery && !requiresFullExecute && prefetch > 0
	plan.Fetch = plan.Execute && (st.Kind == stmt.KindQuery) && (needsParse || canFuseFetch)
	return plan
}

// ExecuteOptions configures one statement execution.
type ExecuteOptions struct {
	Prefetch     uint32
	ArraySize    uint32
	AutoCommit   bool
	BatchErrors  bool
	DMLRowCounts bool
	RowCount     uint32 // number of batch iterations; 1 for a single-row statement
}

// executeFlags assembles the options word from a plan and the caller's
// execution options. bindCount is the number of bind positions actually
// registered with the encoder, not merely discovered in the SQL text.
func executeFlags(st stmt.Statement, plan ExecutePlan, opts ExecuteOptions, bindCount int) ExecuteFlag {
	var f ExecuteFlag
	if plan.Parse {
		f |= ExecuteFlagParse
	}
	if plan.Execute {
		f |= ExecuteFlagExecute
	}
	if plan.Fetch {
		f |= ExecuteFlagFetch
	}
	if plan.Describe {
		f |= ExecuteFlagDescribe
	}
	if opts.AutoCommit {
		f |= ExecuteFlagCommit
	}
	if opts.BatchErrors {
		f |= ExecuteFlagBatchErrors
	}
	if opts.DMLRowCounts {
		f |= ExecuteFlagDMLRowCounts
	}
	if st.Kind == stmt.KindPLSQL {
		f |= ExecuteFlagPLSQLBind
	} else {
		f |= ExecuteFlagNotPLSQL
	}
	if bindCount > 0 {
		f |= ExecuteFlagBind
	}
	if plan.Execute && st.Text != "" {
		f |= ExecuteFlagImplicitResultset
	}
	return f
}

// StatementExecutor builds the wire bytes of execute/reexecute/fetch
// requests. It owns the sequence counter shared across every request this
// connection sends.
type StatementExecutor struct {
	ttcFieldVersion uint8
	charsetID       uint16
	seq             uint32
}

// NewStatementExecutor creates an executor bound to the negotiated TTC
// field version (gating the oaccolid trailer byte) and charset id (written
// into every bind's metadata).
func NewStatementExecutor(ttcFieldVersion uint8, charsetID uint16) *StatementExecutor {
	return &StatementExecutor{ttcFieldVersion: ttcFieldVersion, charsetID: charsetID}
}

func (e *StatementExecutor) nextSeq() uint32 {
	e.seq++
	return e.seq
}

// BuildRequest renders one execute request: pending piggybacks, the
// function code and sequence number, the options word, the cursor id, the
// al8i4 array, the query flag, the DML options word, the SQL bytes when a
// parse is needed, bind metadata, and the bound values for each execution
// iteration.
func (e *StatementExecutor) BuildRequest(
	st stmt.Statement,
	cur *cursor.Cursor,
	plan ExecutePlan,
	opts ExecuteOptions,
	enc *bind.Encoder,
	rows [][]bind.Value,
	cleanup *cursor.CleanupContext,
) ([]byte, error) {
	bindings := enc.Bindings()
	if err := validateBatchMetadataGrowth(bindings, rows); err != nil {
		return nil, err
	}

	var out []byte

	out = appendPiggybacks(out, cleanup)

	out = append(out, functionCodeExecute)
	out = wire.PutUB(out, uint64(e.nextSeq()), wire.MaxUB4Len)

	flags := executeFlags(st, plan, opts, len(bindings))
	out = wire.PutUB(out, uint64(flags), wire.MaxUB4Len)

	cursorID := uint16(0)
	if cur != nil {
		cursorID = cur.ID
	}
	out = wire.PutUB(out, uint64(cursorID), wire.MaxUB2Len)

	out = appendAl8i4(out, st, opts)

	out = append(out, 1) // query flag: always 1 for a top-level statement

	dmlOptions := uint32(0)
	if opts.AutoCommit {
		dmlOptions = 1
	}
	out = wire.PutUB(out, uint64(dmlOptions), wire.MaxUB4Len)

	if plan.Parse {
		out = wire.PutChunked(out, []byte(st.Text), 0x4000)
	}

	if plan.Execute && len(bindings) > 0 {
		out = e.appendBindMetadata(out, bindings)
		for _, row := range rows {
			short, long := enc.Row(row)
			out = append(out, short...)
			out = append(out, long...)
		}
	}

	return out, nil
}

// appendAl8i4 writes the fixed 13-slot UB4 parameter array. Only the
// slots this executor actually uses are populated; the rest are zero,
// matching an implementation that does not exercise every legacy option
// (array DML chunking, scn-based consistency) the array makes room for.
func appendAl8i4(dst []byte, st stmt.Statement, opts ExecuteOptions) []byte {
	slots := make([]uint32, al8i4Len)
	rowCount := opts.RowCount
	if rowCount == 0 {
		rowCount = 1
	}
	slots[0] = rowCount      // execution iterations
	slots[1] = opts.Prefetch // rows returned with the initial response
	slots[2] = opts.ArraySize

	for _, v := range slots {
		dst = wire.PutUB(dst, uint64(v), wire.MaxUB4Len)
	}
	return dst
}

// appendBindMetadata writes one metadata entry per bind position: type
// byte, flag byte, zero precision/scale, capped buffer size, array max
// elements or zero, content-flags word with the LOB prefetch bit set for
// BLOB/CLOB, OID/version (zero when not a named type), charset id, csfrm
// byte, zero max-chars, and oaccolid when the field version supports it.
func (e *StatementExecutor) appendBindMetadata(dst []byte, bindings []stmt.Binding) []byte {
	for _, b := range bindings {
		dst = append(dst, byte(b.Type))

		flag := byte(0)
		if b.IsArray {
			flag |= 0x40
		}
		if b.IsReturn {
			flag |= 0x04
		}
		dst = append(dst, flag)

		dst = append(dst, 0, 0) // precision, scale

		bufferSize := b.BufferSize
		if isLongBindType(b.Type) && bufferSize > maxLongBindLength {
			bufferSize = maxLongBindLength
		}
		dst = wire.PutUB(dst, uint64(bufferSize), wire.MaxUB4Len)

		dst = wire.PutUB(dst, uint64(b.ArrayMaxSize), wire.MaxUB4Len)

		contentFlags := uint64(0)
		if b.Type == stmt.DataTypeBlob || b.Type == stmt.DataTypeClob {
			contentFlags |= 0x01 // LOB prefetch
		}
		dst = wire.PutUB(dst, contentFlags, 8)

		dst = append(dst, 0, 0) // OID length, version placeholder
		dst = wire.PutUB(dst, uint64(e.charsetID), wire.MaxUB2Len)
		dst = append(dst, b.CharsetForm)
		dst = wire.PutUB(dst, 0, wire.MaxUB4Len) // max chars

		if e.ttcFieldVersion >= oacColIDFieldVersion {
			dst = wire.PutUB(dst, 0, wire.MaxUB4Len) // oaccolid
		}
	}
	return dst
}

func isLongBindType(t stmt.DataType) bool {
	switch t {
	case stmt.DataTypeLong, stmt.DataTypeLongRaw, stmt.DataTypeClob, stmt.DataTypeBlob:
		return true
	default:
		return false
	}
}

// appendPiggybacks flushes the cleanup context and writes a single
// ServerSidePiggyback sub-message carrying every queued cursor id and temp
// LOB locator.
func appendPiggybacks(dst []byte, cleanup *cursor.CleanupContext) []byte {
	if cleanup == nil || cleanup.Depth() == 0 {
		return dst
	}
	cursorIDs, lobLocators := cleanup.Flush()
	if len(cursorIDs) == 0 && len(lobLocators) == 0 {
		return dst
	}

	dst = append(dst, byte(MessageServerSidePiggyback), byte(PiggybackLTXID))
	payload := wire.PutUB(nil, uint64(len(cursorIDs)), wire.MaxUB2Len)
	for _, id := range cursorIDs {
		payload = wire.PutUB(payload, uint64(id), wire.MaxUB2Len)
	}
	for _, locator := range lobLocators {
		payload = wire.PutChunked(payload, locator, 0)
	}
	dst = wire.PutUB(dst, uint64(len(payload)), wire.MaxUB4Len)
	dst = append(dst, payload...)
	return dst
}

// validateBatchMetadataGrowth checks that every batch row carries exactly
// one value per bind position. It does not compare the rows' encoded value
// sizes with the bindings' BufferSize, although metadata is written once
// ahead of the per-row values.
func validateBatchMetadataGrowth(bindings []stmt.Binding, rows [][]bind.Value) error {
	for _, row := range rows {
		if len(row) != len(bindings) {
			return fmt.Errorf("protocol: batch row has %d values, want %d", len(row), len(bindings))
		}
	}
	return nil
}
