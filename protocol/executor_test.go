package protocol

import (
	"testing"

	"github.com/mickamy/ora-ttc/bind"
	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/stmt"
)

func TestPlanExecutionFreshQueryNeedsParse(t *testing.T) {
	t.Parallel()
	st := stmt.New("select 1 from dual", 0)
	plan := PlanExecution(st, false, false, false, 2)
	if !plan.Parse || !plan.Execute || !plan.Describe {
		t.Fatalf("got %+v", plan)
	}
}

func TestPlanExecutionCursorReuseFusesFetch(t *testing.T) {
	t.Parallel()
	st := stmt.New("select 1 from dual", 42)
	st.Kind = stmt.KindQuery // cursor-reuse query: metadata already known server-side
	plan := PlanExecution(st, true, false, false, 2)
	if plan.Parse {
		t.Fatal("did not expect a re-parse when reusing a cursor")
	}
	if !plan.Fetch {
		t.Fatal("expected fetch to be fused into the reexecute")
	}
}

func TestPlanExecutionParseOnlySkipsExecute(t *testing.T) {
	t.Parallel()
	st := stmt.New("select 1 from dual", 0)
	plan := PlanExecution(st, false, false, true, 2)
	if plan.Execute || plan.Fetch {
		t.Fatalf("got %+v", plan)
	}
}

func TestBuildRequestWritesBindMetadataAndRows(t *testing.T) {
	t.Parallel()
	st := stmt.New("insert into t(a) values (:a)", 0)
	plan := PlanExecution(st, false, false, false, 0)

	enc := bind.NewEncoder()
	idx := enc.Position(":a", nil, stmt.Metadata{Type: stmt.DataTypeNumber, BufferSize: 22})
	if idx != 0 {
		t.Fatalf("got index %d", idx)
	}

	encoded, err := encodeTestNumber()
	if err != nil {
		t.Fatalf("encodeTestNumber: %v", err)
	}
	rows := [][]bind.Value{{{Encoded: encoded}}}

	exec := NewStatementExecutor(9, 873)
	req, err := exec.BuildRequest(st, nil, plan, ExecuteOptions{RowCount: 1}, enc, rows, nil)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if len(req) == 0 {
		t.Fatal("expected non-empty request")
	}
	if req[0] != functionCodeExecute {
		t.Fatalf("got function code %#x", req[0])
	}
}

func TestBuildRequestRejectsMismatchedRowWidth(t *testing.T) {
	t.Parallel()
	st := stmt.New("insert into t(a, b) values (:a, :b)", 0)
	plan := PlanExecution(st, false, false, false, 0)

	enc := bind.NewEncoder()
	enc.Position(":a", nil, stmt.Metadata{Type: stmt.DataTypeNumber})
	enc.Position(":b", nil, stmt.Metadata{Type: stmt.DataTypeNumber})

	rows := [][]bind.Value{{{Null: true}}} // only one value for two binds
	exec := NewStatementExecutor(9, 873)
	if _, err := exec.BuildRequest(st, nil, plan, ExecuteOptions{}, enc, rows, nil); err == nil {
		t.Fatal("expected a row-width mismatch error")
	}
}

func TestBuildRequestFlushesPiggybacks(t *testing.T) {
	t.Parallel()
	st := stmt.New("select 1 from dual", 0)
	plan := PlanExecution(st, false, false, false, 0)
	enc := bind.NewEncoder()

	cleanup := cursor.NewCleanupContext()
	cleanup.QueueCursor(5)

	exec := NewStatementExecutor(9, 873)
	req, err := exec.BuildRequest(st, nil, plan, ExecuteOptions{}, enc, nil, cleanup)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if req[0] != byte(MessageServerSidePiggyback) {
		t.Fatalf("expected piggyback to lead the request, got %#x", req[0])
	}
	if cleanup.Depth() != 0 {
		t.Fatal("expected cleanup context to be flushed")
	}
}

func encodeTestNumber() ([]byte, error) {
	return []byte{0x01, 0xC2, 0x02}, nil
}
