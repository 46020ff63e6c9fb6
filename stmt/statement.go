// Package stmt models a submitted SQL/PLSQL statement: its kind, its
// minified text, and the bind placeholders discovered in it.
package stmt

import "fmt"

// Kind classifies a statement for the executor's flag selection: which of
// EXECUTE/PARSE/FETCH/DESCRIBE apply, and whether a full execute or a
// reexecute is possible.
type Kind int

const (
	KindQuery Kind = iota
	KindPLSQL
	KindDML
	KindDDL
	KindCursorReuse // bound to an existing server-assigned cursor id
	KindPlain
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "Query"
	case KindPLSQL:
		return "PLSQL"
	case KindDML:
		return "DML"
	case KindDDL:
		return "DDL"
	case KindCursorReuse:
		return "CursorReuse"
	case KindPlain:
		return "Plain"
	}
	return fmt.Sprintf("UnknownKind(%d)", int(k))
}

// Statement is one submitted unit of SQL/PLSQL text, classified and
// minified, with its bind placeholders discovered.
type Statement struct {
	Kind Kind
	// Text is the original (unminified) SQL the caller supplied.
	Text string
	// MinifiedText has comments and string-literal contents stripped for
	// planning/logging purposes; it is never sent on the wire in place of
	// Text.
	MinifiedText string
	// Binds is the ordered list of colon-style bind names discovered in
	// MinifiedText, without the leading colon (e.g. "id", or "1" for a
	// positional bind).
	Binds []string
	// HasReturningInto is true when the statement contains a RETURNING ...
	// INTO clause, which requires output-bind allocation for its targets.
	HasReturningInto bool
	// CursorID is set only for KindCursorReuse.
	CursorID uint16
}

// New classifies and minifies sql, producing a Statement ready for
// execution. existingCursorID, if nonzero, forces KindCursorReuse.
func New(sql string, existingCursorID uint16) Statement {
	if existingCursorID != 0 {
		return Statement{Kind: KindCursorReuse, Text: sql, CursorID: existingCursorID}
	}
	minified := Minify(sql)
	return Statement{
		Kind:             Classify(minified),
		Text:             sql,
		MinifiedText:     minified,
		Binds:            FindBinds(minified),
		HasReturningInto: hasReturningInto(minified),
	}
}
