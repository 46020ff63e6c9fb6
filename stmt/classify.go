package stmt

import "strings"

// Minify strips SQL comments (-- line and /* block */) and replaces the
// contents of string literals with nothing (keeping the surrounding
// quotes), so keyword/bind scanning never misfires on literal text.
// Whitespace runs are also collapsed to a single space.
func Minify(sql string) string {
	if sql == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(sql))

	i := 0
	prevSpace := false
	for i < len(sql) {
		ch := sql[i]

		switch {
		case ch == '\'':
			i = skipStringLiteral(&b, sql, i)
			prevSpace = false
			continue
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			i = skipLineComment(sql, i)
			continue
		case ch == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i = skipBlockComment(sql, i)
			continue
		case isSQLSpace(ch):
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
			i++
			continue
		}

		b.WriteByte(ch)
		i++
		prevSpace = false
	}

	return strings.TrimSpace(b.String())
}

func skipStringLiteral(b *strings.Builder, sql string, pos int) int {
	j := pos + 1
	for j < len(sql) {
		if sql[j] == '\'' && j+1 < len(sql) && sql[j+1] == '\'' {
			j += 2
			continue
		}
		if sql[j] == '\'' {
			j++
			break
		}
		j++
	}
	b.WriteString("''")
	return j
}

func skipLineComment(sql string, pos int) int {
	j := pos + 2
	for j < len(sql) && sql[j] != '\n' {
		j++
	}
	return j
}

func skipBlockComment(sql string, pos int) int {
	j := pos + 2
	for j+1 < len(sql) && !(sql[j] == '*' && sql[j+1] == '/') {
		j++
	}
	if j+1 < len(sql) {
		j += 2
	} else {
		j = len(sql)
	}
	return j
}

func isSQLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Classify inspects minified SQL's leading keyword to determine its Kind.
// PL/SQL blocks are detected by a leading BEGIN or DECLARE; DML by the
// usual verb set; DDL by its own verb set; queries by SELECT or WITH;
// anything else is KindPlain.
func Classify(minified string) Kind {
	upper := strings.ToUpper(strings.TrimSpace(minified))
	switch firstWord(upper) {
	case "BEGIN", "DECLARE":
		return KindPLSQL
	case "INSERT", "UPDATE", "DELETE", "MERGE":
		return KindDML
	case "CREATE", "ALTER", "DROP", "TRUNCATE", "GRANT", "REVOKE", "COMMENT":
		return KindDDL
	case "SELECT", "WITH":
		return KindQuery
	}
	return KindPlain
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n\r(")
	if i < 0 {
		return s
	}
	return s[:i]
}

// FindBinds scans minified SQL for colon-style bind names (:name or
// :1, :2, ...), skipping PL/SQL label markers (<<name>>) and the
// double-colon cast operator. Order of first appearance is preserved;
// duplicates are kept (a name may be bound more than once).
func FindBinds(minified string) []string {
	var binds []string
	i := 0
	for i < len(minified) {
		if minified[i] != ':' {
			i++
			continue
		}
		// Skip "::" (cast operator) and "=:" is fine, but ":=" (assignment)
		// is not a bind.
		if i+1 < len(minified) && minified[i+1] == ':' {
			i += 2
			continue
		}
		j := i + 1
		for j < len(minified) && isBindNameByte(minified[j]) {
			j++
		}
		if j > i+1 {
			binds = append(binds, minified[i+1:j])
		}
		i = j
		if i == len(minified) {
			break
		}
	}
	return binds
}

func isBindNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// hasReturningInto reports whether minified SQL contains a RETURNING ...
// INTO clause.
func hasReturningInto(minified string) bool {
	upper := strings.ToUpper(minified)
	idx := strings.Index(upper, "RETURNING")
	if idx < 0 {
		return false
	}
	return strings.Contains(upper[idx:], "INTO")
}
