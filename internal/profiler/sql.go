package profiler

import "strings"

// sqlMaxTokens bounds the split of a statement. The last token keeps the rest
// of the statement unsplit.
const sqlMaxTokens = 8

var sqlStatements = map[string]struct{}{
	"DELETE":  {},
	"INSERT":  {},
	"REPLACE": {},
	"UPDATE":  {},
}

var sqlModifiers = map[string]struct{}{
	"LOW_PRIORITY":  {},
	"QUICK":         {},
	"DELAYED":       {},
	"INTO":          {},
	"IGNORE":        {},
	"FROM":          {},
	"HIGH_PRIORITY": {},
}

// NormalizeSQL collapses whitespace in a SQL statement and, for DELETE,
// INSERT, REPLACE and UPDATE statements, truncates it after the table name.
// Modifier keywords between the statement and the table (INTO, FROM,
// IGNORE, ...) are kept. Keywords are uppercased; the table name keeps its
// casing.
//
//	NormalizeSQL("  Delete   From roger extra chars") == "DELETE FROM roger"
//	NormalizeSQL("SELECT *\n FROM t")               == "SELECT * FROM t"
func NormalizeSQL(stmt string) string {
	stmt = collapseSpace(stmt)
	tokens := strings.SplitN(stmt, " ", sqlMaxTokens)

	keyword := upperASCII(tokens[0])
	if _, ok := sqlStatements[keyword]; !ok {
		return stmt
	}

	var b strings.Builder
	b.WriteString(keyword)
	for _, tok := range tokens[1:] {
		b.WriteByte(' ')
		upper := upperASCII(tok)
		if _, ok := sqlModifiers[upper]; !ok {
			b.WriteString(tok)
			break
		}
		b.WriteString(upper)
	}
	return b.String()
}

// collapseSpace replaces every run of ASCII whitespace with a single space
// and trims both ends.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// upperASCII uppercases the ASCII letters of s and leaves every other byte
// alone, so that no non-ASCII spelling can turn into a keyword.
func upperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if 'a' <= s[i] && s[i] <= 'z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'a' <= b[j] && b[j] <= 'z' {
					b[j] -= 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// equalFoldASCII reports whether a and b are equal under ASCII case folding.
func equalFoldASCII(a, b string) bool {
	return len(a) == len(b) && upperASCII(a) == upperASCII(b)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
