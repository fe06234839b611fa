package argcheck

import "strings"

// EscapeShellArg quotes a value for safe interpolation into a POSIX shell
// command line. The value is wrapped in single quotes with embedded single
// quotes rewritten to '\''. Best effort: handlers that can avoid shelling
// out should.
func EscapeShellArg(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// EscapeSQLLiteral escapes a value for interpolation into a SQL string
// literal by doubling single quotes and stripping NUL bytes. Best effort:
// parameterized queries are always preferable.
func EscapeSQLLiteral(value string) string {
	value = strings.ReplaceAll(value, "\x00", "")
	return strings.ReplaceAll(value, "'", "''")
}
