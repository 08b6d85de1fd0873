package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Dialect names reported by the gorm dialectors in use.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DialectName returns the active database dialect name.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection uses SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// ContainsClause returns a case-insensitive substring condition on column and
// its bind value. Wildcards in term match literally.
func ContainsClause(conn *gorm.DB, column, term string) (string, string) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
	if IsSQLite(conn) {
		return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column), strings.ToLower(pattern)
	}
	return fmt.Sprintf(`%s ILIKE ? ESCAPE '\'`, column), pattern
}
