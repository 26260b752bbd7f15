package sqlite

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/racesql/internal/core"
)

// BuildCreateTableSQL returns a CREATE TABLE statement for t:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" INTEGER,
//	  "col2" TEXT,
//	  PRIMARY KEY ("col1")
//	);
//
// Integer columns get INTEGER affinity, everything else TEXT. Columns are
// nullable; the key becomes the primary key so duplicate emission fails.
func BuildCreateTableSQL(t core.Table) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("sqlite ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: table %s has no columns", name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		typ := "TEXT"
		if c.Kind == core.ValueInt {
			typ = "INTEGER"
		}
		cols = append(cols, quoteIdent(c.Name)+" "+typ)
	}

	if len(t.Key) > 0 {
		pks := make([]string, len(t.Key))
		for i, k := range t.Key {
			pks[i] = quoteIdent(k)
		}
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteIdent(name), strings.Join(cols, ",\n  ")), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
