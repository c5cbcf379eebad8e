package repositories

import "strings"

// orderClause translates a client ordering value ("price", "-created_at")
// into a SQL ORDER BY clause. Only whitelisted fields are honored; anything
// else returns the fallback clause.
func orderClause(ordering string, allowed map[string]string, fallback string) string {
	if ordering == "" {
		return fallback
	}
	field := strings.TrimPrefix(ordering, "-")
	column, ok := allowed[field]
	if !ok {
		return fallback
	}
	if strings.HasPrefix(ordering, "-") {
		return column + " DESC"
	}
	return column + " ASC"
}
