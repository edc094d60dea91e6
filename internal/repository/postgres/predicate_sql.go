package postgres

import (
	"strconv"
	"strings"

	"github.com/mcardenas/inventory-backend/internal/search"
)

// whereClause translates a structured predicate into a parameterized SQL
// fragment. User input only ever travels through the args slice; column names
// come from the cols whitelist, and clauses naming unknown fields are
// dropped. Returns "" for a match-everything predicate.
func whereClause(p search.Predicate, cols map[string]string, idCol string) (string, []any) {
	var conds []string
	var args []any

	for _, cond := range p.All {
		var ors []string
		for _, cl := range cond.Any {
			switch cl.Kind {
			case search.IDEquals:
				args = append(args, cl.Value)
				ors = append(ors, idCol+" = $"+strconv.Itoa(len(args)))
			case search.ContainsFold:
				col, ok := cols[cl.Field]
				if !ok {
					continue
				}
				args = append(args, "%"+escapeLike(cl.Value)+"%")
				ors = append(ors, col+" ILIKE $"+strconv.Itoa(len(args)))
			case search.ActiveEquals:
				args = append(args, cl.Active)
				ors = append(ors, "active = $"+strconv.Itoa(len(args)))
			}
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutralizes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
