package repos

import (
	"strings"
)

// Filter accumulates WHERE predicates as an explicit list that is ANDed
// together. Column names are supplied by repository code only; every value
// is carried as a bound parameter and never enters the query text.
type Filter struct {
	// Lower is the SQL function used to fold column values in ContainsFold.
	// Empty means LOWER, which folds only ASCII on SQLite.
	Lower string

	preds []string
	args  []any
}

// Eq constrains column to equal v.
func (f *Filter) Eq(column string, v any) *Filter {
	f.preds = append(f.preds, column+" = ?")
	f.args = append(f.args, v)
	return f
}

// ContainsFold matches term as a case-insensitive substring of any of the
// given columns. LIKE wildcards inside term match literally.
func (f *Filter) ContainsFold(term string, columns ...string) *Filter {
	if len(columns) == 0 {
		return f
	}
	lower := f.Lower
	if lower == "" {
		lower = "LOWER"
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	ors := make([]string, len(columns))
	for i, col := range columns {
		ors[i] = lower + "(" + col + `) LIKE ? ESCAPE '\'`
		f.args = append(f.args, pattern)
	}
	f.preds = append(f.preds, "("+strings.Join(ors, " OR ")+")")
	return f
}

// Where renders " WHERE p1 AND p2 ..." (empty when there are no predicates)
// and the arguments in placeholder order.
func (f *Filter) Where() (string, []any) {
	if len(f.preds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.preds, " AND "), f.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
