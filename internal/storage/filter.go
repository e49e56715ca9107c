package storage

import "strings"

// ListFilter is the closed set of predicates a transaction listing can
// apply. UserID is required; the rest are optional (zero value = absent).
// Date bounds are inclusive on both ends and compare lexicographically on
// ISO dates.
type ListFilter struct {
	UserID    int64
	StartDate string
	EndDate   string
	Type      string
	Category  string
	Limit     int
	Offset    int
}

const defaultListLimit = 100

// where compiles the filter into a parameterized WHERE clause and its
// arguments. Values are never interpolated into the SQL text.
func (f ListFilter) where() (string, []any) {
	clauses := []string{"t.user_id = ?"}
	args := []any{f.UserID}

	if f.StartDate != "" {
		clauses = append(clauses, "t.date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, "t.date <= ?")
		args = append(args, f.EndDate)
	}
	if f.Type != "" {
		clauses = append(clauses, "t.type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		clauses = append(clauses, "c.name = ?")
		args = append(args, f.Category)
	}

	return strings.Join(clauses, " AND "), args
}

// limit returns the effective row cap.
func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}
