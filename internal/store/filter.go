package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// DefaultLimit is the result cap applied when a caller does not ask for
// a specific one.
const DefaultLimit = 50

// Filter describes a query over the opportunity store. Zero-value
// fields place no constraint; present fields combine with AND.
type Filter struct {
	// Text matches case-insensitively against title or organizer.
	Text string
	// Tag matches case-insensitively against the topic tag list.
	Tag string
	// Remote constrains is_remote when Valid. An invalid NullBool means
	// "remote or in-person", which is distinct from Remote=false.
	Remote sql.NullBool
	// Limit caps the result count. Must be positive.
	Limit int
}

// NewFilter returns an unconstrained filter with the default limit.
func NewFilter() Filter {
	return Filter{Limit: DefaultLimit}
}

// whereClause compiles the filter into a WHERE clause and its bind
// arguments. Values are always parameterized, never interpolated into
// the SQL text.
func (f Filter) whereClause() (string, []any) {
	var conds []string
	var args []any

	placeholder := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Text != "" {
		pattern := "%" + strings.ToLower(f.Text) + "%"
		conds = append(conds, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(COALESCE(organizer, '')) LIKE %s)",
			placeholder(pattern), placeholder(pattern)))
	}

	if f.Tag != "" {
		pattern := "%" + strings.ToLower(f.Tag) + "%"
		conds = append(conds, fmt.Sprintf(
			"LOWER(COALESCE(topic_tags, '')) LIKE %s", placeholder(pattern)))
	}

	if f.Remote.Valid {
		conds = append(conds, fmt.Sprintf("is_remote = %s", placeholder(f.Remote.Bool)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
