package handlers

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/jjenkins/cfpradar/internal/store"
)

// parseRemote maps the remote query parameter onto the filter's
// three-state constraint: true, false, or unconstrained when absent.
func parseRemote(v string) (sql.NullBool, error) {
	switch strings.ToLower(v) {
	case "":
		return sql.NullBool{}, nil
	case "yes", "true", "1", "on":
		return sql.NullBool{Bool: true, Valid: true}, nil
	case "no", "false", "0", "off":
		return sql.NullBool{Bool: false, Valid: true}, nil
	}
	return sql.NullBool{}, &store.ValidationError{Field: "remote", Reason: `must be "yes" or "no"`}
}

// parseLimit parses the limit parameter, defaulting when absent.
// Non-positive values are passed through so the store rejects them with
// a clear message rather than silently returning nothing.
func parseLimit(v string) (int, error) {
	if v == "" {
		return store.DefaultLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &store.ValidationError{Field: "limit", Reason: "must be an integer"}
	}
	return n, nil
}
