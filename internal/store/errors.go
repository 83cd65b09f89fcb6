package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// ErrUnavailable indicates the persistence layer cannot be reached.
// It is surfaced immediately and never retried inside the store.
var ErrUnavailable = errors.New("opportunity store unavailable")

// ValidationError reports a rejected field on a candidate record or
// query filter. Ingestion recovers from it per record; queries surface
// it to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsConstraintViolation reports whether err is a uniqueness or other
// integrity violation from the underlying driver. Such failures are
// retryable by the ingestion engine's caller.
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
	}

	return false
}
