package model

import (
	"database/sql"
	"time"
)

// Opportunity represents one advertised speaking opportunity as stored.
// The URL is the business key: the store keeps exactly one record per URL
// and refreshes it in place on every ingestion run that reports it again.
type Opportunity struct {
	ID          int
	Title       string
	Organizer   sql.NullString
	URL         string
	Location    sql.NullString
	IsRemote    bool
	TopicTags   sql.NullString
	CFPDeadline sql.NullTime
	EventDate   sql.NullTime
	Source      sql.NullString
	LastSeen    time.Time
}
