package model

import "database/sql"

// Candidate is a raw opportunity as reported by an ingestion source,
// before validation and acceptance into the store. Empty strings mean
// "not supplied"; the store persists them as NULL. ID and LastSeen are
// assigned by the store and the ingestion engine respectively.
type Candidate struct {
	Title       string
	Organizer   string
	URL         string
	Location    string
	IsRemote    bool
	TopicTags   string
	CFPDeadline sql.NullTime
	EventDate   sql.NullTime
	Source      string
}
