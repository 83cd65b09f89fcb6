package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/cfpradar/internal/model"
)

// dateLayout is the calendar-date form used for every date column.
const dateLayout = "2006-01-02"

const opportunityColumns = `id, title, organizer, url, location, is_remote,
	       topic_tags, cfp_deadline, event_date, source, last_seen`

// orderByRank is the fixed result order: known deadlines soonest first,
// undated records after all dated ones, most recently seen breaking
// ties, id as the final tiebreaker so the order is total.
const orderByRank = `
		ORDER BY
			CASE WHEN cfp_deadline IS NULL THEN 1 ELSE 0 END,
			cfp_deadline ASC,
			last_seen DESC,
			id ASC`

// OpportunityStore handles database operations for opportunities
type OpportunityStore struct {
	db *DB
}

// NewOpportunityStore creates a new OpportunityStore
func NewOpportunityStore(db *DB) *OpportunityStore {
	return &OpportunityStore{db: db}
}

// Upsert inserts the candidate or, if a record with its URL already
// exists, overwrites that record's mutable fields in place. The id is
// assigned on first insert and never changes. The write itself is a
// single atomic conditional statement; the surrounding transaction only
// makes the inserted/updated report consistent with it. Returns the
// stored record and whether it was newly inserted.
func (s *OpportunityStore) Upsert(ctx context.Context, cand model.Candidate, lastSeen time.Time) (*model.Opportunity, bool, error) {
	if strings.TrimSpace(cand.Title) == "" {
		return nil, false, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(cand.URL) == "" {
		return nil, false, &ValidationError{Field: "url", Reason: "must not be empty"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Probe for an existing row so the caller can count inserts vs
	// updates. The upsert below stays correct even if a concurrent
	// writer lands in between.
	var existingID sql.NullInt64
	tx.QueryRowContext(ctx, `SELECT id FROM opportunities WHERE url = $1`, cand.URL).Scan(&existingID)

	upsertQuery := `
		INSERT INTO opportunities (title, organizer, url, location, is_remote,
		                           topic_tags, cfp_deadline, event_date, source, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			organizer = EXCLUDED.organizer,
			location = EXCLUDED.location,
			is_remote = EXCLUDED.is_remote,
			topic_tags = EXCLUDED.topic_tags,
			cfp_deadline = EXCLUDED.cfp_deadline,
			event_date = EXCLUDED.event_date,
			source = EXCLUDED.source,
			last_seen = EXCLUDED.last_seen
		RETURNING id
	`

	opp := model.Opportunity{
		Title:       cand.Title,
		Organizer:   nullString(cand.Organizer),
		URL:         cand.URL,
		Location:    nullString(cand.Location),
		IsRemote:    cand.IsRemote,
		TopicTags:   nullString(cand.TopicTags),
		CFPDeadline: cand.CFPDeadline,
		EventDate:   cand.EventDate,
		Source:      nullString(cand.Source),
		LastSeen:    lastSeen,
	}

	err = tx.QueryRowContext(ctx, upsertQuery,
		opp.Title,
		opp.Organizer,
		opp.URL,
		opp.Location,
		opp.IsRemote,
		opp.TopicTags,
		dateArg(opp.CFPDeadline),
		dateArg(opp.EventDate),
		opp.Source,
		lastSeen.Format(dateLayout),
	).Scan(&opp.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert opportunity %s: %w", cand.URL, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &opp, !existingID.Valid, nil
}

// Query returns the opportunities matching the filter in the fixed
// deadline-then-freshness order, capped at filter.Limit.
func (s *OpportunityStore) Query(ctx context.Context, filter Filter) ([]model.Opportunity, error) {
	if filter.Limit <= 0 {
		return nil, &ValidationError{Field: "limit", Reason: "must be positive"}
	}

	where, args := filter.whereClause()
	args = append(args, filter.Limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM opportunities%s%s
		LIMIT $%d
	`, opportunityColumns, where, orderByRank, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []model.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, opp)
	}

	return opportunities, rows.Err()
}

// GetByURL retrieves a single opportunity by its URL, or nil if absent.
func (s *OpportunityStore) GetByURL(ctx context.Context, url string) (*model.Opportunity, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM opportunities
		WHERE url = $1
	`, opportunityColumns)

	rows, err := s.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity %s: %w", url, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	opp, err := scanOpportunity(rows)
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

// Count returns the total number of tracked opportunities
func (s *OpportunityStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM opportunities").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count opportunities: %w", err)
	}
	return count, nil
}

// scanOpportunity reads one row, decoding the date columns from their
// text form (Postgres's DATE scans arrive as RFC 3339 strings).
func scanOpportunity(rows *sql.Rows) (model.Opportunity, error) {
	var opp model.Opportunity
	var deadline, eventDate, lastSeen sql.NullString

	err := rows.Scan(
		&opp.ID,
		&opp.Title,
		&opp.Organizer,
		&opp.URL,
		&opp.Location,
		&opp.IsRemote,
		&opp.TopicTags,
		&deadline,
		&eventDate,
		&opp.Source,
		&lastSeen,
	)
	if err != nil {
		return model.Opportunity{}, fmt.Errorf("failed to scan opportunity: %w", err)
	}

	if opp.CFPDeadline, err = parseDate(deadline); err != nil {
		return model.Opportunity{}, err
	}
	if opp.EventDate, err = parseDate(eventDate); err != nil {
		return model.Opportunity{}, err
	}

	seen, err := parseDate(lastSeen)
	if err != nil {
		return model.Opportunity{}, err
	}
	opp.LastSeen = seen.Time

	return opp, nil
}

func parseDate(v sql.NullString) (sql.NullTime, error) {
	if !v.Valid || v.String == "" {
		return sql.NullTime{}, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, v.String); err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("unrecognized date value %q", v.String)
}

func dateArg(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time.Format(dateLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
