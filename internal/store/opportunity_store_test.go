package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jjenkins/cfpradar/internal/model"
)

// newTestStore creates an in-memory SQLite-backed store.
func newTestStore(t *testing.T) *OpportunityStore {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(context.Background()))

	return NewOpportunityStore(db)
}

func date(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func candidate(url, title string) model.Candidate {
	return model.Candidate{
		Title:     title,
		Organizer: "Example Events",
		URL:       url,
		Location:  "Chicago, IL",
		TopicTags: "AI, infrastructure",
		Source:    "sample",
	}
}

var day = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func TestUpsertAssignsIDOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, inserted, err := s.Upsert(ctx, candidate("https://example.com/cfp/a", "First title"), day)
	require.NoError(t, err)
	require.True(t, inserted)
	require.NotZero(t, first.ID)

	// Same URL, new title: the record is refreshed in place.
	second, inserted, err := s.Upsert(ctx, candidate("https://example.com/cfp/a", "Second title"), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, first.ID, second.ID)

	stored, err := s.GetByURL(ctx, "https://example.com/cfp/a")
	require.NoError(t, err)
	require.Equal(t, "Second title", stored.Title)
	require.Equal(t, first.ID, stored.ID)
	require.Equal(t, day.AddDate(0, 0, 1), stored.LastSeen)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cand := candidate("https://example.com/cfp/b", "Same title")
	first, _, err := s.Upsert(ctx, cand, day)
	require.NoError(t, err)

	second, inserted, err := s.Upsert(ctx, cand, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, first.ID, second.ID)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestUpsertCollapsesDuplicateURLs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	urls := []string{
		"https://example.com/cfp/x",
		"https://example.com/cfp/y",
		"https://example.com/cfp/x",
		"https://example.com/cfp/z",
		"https://example.com/cfp/y",
	}
	for i, u := range urls {
		_, _, err := s.Upsert(ctx, candidate(u, "Talk"), day.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestUpsertRejectsMissingRequiredFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		cand  model.Candidate
		field string
	}{
		{"empty title", model.Candidate{URL: "https://example.com/cfp/a"}, "title"},
		{"blank title", model.Candidate{Title: "   ", URL: "https://example.com/cfp/a"}, "title"},
		{"empty url", model.Candidate{Title: "A talk"}, "url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Upsert(ctx, tc.cand, day)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}

	// Nothing was stored.
	count, err := s.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestQueryOrdersByDeadlineThenFreshness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	x := candidate("https://example.com/cfp/x", "X")
	x.CFPDeadline = date(2025, 3, 1)
	y := candidate("https://example.com/cfp/y", "Y")
	z := candidate("https://example.com/cfp/z", "Z")
	z.CFPDeadline = date(2025, 1, 15)

	for _, c := range []model.Candidate{x, y, z} {
		_, _, err := s.Upsert(ctx, c, day)
		require.NoError(t, err)
	}

	results, err := s.Query(ctx, NewFilter())
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "Z", results[0].Title)
	require.Equal(t, "X", results[1].Title)
	require.Equal(t, "Y", results[2].Title)
}

func TestQueryOrderingInvariant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Mix of dated, tied-deadline and undated records with varied
	// freshness.
	specs := []struct {
		url      string
		deadline sql.NullTime
		seen     time.Time
	}{
		{"https://example.com/1", date(2025, 3, 1), day},
		{"https://example.com/2", sql.NullTime{}, day.AddDate(0, 0, 3)},
		{"https://example.com/3", date(2025, 1, 15), day.AddDate(0, 0, 1)},
		{"https://example.com/4", date(2025, 1, 15), day.AddDate(0, 0, 5)},
		{"https://example.com/5", sql.NullTime{}, day},
		{"https://example.com/6", date(2025, 6, 30), day.AddDate(0, 0, 2)},
	}
	for _, sp := range specs {
		c := candidate(sp.url, "Talk")
		c.CFPDeadline = sp.deadline
		_, _, err := s.Upsert(ctx, c, sp.seen)
		require.NoError(t, err)
	}

	results, err := s.Query(ctx, NewFilter())
	require.NoError(t, err)
	require.Len(t, results, len(specs))

	for i := 0; i < len(results)-1; i++ {
		a, b := results[i], results[i+1]
		switch {
		case a.CFPDeadline.Valid && b.CFPDeadline.Valid:
			if a.CFPDeadline.Time.Equal(b.CFPDeadline.Time) {
				require.False(t, a.LastSeen.Before(b.LastSeen),
					"tied deadlines must order by last_seen descending at %d", i)
			} else {
				require.True(t, a.CFPDeadline.Time.Before(b.CFPDeadline.Time),
					"deadlines must ascend at %d", i)
			}
		case a.CFPDeadline.Valid && !b.CFPDeadline.Valid:
			// dated before undated: ok
		case !a.CFPDeadline.Valid && b.CFPDeadline.Valid:
			t.Fatalf("undated record before dated one at %d", i)
		default:
			require.False(t, a.LastSeen.Before(b.LastSeen),
				"undated records must order by last_seen descending at %d", i)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ai := candidate("https://example.com/cfp/ai", "Call for Speakers: AI Infrastructure Summit")
	ai.TopicTags = "AI, data centers, infrastructure"

	sus := candidate("https://example.com/cfp/sus", "Webinar Speakers Needed: Sustainable Energy Tech")
	sus.Organizer = "Green Webinar Org"
	sus.TopicTags = "Sustainability, energy, grid"
	sus.IsRemote = true

	ics := candidate("https://example.com/cfp/ics", "Panel Opportunity: Cybersecurity in Industrial Systems")
	ics.TopicTags = "cybersecurity, industrial, OT"

	for _, c := range []model.Candidate{ai, sus, ics} {
		_, _, err := s.Upsert(ctx, c, day)
		require.NoError(t, err)
	}

	t.Run("text matches title case-insensitively", func(t *testing.T) {
		f := NewFilter()
		f.Text = "ai infra"
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, ai.URL, results[0].URL)
	})

	t.Run("text matches organizer", func(t *testing.T) {
		f := NewFilter()
		f.Text = "green webinar"
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, sus.URL, results[0].URL)
	})

	t.Run("tag matches case-insensitively", func(t *testing.T) {
		f := NewFilter()
		f.Tag = "sustainability"
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, sus.URL, results[0].URL)
	})

	t.Run("remote true", func(t *testing.T) {
		f := NewFilter()
		f.Remote = sql.NullBool{Bool: true, Valid: true}
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.True(t, results[0].IsRemote)
	})

	t.Run("remote false", func(t *testing.T) {
		f := NewFilter()
		f.Remote = sql.NullBool{Bool: false, Valid: true}
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			require.False(t, r.IsRemote)
		}
	})

	t.Run("remote unconstrained", func(t *testing.T) {
		results, err := s.Query(ctx, NewFilter())
		require.NoError(t, err)
		require.Len(t, results, 3)
	})

	t.Run("filters AND-compose", func(t *testing.T) {
		f := NewFilter()
		f.Tag = "energy"
		f.Remote = sql.NullBool{Bool: false, Valid: true}
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Empty(t, results)
	})
}

func TestQueryLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, deadline := range []sql.NullTime{date(2025, 3, 1), date(2025, 1, 15), {}} {
		c := candidate("https://example.com/cfp/"+string(rune('a'+i)), "Talk")
		c.CFPDeadline = deadline
		_, _, err := s.Upsert(ctx, c, day)
		require.NoError(t, err)
	}

	t.Run("caps at the highest-ranked record", func(t *testing.T) {
		f := NewFilter()
		f.Limit = 1
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, date(2025, 1, 15).Time, results[0].CFPDeadline.Time)
	})

	t.Run("oversized limit truncates without failing", func(t *testing.T) {
		f := NewFilter()
		f.Limit = 10000
		results, err := s.Query(ctx, f)
		require.NoError(t, err)
		require.Len(t, results, 3)
	})

	t.Run("non-positive limit is rejected", func(t *testing.T) {
		for _, limit := range []int{0, -1} {
			f := NewFilter()
			f.Limit = limit
			_, err := s.Query(ctx, f)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "limit", verr.Field)
		}
	})
}

func TestGetByURLMissing(t *testing.T) {
	s := newTestStore(t)

	opp, err := s.GetByURL(context.Background(), "https://example.com/nope")
	require.NoError(t, err)
	require.Nil(t, opp)
}

func TestOpenUnavailable(t *testing.T) {
	// A path inside a nonexistent directory cannot be opened.
	_, err := Open("/nonexistent-dir/sub/opportunities.db")
	require.Error(t, err)
}
