package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jjenkins/cfpradar/internal/model"
)

// Source produces batches of candidate opportunities from one upstream
// site or feed. Real scrapers implement this interface and register
// with the refresh command; the ingestion engine itself has no
// source-specific knowledge.
type Source interface {
	// Name identifies the source in logs and in the stored records.
	Name() string
	// Fetch returns the candidates the source currently advertises.
	Fetch(ctx context.Context) ([]model.Candidate, error)
}

// SampleSource stands in for real scrapers during development. It
// reports a static batch so the rest of the pipeline can be exercised
// end to end.
type SampleSource struct {
	now func() time.Time
}

// NewSampleSource creates a SampleSource using the wall clock.
func NewSampleSource() *SampleSource {
	return &SampleSource{now: time.Now}
}

// Name implements Source.
func (s *SampleSource) Name() string {
	return "sample"
}

// Fetch implements Source.
func (s *SampleSource) Fetch(ctx context.Context) ([]model.Candidate, error) {
	today := s.now()
	deadline := time.Date(today.Year(), today.Month(), min(today.Day(), 28), 0, 0, 0, 0, time.UTC)

	return []model.Candidate{
		{
			Title:       "Call for Speakers: AI Infrastructure Summit",
			Organizer:   "Example Events",
			URL:         "https://example.com/cfp/ai-infra",
			Location:    "San Francisco, CA",
			IsRemote:    false,
			TopicTags:   "AI, data centers, infrastructure",
			CFPDeadline: sql.NullTime{Time: deadline, Valid: true},
			Source:      s.Name(),
		},
		{
			Title:     "Webinar Speakers Needed: Sustainable Energy Tech",
			Organizer: "Example Webinar Org",
			URL:       "https://example.com/cfp/sustainability-webinar",
			Location:  "Remote",
			IsRemote:  true,
			TopicTags: "sustainability, energy, grid",
			Source:    s.Name(),
		},
		{
			Title:     "Panel Opportunity: Cybersecurity in Industrial Systems",
			Organizer: "Example Conference",
			URL:       "https://example.com/cfp/ics-security",
			Location:  "Chicago, IL",
			IsRemote:  false,
			TopicTags: "cybersecurity, industrial, OT",
			Source:    s.Name(),
		},
	}, nil
}
