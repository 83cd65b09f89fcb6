package handlers

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/cfpradar/internal/model"
	"github.com/jjenkins/cfpradar/internal/store"
)

// opportunityJSON is the wire shape of one record. Absent optional
// fields serialize as null; dates as YYYY-MM-DD.
type opportunityJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Organizer   *string `json:"organizer"`
	URL         string  `json:"url"`
	Location    *string `json:"location"`
	IsRemote    bool    `json:"is_remote"`
	TopicTags   *string `json:"topic_tags"`
	CFPDeadline *string `json:"cfp_deadline"`
	EventDate   *string `json:"event_date"`
	Source      *string `json:"source"`
	LastSeen    string  `json:"last_seen"`
}

type listResponse struct {
	Count   int               `json:"count"`
	Results []opportunityJSON `json:"results"`
}

// APIOpportunitiesHandler serves the read-only JSON listing endpoint.
// Parameters q, tag, remote and limit are independently optional.
func APIOpportunitiesHandler(oppStore *store.OpportunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		filter := store.NewFilter()
		filter.Text = c.Query("q")
		filter.Tag = c.Query("tag")

		remote, err := parseRemote(c.Query("remote"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		filter.Remote = remote

		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		filter.Limit = limit

		results, err := oppStore.Query(ctx, filter)
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load opportunities"})
		}

		resp := listResponse{
			Count:   len(results),
			Results: make([]opportunityJSON, 0, len(results)),
		}
		for _, opp := range results {
			resp.Results = append(resp.Results, toJSON(opp))
		}

		return c.JSON(resp)
	}
}

func toJSON(opp model.Opportunity) opportunityJSON {
	return opportunityJSON{
		ID:          opp.ID,
		Title:       opp.Title,
		Organizer:   optString(opp.Organizer),
		URL:         opp.URL,
		Location:    optString(opp.Location),
		IsRemote:    opp.IsRemote,
		TopicTags:   optString(opp.TopicTags),
		CFPDeadline: optDate(opp.CFPDeadline),
		EventDate:   optDate(opp.EventDate),
		Source:      optString(opp.Source),
		LastSeen:    opp.LastSeen.Format("2006-01-02"),
	}
}

func optString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func optDate(v sql.NullTime) *string {
	if !v.Valid {
		return nil
	}
	s := v.Time.Format("2006-01-02")
	return &s
}
