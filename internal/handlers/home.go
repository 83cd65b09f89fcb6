package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jjenkins/cfpradar/internal/store"
	"github.com/jjenkins/cfpradar/internal/templates"
)

// HomeHandler serves the HTML search page.
func HomeHandler(oppStore *store.OpportunityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		params := templates.SearchParams{
			Query:  c.Query("q"),
			Tag:    c.Query("tag"),
			Remote: c.Query("remote"),
		}

		filter := store.NewFilter()
		filter.Text = params.Query
		filter.Tag = params.Tag

		remote, err := parseRemote(params.Remote)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		filter.Remote = remote

		results, err := oppStore.Query(ctx, filter)
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).SendString(verr.Error())
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading opportunities")
		}

		total, err := oppStore.Count(ctx)
		if err != nil {
			log.Printf("Error counting opportunities: %v", err)
		}

		page := templates.Home(params, results, total)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
