package cmd

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jjenkins/cfpradar/internal/handlers"
	"github.com/jjenkins/cfpradar/internal/store"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the opportunity finder web server",
	Long:  `Start the web server that lists tracked speaking opportunities.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Use PORT env var if set, otherwise use flag value
		if envPort := os.Getenv("PORT"); envPort != "" && port == "8080" {
			port = envPort
		}

		// DATABASE_URL selects Postgres; unset falls back to a local
		// SQLite file for quick testing
		db, err := store.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		oppStore := store.NewOpportunityStore(db)

		app := fiber.New(fiber.Config{
			AppName: "Speaking Opportunity Finder",
		})

		app.Use(logger.New())

		// Routes
		app.Get("/", handlers.HomeHandler(oppStore))
		app.Get("/api/opportunities", handlers.APIOpportunitiesHandler(oppStore))

		log.Printf("Starting server on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}
