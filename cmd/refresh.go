package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jjenkins/cfpradar/internal/service"
	"github.com/jjenkins/cfpradar/internal/store"
	"github.com/spf13/cobra"
)

var refreshDate string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ingest opportunities from all registered sources",
	Long: `Refresh fetches candidate records from every registered source and
upserts them into the store, deduplicated by URL.

Records already known keep their id; their fields and last_seen date are
overwritten with what the source currently reports. Candidates missing a
title or URL are skipped and reported in the summary while the rest of
the batch proceeds.

Examples:
  # Refresh with today's date
  ./cfpradar refresh

  # Stamp records as seen on a specific date
  ./cfpradar refresh --date 2025-01-15`,
	Run: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	today := time.Now().Format("2006-01-02")
	refreshCmd.Flags().StringVarP(&refreshDate, "date", "d", today, "Ingestion run date (YYYY-MM-DD)")
}

func runRefresh(cmd *cobra.Command, args []string) {
	runDate, err := time.Parse("2006-01-02", refreshDate)
	if err != nil {
		log.Fatalf("Invalid date format: %v", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	log.Println("Connecting to database...")
	db, err := store.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Real scrapers register here alongside the sample source.
	sources := []service.Source{
		service.NewSampleSource(),
	}

	ingestor := service.NewIngestor(store.NewOpportunityStore(db))

	log.Printf("Starting refresh for date: %s", refreshDate)
	stats, err := ingestor.Run(ctx, sources, runDate)
	if err != nil {
		if ctx.Err() != nil {
			log.Println("Refresh cancelled")
			ingestor.PrintSummary(stats)
			os.Exit(1)
		}
		log.Fatalf("Refresh failed: %v", err)
	}
	ingestor.PrintSummary(stats)

	if stats.Failed > 0 {
		os.Exit(1)
	}
}
