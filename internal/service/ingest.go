package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jjenkins/cfpradar/internal/model"
	"github.com/jjenkins/cfpradar/internal/store"
)

// IngestStats tracks the outcome of one refresh run
type IngestStats struct {
	Sources  int
	Total    int
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
	// Reasons lists every skipped or failed record with why, for the
	// per-batch summary.
	Reasons []string
}

// Ingestor applies batches of candidate records to the opportunity
// store. A record failing validation is skipped and reported while the
// rest of the batch proceeds; only an unreachable store aborts the run.
type Ingestor struct {
	store     *store.OpportunityStore
	logger    *log.Logger
	errLogger *log.Logger
}

// NewIngestor creates a new Ingestor
func NewIngestor(s *store.OpportunityStore) *Ingestor {
	return &Ingestor{
		store:     s,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Run fetches every source and upserts its candidates, stamping each
// accepted record's last_seen with runDate regardless of what the
// source supplied. One source failing does not stop the others.
func (i *Ingestor) Run(ctx context.Context, sources []Source, runDate time.Time) (*IngestStats, error) {
	stats := &IngestStats{}

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		i.logger.Printf("Fetching candidates from source %q...", src.Name())
		candidates, err := src.Fetch(ctx)
		if err != nil {
			i.errLogger.Printf("Source %q failed: %v", src.Name(), err)
			stats.Failed++
			stats.Reasons = append(stats.Reasons, fmt.Sprintf("source %s: fetch failed: %v", src.Name(), err))
			continue
		}

		stats.Sources++
		i.logger.Printf("Source %q reported %d candidates", src.Name(), len(candidates))

		for _, cand := range candidates {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			default:
			}

			stats.Total++
			if err := i.ingestOne(ctx, src.Name(), cand, runDate, stats); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

// ingestOne applies a single candidate. It returns an error only when
// the store is unreachable; every per-record failure is absorbed into
// the stats.
func (i *Ingestor) ingestOne(ctx context.Context, source string, cand model.Candidate, runDate time.Time, stats *IngestStats) error {
	_, inserted, err := i.store.Upsert(ctx, cand, runDate)

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		i.errLogger.Printf("Skipping candidate %q from %s: %v", cand.Title, source, verr)
		stats.Skipped++
		stats.Reasons = append(stats.Reasons, fmt.Sprintf("%s: skipped %q: %v", source, cand.URL, verr))
	case err != nil && errors.Is(err, store.ErrUnavailable):
		return err
	case err != nil && store.IsConstraintViolation(err):
		i.errLogger.Printf("Conflicting write for %s: %v", cand.URL, err)
		stats.Failed++
		stats.Reasons = append(stats.Reasons, fmt.Sprintf("%s: conflict on %q (retryable): %v", source, cand.URL, err))
	case err != nil:
		i.errLogger.Printf("Failed to store %s: %v", cand.URL, err)
		stats.Failed++
		stats.Reasons = append(stats.Reasons, fmt.Sprintf("%s: failed %q: %v", source, cand.URL, err))
	case inserted:
		stats.Inserted++
	default:
		stats.Updated++
	}

	return nil
}

// PrintSummary prints the refresh statistics
func (i *Ingestor) PrintSummary(stats *IngestStats) {
	i.logger.Println("")
	i.logger.Println("=== Refresh Summary ===")
	i.logger.Printf("Sources:         %d", stats.Sources)
	i.logger.Printf("Total records:   %d", stats.Total)
	i.logger.Printf("Inserted:        %d", stats.Inserted)
	i.logger.Printf("Updated:         %d", stats.Updated)
	i.logger.Printf("Skipped:         %d", stats.Skipped)
	i.logger.Printf("Failed:          %d", stats.Failed)

	if len(stats.Reasons) > 0 {
		i.logger.Println("Skipped/failed records:")
		for _, reason := range stats.Reasons {
			i.logger.Printf("  - %s", reason)
		}
	}
}
