package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	infraBQ "github.com/lmcosta/financas-familia/internal/infra/bigquery"
	"github.com/lmcosta/financas-familia/internal/logger"
	"github.com/lmcosta/financas-familia/internal/notionsync"
)

func main() {
	// Initialize structured logger
	log := logger.New("sync-notion")

	// Parse CLI flags
	ownerID := flag.String("owner", "", "Owner user ID whose transactions to sync (required)")
	monthStr := flag.String("month", "", "Month to sync in YYYY-MM format (required)")
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
	notionDBID := flag.String("notion-db-id", "", "Notion database ID (required)")
	project := flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID (or set GCP_PROJECT env)")
	dataset := flag.String("dataset", os.Getenv("BQ_DATASET"), "BigQuery dataset (or set BQ_DATASET env)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	// Validate required flags
	if *ownerID == "" {
		log.Fatal().Msg("Error: --owner is required")
	}
	if *monthStr == "" {
		log.Fatal().Msg("Error: --month is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}
	if *project == "" || *dataset == "" {
		log.Fatal().Msg("Error: --project and --dataset are required")
	}

	month, err := time.Parse("2006-01", *monthStr)
	if err != nil {
		log.Fatal().Err(err).Str("month", *monthStr).Msg("Error: invalid month format, expected YYYY-MM")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("owner_id", *ownerID).
		Str("month", *monthStr).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	// Initialize the data store
	st, err := infraBQ.New(ctx, *project, *dataset, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	defer st.Close()

	// Initialize Notion client
	notionClient := notionsync.NewNotionClient(*notionToken)

	// Sync the month's transactions
	report, err := notionsync.SyncMonth(ctx, st, notionClient, *notionDBID, *ownerID, month.Month(), month.Year(), *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d created, %d deleted, %d skipped (%d total).\n",
		report.Created, report.Deleted, report.Skipped, report.Total)
}
