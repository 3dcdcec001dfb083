package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lmcosta/financas-familia/internal/archive"
	"github.com/lmcosta/financas-familia/internal/backup"
	infraBQ "github.com/lmcosta/financas-familia/internal/infra/bigquery"
	"github.com/lmcosta/financas-familia/internal/logger"
)

func main() {
	// Initialize structured logger
	log := logger.New("backup")

	// Parse CLI flags
	ownerID := flag.String("owner", "", "Owner user ID to export (required)")
	email := flag.String("email", "", "Owner email recorded in the snapshot")
	out := flag.String("out", "", "Output file path (default: backup-financas-<timestamp>.json)")
	bucket := flag.String("bucket", os.Getenv("BACKUP_BUCKET"), "GCS bucket to archive the snapshot to (or set BACKUP_BUCKET env)")
	list := flag.Bool("list", false, "List archived snapshots for the owner instead of exporting")
	project := flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID (or set GCP_PROJECT env)")
	dataset := flag.String("dataset", os.Getenv("BQ_DATASET"), "BigQuery dataset (or set BQ_DATASET env)")
	flag.Parse()

	// Validate required flags
	if *ownerID == "" {
		log.Fatal().Msg("Error: --owner is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *list {
		if *bucket == "" {
			log.Fatal().Msg("Error: --bucket is required with --list")
		}

		arc, err := archive.New(ctx, *bucket, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create snapshot archive")
		}
		defer arc.Close()

		entries, err := arc.List(ctx, *ownerID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list archived snapshots")
		}

		if len(entries) == 0 {
			fmt.Println("No archived snapshots found.")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s\t%d bytes\t%s\n", e.Name, e.Size, e.Created.Format(time.RFC3339))
		}
		return
	}

	if *project == "" || *dataset == "" {
		log.Fatal().Msg("Error: --project and --dataset are required")
	}

	// Initialize the data store
	st, err := infraBQ.New(ctx, *project, *dataset, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	defer st.Close()

	// Export the owner's snapshot
	snap, err := backup.NewExporter(st, log).Export(ctx, *ownerID, *email)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	path := *out
	if path == "" {
		path = backup.Filename(snap.CreatedAt)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write snapshot file")
	}

	log.Info().
		Str("path", path).
		Int("bytes", len(data)).
		Str("checksum", snap.Checksum).
		Msg("Snapshot written")

	// Optional off-site copy
	if *bucket != "" {
		arc, err := archive.New(ctx, *bucket, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create snapshot archive")
		}
		defer arc.Close()

		uri, err := arc.Upload(ctx, *ownerID, snap)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to archive snapshot")
		}
		fmt.Printf("Snapshot archived at %s\n", uri)
	}

	fmt.Printf("Backup written to %s\n", path)
}
