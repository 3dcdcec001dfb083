package notionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/lmcosta/financas-familia/internal/logger"
	"github.com/lmcosta/financas-familia/internal/store"
)

// Report summarizes what a sync run did.
type Report struct {
	Created int
	Deleted int
	Skipped int
	Total   int
}

// SyncMonth mirrors the owner's transactions for one month into the Notion
// database. Pages carry the transaction id, so re-running is idempotent:
// existing pages are kept, pages whose transaction no longer exists are
// archived, missing ones are created. dryRun only reports what would happen.
func SyncMonth(ctx context.Context, st store.Store, notion NotionService, databaseID, ownerID string, month time.Month, year int, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-24 * time.Hour)

	log.Info().
		Str("month", start.Format("2006-01")).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	txs, err := st.ListTransactionsByDateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	categories, err := st.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	valid := make(map[string]bool, len(txs))
	for _, tx := range txs {
		valid[tx.ID] = true
	}

	pages, err := queryAllNotionPages(ctx, notion, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query Notion pages: %w", err)
	}

	report := &Report{Total: len(txs)}

	existing := make(map[string]bool, len(pages))
	for _, page := range pages {
		txID := extractTransactionID(page)
		if txID != "" && valid[txID] {
			existing[txID] = true
			continue
		}

		// Stale page: no id, or its transaction is gone.
		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			report.Deleted++
			continue
		}
		if err := notion.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		report.Deleted++
	}

	for _, tx := range txs {
		if existing[tx.ID] {
			report.Skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Msg("[DRY RUN] Would create Notion page")
			report.Created++
			continue
		}

		props := TransactionToNotionProperties(tx, categoryNames)
		page, err := notion.CreatePage(ctx, databaseID, props)
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Info().
			Str("transaction_id", tx.ID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		report.Created++
	}

	log.Info().
		Int("created", report.Created).
		Int("deleted", report.Deleted).
		Int("skipped", report.Skipped).
		Int("total", report.Total).
		Msg("Transaction sync completed")

	return report, nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notion NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
