// Package archive keeps off-site copies of exported snapshots in a GCS
// bucket, one object per export, named by owner and export date.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"github.com/lmcosta/financas-familia/internal/backup"
)

// Archive writes and reads snapshot objects in one bucket.
type Archive struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// New creates an Archive with its own storage client. It assumes Application
// Default Credentials are configured. Call Close when done.
func New(ctx context.Context, bucket string, log zerolog.Logger) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Archive{
		client: client,
		bucket: bucket,
		log:    log.With().Str("component", "archive").Logger(),
	}, nil
}

// Close releases the underlying client.
func (a *Archive) Close() error {
	return a.client.Close()
}

// objectName places each owner's snapshots under their own prefix.
func objectName(ownerID string, createdAt time.Time) string {
	return fmt.Sprintf("%s/%s", ownerID, backup.Filename(createdAt))
}

// Upload stores the snapshot as a JSON object and returns its gs:// URI.
func (a *Archive) Upload(ctx context.Context, ownerID string, snap *backup.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := objectName(ownerID, snap.CreatedAt)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write snapshot object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	uri := "gs://" + a.bucket + "/" + name
	a.log.Info().
		Str("uri", uri).
		Int("bytes", len(data)).
		Msg("Snapshot archived")

	return uri, nil
}

// Fetch reads back an archived snapshot by object name.
func (a *Archive) Fetch(ctx context.Context, name string) (*backup.Snapshot, error) {
	rc, err := a.client.Bucket(a.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}

	var snap backup.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}

	return &snap, nil
}

// Entry describes one archived snapshot object.
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

// List returns the owner's archived snapshots, newest first.
func (a *Archive) List(ctx context.Context, ownerID string) ([]Entry, error) {
	it := a.client.Bucket(a.bucket).Objects(ctx, &storage.Query{
		Prefix: ownerID + "/",
	})

	var entries []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		entries = append(entries, Entry{
			Name:    attrs.Name,
			Size:    attrs.Size,
			Created: attrs.Created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Created.After(entries[j].Created)
	})

	return entries, nil
}
