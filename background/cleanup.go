// Package background contains services that run independently of the HTTP
// request-response cycle.
package background

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyshnavipusrala/backend/storage"
)

const (
	// janitorTickerDuration is how often the janitor sweeps the upload
	// directory.
	janitorTickerDuration = 1 * time.Hour

	// janitorMinAge is how old an unreferenced upload must be before the
	// janitor removes it. The grace period covers uploads whose post insert
	// is still in flight.
	janitorMinAge = 1 * time.Hour

	// janitorQueryTimeout bounds each sweep's database query.
	janitorQueryTimeout = 30 * time.Second
)

// StartUploadJanitor launches a background sweeper that deletes uploaded
// files no post references anymore. Orphans accumulate because updating a
// post's image leaves the previous file on disk.
//
// The janitor runs until stopChan is closed; the returned WaitGroup is done
// once the sweeper has fully drained.
func StartUploadJanitor(dbPool *pgxpool.Pool, store *storage.Local, stopChan <-chan struct{}) *sync.WaitGroup {
	log.Println("Upload janitor starting...")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer log.Println("Upload janitor stopped.")

		ticker := time.NewTicker(janitorTickerDuration)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sweepUploads(dbPool, store)
			case <-stopChan:
				return
			}
		}
	}()
	return &wg
}

// sweepUploads removes files in the upload directory that no post references
// and that are older than the grace period.
func sweepUploads(dbPool *pgxpool.Pool, store *storage.Local) {
	ctx, cancel := context.WithTimeout(context.Background(), janitorQueryTimeout)
	defer cancel()

	referenced, err := referencedImages(ctx, dbPool)
	if err != nil {
		log.Printf("Upload janitor: failed to load referenced images: %v", err)
		return
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		log.Printf("Upload janitor: failed to read upload directory: %v", err)
		return
	}

	cutoff := time.Now().Add(-janitorMinAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if referenced[storage.PublicPrefix+entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(store.Dir(), entry.Name())); err != nil {
			log.Printf("Upload janitor: failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Upload janitor: removed %d orphaned upload(s)", removed)
	}
}

// referencedImages returns the set of image paths currently attached to posts.
func referencedImages(ctx context.Context, dbPool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := dbPool.Query(ctx, `SELECT image FROM posts WHERE image IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenced := make(map[string]bool)
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, err
		}
		referenced[image] = true
	}
	return referenced, rows.Err()
}
