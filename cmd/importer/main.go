package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samirrijal/expedition-planner/internal/adapters/export"
	"github.com/samirrijal/expedition-planner/internal/adapters/postgres"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
	"github.com/samirrijal/expedition-planner/internal/pkg/config"
)

// importer loads itinerary JSON exports into the database:
//
//	importer lyngen.json sarek.json ...
//
// Each file becomes a new itinerary named after the file.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <export.json>...")
	}

	cfg, err := config.Load("expedition-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.Database.Enabled {
		log.Fatal("importer requires database.enabled=true")
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	svc := usecases.NewItineraryService(postgres.NewItineraryRepo(db), nil)

	var wg sync.WaitGroup
	var failed atomic.Int32
	sem := make(chan struct{}, 4) // max 4 concurrent imports

	for _, path := range os.Args[1:] {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			id, n, err := importFile(ctx, svc, path)
			if err != nil {
				failed.Add(1)
				log.Printf("ERROR [%s]: %v", path, err)
				return
			}
			log.Printf("[%s] imported %d waypoints as %s", path, n, id)
		}(path)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatalf("%d of %d files failed", n, len(os.Args)-1)
	}
	log.Println("import complete")
}

func importFile(ctx context.Context, svc *usecases.ItineraryService, path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	view, err := export.ReadJSON(f)
	if err != nil {
		return "", 0, fmt.Errorf("parse: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	saved, err := svc.Import(ctx, name, view)
	if err != nil {
		return "", 0, err
	}
	return saved.ID, saved.Itinerary.Len(), nil
}
