package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"faq-agentic-be/internal/bootstrap"
	"faq-agentic-be/internal/config"
	"faq-agentic-be/pkg/database"

	"github.com/fatih/color"
)

// Ingests FAQ content pages into the vector store. Usage:
//
//	go run ./cmd/ingest -urls https://site/faq,https://site/admissions
//
// With no -urls flag the configured FAQ_SOURCE_URL is used.
func main() {
	urlsFlag := flag.String("urls", "", "comma-separated list of pages to ingest")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for embedding consumers to drain")
	flag.Parse()

	cfg := config.Load()

	var urls []string
	if *urlsFlag != "" {
		urls = strings.Split(*urlsFlag, ",")
	} else if cfg.Ingest.FaqSourceURL != "" {
		urls = []string{cfg.Ingest.FaqSourceURL}
	}
	if len(urls) == 0 {
		log.Fatal("Error: no URLs to ingest (pass -urls or set FAQ_SOURCE_URL)")
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Error: Failed to start embedding consumer: %v", err)
	}

	total := 0
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		chunks, err := container.IngestService.IngestURL(ctx, url)
		if err != nil {
			color.Red("FAIL  %s: %v", url, err)
			continue
		}
		color.Green("OK    %s (%d chunks)", url, chunks)
		total += chunks
	}

	// The consumer embeds asynchronously; give it time to drain before exit.
	color.Yellow("Published %d chunks, waiting %s for embedding...", total, *wait)
	time.Sleep(*wait)
	color.Green("Done")
}
