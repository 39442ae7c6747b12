package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"faq-agentic-be/internal/dto"
	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/internal/repository/unitofwork"
	"faq-agentic-be/pkg/scraper"
)

type IIngestService interface {
	// IngestURL scrapes one page, replaces any previously stored chunks for
	// that source, and publishes the new chunks for embedding. Returns the
	// number of chunks published.
	IngestURL(ctx context.Context, url string) (int, error)
}

type ingestService struct {
	scraper          *scraper.Scraper
	publisherService IPublisherService
	uowFactory       unitofwork.RepositoryFactory
	chunkSize        int
	log              logger.ILogger
}

func NewIngestService(
	sc *scraper.Scraper,
	publisherService IPublisherService,
	uowFactory unitofwork.RepositoryFactory,
	chunkSize int,
	log logger.ILogger,
) IIngestService {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &ingestService{
		scraper:          sc,
		publisherService: publisherService,
		uowFactory:       uowFactory,
		chunkSize:        chunkSize,
		log:              log,
	}
}

func (s *ingestService) IngestURL(ctx context.Context, url string) (int, error) {
	// 1. Fetch and extract the page text.
	page, err := s.scraper.Fetch(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if strings.TrimSpace(page.Text) == "" {
		return 0, fmt.Errorf("no extractable text at %s", url)
	}

	// 2. Re-ingesting a source replaces it; stale chunks would otherwise
	// keep surfacing in retrieval alongside the fresh ones.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FaqDocumentRepository().DeleteBySourceUrl(ctx, url); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks for %s: %w", url, err)
	}

	// 3. Chunk and publish; the consumer embeds and stores asynchronously.
	chunks := chunkText(page.Text, s.chunkSize)
	for i, chunk := range chunks {
		payload, err := json.Marshal(dto.IngestChunkMessage{
			SourceUrl:  url,
			ChunkIndex: i,
			Content:    chunk,
		})
		if err != nil {
			return i, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return i, fmt.Errorf("failed to publish chunk %d: %w", i, err)
		}
	}

	s.log.Info("ingest_service", "published content chunks", map[string]interface{}{
		"source_url": url,
		"chunks":     len(chunks),
	})

	return len(chunks), nil
}

// chunkText splits text into pieces of at most size runes, preferring to cut
// at a sentence or word boundary near the end of each piece.
func chunkText(text string, size int) []string {
	runes := []rune(strings.TrimSpace(text))
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		cut := size
		// Walk back looking for a natural break; give up after a third of
		// the chunk and cut hard.
		for i := size; i > size*2/3; i-- {
			if runes[i-1] == '.' || runes[i-1] == '\n' {
				cut = i
				break
			}
			if runes[i-1] == ' ' && cut == size {
				cut = i
			}
		}

		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
	}

	return chunks
}
