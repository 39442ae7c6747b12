package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"faq-agentic-be/internal/dto"
	"faq-agentic-be/internal/entity"
	"faq-agentic-be/pkg/scraper"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestIngestURLPublishesChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + strings.Repeat("Admissions info. ", 50) + "</p></body></html>"))
	}))
	defer srv.Close()

	store := newFakeStore()
	factory := &fakeFactory{store: store}
	publisher := &recordingPublisher{}
	svc := NewIngestService(scraper.NewWithClient(srv.Client()), publisher, factory, 200, nopLogger{})

	chunks, err := svc.IngestURL(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Greater(t, chunks, 1)
	assert.Len(t, publisher.payloads, chunks)

	var first dto.IngestChunkMessage
	assert.NoError(t, json.Unmarshal(publisher.payloads[0], &first))
	assert.Equal(t, srv.URL, first.SourceUrl)
	assert.Equal(t, 0, first.ChunkIndex)
	assert.NotEmpty(t, first.Content)
}

func TestIngestURLReplacesExistingChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Short FAQ content.</p></body></html>"))
	}))
	defer srv.Close()

	store := newFakeStore()
	store.docs = append(store.docs, &entity.FaqDocument{SourceUrl: srv.URL})
	factory := &fakeFactory{store: store}
	svc := NewIngestService(scraper.NewWithClient(srv.Client()), &recordingPublisher{}, factory, 1000, nopLogger{})

	_, err := svc.IngestURL(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Empty(t, store.docs, "stale chunks for the source must be cleared")
}

func TestIngestURLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	factory := &fakeFactory{store: newFakeStore()}
	svc := NewIngestService(scraper.NewWithClient(srv.Client()), &recordingPublisher{}, factory, 1000, nopLogger{})

	chunks, err := svc.IngestURL(context.Background(), srv.URL)

	assert.Error(t, err)
	assert.Zero(t, chunks)
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		size       int
		wantChunks int
	}{
		{"fits in one chunk", "short text", 100, 1},
		{"splits on sentence boundary", strings.Repeat("One sentence here. ", 20), 100, 4},
		{"empty after trim", "   ", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkText(tt.text, tt.size)
			assert.Len(t, chunks, tt.wantChunks)
			for _, c := range chunks {
				assert.LessOrEqual(t, len([]rune(c)), tt.size)
				assert.NotEmpty(t, c)
			}
		})
	}
}

func TestChunkTextPrefersSentenceBreaks(t *testing.T) {
	text := "First sentence about admission fees now. Second sentence about deadlines and more."
	chunks := chunkText(text, 40)

	assert.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "First sentence about admission fees now.", chunks[0])
}
