// Package scraper fetches web pages and extracts their visible text. It is
// best-effort by contract: an unreachable page is skipped, not fatal, and
// partial results are returned.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PageContent is the extracted text of one fetched page.
type PageContent struct {
	URL  string
	Text string
}

type Scraper struct {
	client *http.Client
}

func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewWithClient is used by tests to point the scraper at a test server.
func NewWithClient(client *http.Client) *Scraper {
	return &Scraper{client: client}
}

// FetchAll fetches every URL and returns whatever succeeded. The error is
// non-nil only when every fetch failed.
func (s *Scraper) FetchAll(ctx context.Context, urls []string) ([]PageContent, error) {
	var pages []PageContent
	var lastErr error

	for _, url := range urls {
		page, err := s.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all fetches failed: %w", lastErr)
	}
	return pages, nil
}

func (s *Scraper) Fetch(ctx context.Context, url string) (PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return PageContent{}, err
	}
	req.Header.Set("User-Agent", "faq-agentic-be/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return PageContent{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PageContent{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	text, err := ExtractText(resp.Body)
	if err != nil {
		return PageContent{}, fmt.Errorf("parse %s: %w", url, err)
	}

	return PageContent{URL: url, Text: text}, nil
}

// ExtractText walks the HTML tree collecting text nodes, skipping script and
// style subtrees. Whitespace runs collapse to single spaces.
func ExtractText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return sb.String(), nil
}
