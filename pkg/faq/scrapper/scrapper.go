// Package scrapper is the escalation agent: when primary retrieval is weak
// or empty it widens the search to auxiliary FAQ pages, and when that fails
// too it hands the user to human support.
package scrapper

import (
	"context"
	"fmt"
	"strings"

	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/pkg/faq"
	"faq-agentic-be/pkg/scraper"
)

// ContentFetcher abstracts the auxiliary page fetch; pkg/scraper implements
// it, tests substitute a fake.
type ContentFetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]scraper.PageContent, error)
}

// EscalationNotifier is told about human escalations so support channels can
// follow up. The session id identifies which conversation to pick up. Both
// hooks are best-effort; failures are logged and swallowed.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, query, sessionId string) error
}

type Config struct {
	// OverlapThreshold is the fraction of the query's distinct lowercase
	// words that must appear in a page before it counts as relevant.
	OverlapThreshold float64
	// MaxSources caps how many auxiliary pages one escalation consults.
	MaxSources   int
	SupportEmail string
	SearchURLs   []string
}

type Agent struct {
	fetcher   ContentFetcher
	cfg       Config
	notifiers []EscalationNotifier
	logger    logger.ILogger
}

func NewAgent(fetcher ContentFetcher, cfg Config, log logger.ILogger, notifiers ...EscalationNotifier) *Agent {
	if cfg.OverlapThreshold <= 0 {
		cfg.OverlapThreshold = 0.30
	}
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = 3
	}
	return &Agent{
		fetcher:   fetcher,
		cfg:       cfg,
		notifiers: notifiers,
		logger:    log,
	}
}

// Escalate runs the three-tier fallback. Tier 1: auxiliary search with the
// keyword-overlap heuristic. Tier 2: canned human-support handoff. Tier 3:
// generic apology when escalation itself broke. It never returns an error
// and never an empty answer.
func (a *Agent) Escalate(ctx context.Context, query string, failed []faq.Candidate, sessionId string) (result faq.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("scrapper", "escalation panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			result = ErrorResult()
		}
	}()

	if strings.TrimSpace(query) == "" {
		return a.HumanEscalation(ctx, query, sessionId)
	}

	urls := a.cfg.SearchURLs
	if len(urls) > a.cfg.MaxSources {
		urls = urls[:a.cfg.MaxSources]
	}

	pages, err := a.fetcher.FetchAll(ctx, urls)
	if err != nil {
		a.logger.Warn("scrapper", "extended search fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		return a.HumanEscalation(ctx, query, sessionId)
	}

	var relevant []scraper.PageContent
	for _, page := range pages {
		if AssessRelevance(page.Text, query, a.cfg.OverlapThreshold) {
			relevant = append(relevant, page)
		}
	}

	if len(relevant) == 0 {
		return a.HumanEscalation(ctx, query, sessionId)
	}

	sources := make([]string, 0, len(relevant))
	for _, page := range relevant {
		sources = append(sources, page.URL)
	}

	return faq.Result{
		Answer: fmt.Sprintf(
			"I found related information that might help with your question about '%s'. "+
				"While I don't have a direct answer in our main FAQ database, "+
				"here are some related resources that might be helpful: %s",
			query, strings.Join(sources, ", ")),
		Confidence: faq.ConfidenceMedium,
		Sources:    sources,
		Type:       faq.ResultTypeExtendedSearch,
	}
}

// HumanEscalation is the tier-2 canned handoff, used directly by the router
// when retrieval produced nothing at all.
func (a *Agent) HumanEscalation(ctx context.Context, query, sessionId string) faq.Result {
	for _, n := range a.notifiers {
		if err := n.NotifyEscalation(ctx, query, sessionId); err != nil {
			a.logger.Warn("scrapper", "escalation notification failed", map[string]interface{}{
				"error":      err.Error(),
				"session_id": sessionId,
			})
		}
	}

	return faq.Result{
		Answer: fmt.Sprintf(
			"I couldn't find specific information about '%s' in our FAQ database. "+
				"For personalized assistance, please:\n"+
				"- Contact our support team at %s\n"+
				"- Visit our help center for additional resources\n"+
				"- Schedule a consultation with our advisors\n"+
				"We're here to help with any questions you may have!",
			query, a.cfg.SupportEmail),
		Confidence: faq.ConfidenceNone,
		Type:       faq.ResultTypeHumanEscalation,
	}
}

// ErrorResult is the tier-3 response for when the escalation mechanism
// itself failed.
func ErrorResult() faq.Result {
	return faq.Result{
		Answer: "I apologize, but I encountered an error processing your request. " +
			"Please contact our support team for assistance.",
		Confidence: faq.ConfidenceNone,
		Type:       faq.ResultTypeError,
	}
}

// AssessRelevance reports whether at least threshold of the query's distinct
// lowercase words occur in the content.
func AssessRelevance(content, query string, threshold float64) bool {
	if content == "" || query == "" {
		return false
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = struct{}{}
	}
	if len(words) == 0 {
		return false
	}

	haystack := strings.ToLower(content)
	matches := 0
	for w := range words {
		if strings.Contains(haystack, w) {
			matches++
		}
	}

	return float64(matches)/float64(len(words)) >= threshold
}
