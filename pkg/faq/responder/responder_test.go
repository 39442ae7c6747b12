package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"faq-agentic-be/pkg/faq"
	"faq-agentic-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type scriptedProvider struct {
	output    string
	err       error
	gotPrompt string
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.output, p.err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.gotPrompt = prompt
	return p.output, p.err
}

type scriptedHistory struct {
	entries []faq.HistoryEntry
	err     error
}

func (h *scriptedHistory) RecentHistory(ctx context.Context, sessionId string, limit int) ([]faq.HistoryEntry, error) {
	return h.entries, h.err
}

func TestRespondWellFormed(t *testing.T) {
	provider := &scriptedProvider{output: "<response><answer>Apply online before June 1st.</answer><confidence>high</confidence><sources>doc1, doc2</sources></response>"}
	agent := NewAgent(provider, nil, 5, nopLogger{})

	candidates := []faq.Candidate{{Content: "Deadline is June 1st.", Score: 0.9, Source: "doc1"}}
	result := agent.Respond(context.Background(), "when is the deadline", candidates, "")

	assert.Equal(t, "Apply online before June 1st.", result.Answer)
	assert.Equal(t, faq.ConfidenceHigh, result.Confidence)
	assert.Equal(t, []string{"doc1", "doc2"}, result.Sources)
	assert.Equal(t, faq.ResultTypeAnswer, result.Type)
}

func TestRespondNeverReturnsEmptyAnswer(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model unavailable")}
	agent := NewAgent(provider, nil, 5, nopLogger{})

	result := agent.Respond(context.Background(), "when is the deadline", nil, "")

	assert.NotEmpty(t, result.Answer)
	assert.Equal(t, faq.ConfidenceNone, result.Confidence)
	assert.Equal(t, faq.ResultTypeError, result.Type)
}

func TestRespondDowngradesHighConfidenceWithoutDocuments(t *testing.T) {
	provider := &scriptedProvider{output: "<response><answer>Sure, it works like this.</answer><confidence>high</confidence><sources></sources></response>"}
	agent := NewAgent(provider, nil, 5, nopLogger{})

	result := agent.Respond(context.Background(), "how does it work", nil, "")

	assert.Equal(t, faq.ConfidenceLow, result.Confidence)
}

func TestRespondFallsBackToCandidateSources(t *testing.T) {
	provider := &scriptedProvider{output: "<response><answer>Fees are 5000 per semester.</answer><confidence>medium</confidence><sources></sources></response>"}
	agent := NewAgent(provider, nil, 5, nopLogger{})

	candidates := []faq.Candidate{
		{Content: "a", Score: 0.8, Source: "fees.html"},
		{Content: "b", Score: 0.7, Source: "fees.html"},
		{Content: "c", Score: 0.6, Source: "billing.html"},
	}
	result := agent.Respond(context.Background(), "what are the fees", candidates, "")

	// Deduplicated, in candidate order.
	assert.Equal(t, []string{"fees.html", "billing.html"}, result.Sources)
}

func TestRespondIncludesHistoryInPrompt(t *testing.T) {
	provider := &scriptedProvider{output: "<response><answer>ok</answer><confidence>low</confidence><sources></sources></response>"}
	history := &scriptedHistory{entries: []faq.HistoryEntry{
		{Query: "what programs do you offer", Response: "We offer CS and math."},
	}}
	agent := NewAgent(provider, history, 5, nopLogger{})

	agent.Respond(context.Background(), "what about fees", nil, "session-1")

	assert.Contains(t, provider.gotPrompt, "Q1: what programs do you offer")
	assert.Contains(t, provider.gotPrompt, "A1: We offer CS and math.")
}

func TestRespondHistoryFailureAnswersWithoutContext(t *testing.T) {
	provider := &scriptedProvider{output: "<response><answer>ok</answer><confidence>low</confidence><sources></sources></response>"}
	history := &scriptedHistory{err: errors.New("db down")}
	agent := NewAgent(provider, history, 5, nopLogger{})

	result := agent.Respond(context.Background(), "what about fees", nil, "session-1")

	assert.Equal(t, "ok", result.Answer)
	assert.Contains(t, provider.gotPrompt, noHistory)
}

func TestFormatCandidates(t *testing.T) {
	out := formatCandidates([]faq.Candidate{
		{Content: "Deadline is June 1st.", Score: 0.9, Source: "deadlines.html"},
		{Content: "Fees are 5000.", Score: 0.8},
	})

	assert.Contains(t, out, "[Source 1 - deadlines.html]: Deadline is June 1st.")
	assert.Contains(t, out, "[Source 2 - Unknown]: Fees are 5000.")
	assert.Equal(t, 2, strings.Count(out, "[Source"))
}

func TestFormatCandidatesEmpty(t *testing.T) {
	assert.Equal(t, noDocuments, formatCandidates(nil))
	assert.Equal(t, noDocuments, formatCandidates([]faq.Candidate{{Content: ""}}))
}
