// Package responder synthesizes the final answer from retrieved snippets and
// the session's recent conversation history.
package responder

import (
	"context"
	"fmt"
	"strings"

	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/pkg/faq"
	"faq-agentic-be/pkg/faq/envelope"
	"faq-agentic-be/pkg/llm"
)

const promptTemplate = `<context>
You are an intelligent FAQ assistant. Generate responses using ONLY
the provided knowledge base and conversation history.
</context>

<conversation_history>
%s
</conversation_history>

<knowledge_base>
%s
</knowledge_base>

<rules>
- Answer based strictly on retrieved information
- Consider conversation history for contextual responses
- Avoid repeating previously provided information
- If information is insufficient, acknowledge limitations
- Maintain helpful and professional tone
</rules>

<query>%s</query>

Respond with exactly this structure:
<response>
<answer>your answer</answer>
<confidence>high, medium or low</confidence>
<sources>document references</sources>
</response>`

const noHistory = "No previous conversation."
const noDocuments = "No relevant documents found."

// HistoryProvider supplies recent session context. The session store
// implements it; tests substitute a fake.
type HistoryProvider interface {
	RecentHistory(ctx context.Context, sessionId string, limit int) ([]faq.HistoryEntry, error)
}

type Agent struct {
	provider     llm.LLMProvider
	history      HistoryProvider
	historyLimit int
	logger       logger.ILogger
}

func NewAgent(provider llm.LLMProvider, history HistoryProvider, historyLimit int, log logger.ILogger) *Agent {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Agent{
		provider:     provider,
		history:      history,
		historyLimit: historyLimit,
		logger:       log,
	}
}

// Respond always returns a result with a non-empty answer. Generation
// failures and empty model output become a degraded result with confidence
// none; nothing propagates to the caller.
func (a *Agent) Respond(ctx context.Context, query string, candidates []faq.Candidate, sessionId string) faq.Result {
	conversation := a.conversationContext(ctx, sessionId)
	documents := formatCandidates(candidates)

	if len(candidates) == 0 {
		a.logger.Warn("responder", "answering without documents", map[string]interface{}{
			"query": truncate(query, 50),
		})
	}

	raw, err := a.provider.Generate(ctx,
		fmt.Sprintf(promptTemplate, conversation, documents, strings.TrimSpace(query)),
		llm.WithTemperature(0))
	if err != nil {
		a.logger.Error("responder", "generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return degradedResult()
	}

	env := envelope.ParseResponse(raw)
	if env.Answer == "" {
		return degradedResult()
	}

	result := faq.Result{
		Answer:     env.Answer,
		Confidence: faq.Confidence(env.Confidence),
		Sources:    splitSources(env.Sources),
		Type:       faq.ResultTypeAnswer,
	}

	// Without input documents a confident-sounding answer is not trustworthy.
	if len(candidates) == 0 && result.Confidence == faq.ConfidenceHigh {
		result.Confidence = faq.ConfidenceLow
	}

	// The model often omits the sources field; fall back to the candidate
	// origins so callers can still attribute the answer.
	if len(result.Sources) == 0 {
		result.Sources = candidateSources(candidates)
	}

	return result
}

func (a *Agent) conversationContext(ctx context.Context, sessionId string) string {
	if sessionId == "" || a.history == nil {
		return noHistory
	}

	entries, err := a.history.RecentHistory(ctx, sessionId, a.historyLimit)
	if err != nil {
		a.logger.Warn("responder", "history lookup failed, answering without context", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return noHistory
	}
	if len(entries) == 0 {
		return noHistory
	}

	var sb strings.Builder
	for i, e := range entries {
		if e.Query == "" || e.Response == "" {
			continue
		}
		fmt.Fprintf(&sb, "Q%d: %s\n", i+1, e.Query)
		fmt.Fprintf(&sb, "A%d: %s\n", i+1, e.Response)
	}
	if sb.Len() == 0 {
		return noHistory
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCandidates(candidates []faq.Candidate) string {
	if len(candidates) == 0 {
		return noDocuments
	}

	parts := make([]string, 0, len(candidates))
	for i, c := range candidates {
		if c.Content == "" {
			continue
		}
		source := c.Source
		if source == "" {
			source = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("[Source %d - %s]: %s", i+1, source, c.Content))
	}
	if len(parts) == 0 {
		return noDocuments
	}
	return strings.Join(parts, "\n\n")
}

func candidateSources(candidates []faq.Candidate) []string {
	seen := make(map[string]struct{}, len(candidates))
	var sources []string
	for _, c := range candidates {
		if c.Source == "" {
			continue
		}
		if _, dup := seen[c.Source]; dup {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	return sources
}

func splitSources(raw string) []string {
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func degradedResult() faq.Result {
	return faq.Result{
		Answer:     "I apologize, but an error occurred while processing your request. Please try again or contact support if the issue persists.",
		Confidence: faq.ConfidenceNone,
		Type:       faq.ResultTypeError,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
