// Package grader classifies a raw query as in-domain or out-of-domain and
// normalizes its text, intent and keywords.
package grader

import (
	"context"
	"fmt"
	"strings"

	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/pkg/faq"
	"faq-agentic-be/pkg/faq/envelope"
	"faq-agentic-be/pkg/llm"
)

const promptTemplate = `<task>
Analyze user query for FAQ support relevance:
1. Determine if query relates to FAQ support purposes
2. If irrelevant, mark it irrelevant
3. If relevant, perform grammar correction and intent classification
</task>

<query>%s</query>

<faq_topics>
- Admissions and enrollment
- Academic programs and courses
- Fees and payment
- Deadlines and schedules
- Student services and support
</faq_topics>

Respond with exactly this structure:
<output>
<relevance>relevant or irrelevant</relevance>
<corrected_query>the corrected query</corrected_query>
<intent>the intent type</intent>
<keywords>comma separated key terms</keywords>
</output>`

type Agent struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewAgent(provider llm.LLMProvider, log logger.ILogger) *Agent {
	return &Agent{
		provider: provider,
		logger:   log,
	}
}

// Grade never fails. A grading outage must not take down the pipeline, so
// any model error or unparseable output degrades to "relevant, query
// unchanged" and the run proceeds ungraded.
func (a *Agent) Grade(ctx context.Context, query string) faq.GraderResult {
	degraded := faq.GraderResult{
		Relevance:      faq.RelevanceRelevant,
		CorrectedQuery: query,
		Intent:         "unknown",
		Keywords:       "",
	}

	raw, err := a.provider.Generate(ctx, fmt.Sprintf(promptTemplate, query), llm.WithTemperature(0))
	if err != nil {
		a.logger.Warn("grader", "grading call failed, proceeding ungraded", map[string]interface{}{
			"error": err.Error(),
		})
		return degraded
	}

	env, ok := envelope.ParseGrader(raw)
	if !ok {
		a.logger.Warn("grader", "grader output unparseable, proceeding ungraded", nil)
		return degraded
	}

	if strings.EqualFold(env.Relevance, faq.RelevanceIrrelevant) {
		return faq.GraderResult{
			Relevance:      faq.RelevanceIrrelevant,
			CorrectedQuery: query,
			Intent:         env.Intent,
			Keywords:       env.Keywords,
		}
	}

	corrected := env.CorrectedQuery
	if corrected == "" {
		corrected = query
	}
	return faq.GraderResult{
		Relevance:      faq.RelevanceRelevant,
		CorrectedQuery: corrected,
		Intent:         env.Intent,
		Keywords:       env.Keywords,
	}
}
