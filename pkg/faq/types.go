// Package faq holds the shared data contracts passed between the grading,
// retrieval, response and escalation stages. Each stage produces exactly one
// of these types; nothing downstream mutates them.
package faq

// Confidence is the coarse ordinal label attached to an answer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

const (
	RelevanceRelevant   = "relevant"
	RelevanceIrrelevant = "irrelevant"
)

// Result type markers, recorded so callers can tell which terminal path
// produced the answer.
const (
	ResultTypeAnswer          = "faq_answer"
	ResultTypeExtendedSearch  = "extended_search_results"
	ResultTypeHumanEscalation = "human_escalation"
	ResultTypeOutOfDomain     = "out_of_domain"
	ResultTypeError           = "error"
)

// GraderResult is the grading stage's verdict on a raw query.
type GraderResult struct {
	Relevance      string
	CorrectedQuery string
	Intent         string
	Keywords       string
}

// Candidate is one retrieved knowledge snippet. Score is cosine similarity
// in [0,1]; sequences arrive ranked by descending score.
type Candidate struct {
	Content string
	Score   float64
	Source  string
}

// HistoryEntry is a prior exchange fed to the responder as context.
type HistoryEntry struct {
	Query    string
	Response string
}

// Result is the single terminal artifact of a workflow run.
type Result struct {
	Answer     string
	Confidence Confidence
	Sources    []string
	Intent     string
	Type       string
}
