// Package workflow implements the query-routing state machine. A run walks
// GRADING -> RETRIEVING -> one terminal stage -> DONE, with the branch out
// of RETRIEVING decided purely by the candidate sequence's emptiness and its
// maximum score.
package workflow

import (
	"context"
	"errors"

	"faq-agentic-be/internal/pkg/logger"
	"faq-agentic-be/pkg/faq"
)

// ErrRunTimeout reports that the end-to-end budget expired before a terminal
// result was produced. It is the one failure callers must see as an error:
// a degraded answer means the run completed, a timeout means it did not.
var ErrRunTimeout = errors.New("workflow run timed out")

type State string

const (
	StateGrading              State = "GRADING"
	StateRetrieving           State = "RETRIEVING"
	StateResponding           State = "RESPONDING"
	StateEscalatingWeak       State = "ESCALATING_WEAK"
	StateEscalatingEmpty      State = "ESCALATING_EMPTY"
	StateTerminatedIrrelevant State = "TERMINATED_IRRELEVANT"
	StateDone                 State = "DONE"
)

type branch string

const (
	branchSufficient   branch = "sufficient"
	branchInsufficient branch = "insufficient"
	branchNoResults    branch = "no_results"
)

// Grader classifies the raw query. It degrades internally and never errors.
type Grader interface {
	Grade(ctx context.Context, query string) faq.GraderResult
}

// Retriever fetches score-ranked candidates. A nil-error empty slice means
// "no knowledge"; an error means the retrieval call itself failed.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]faq.Candidate, error)
}

// Responder synthesizes the answer. It degrades internally and never errors.
type Responder interface {
	Respond(ctx context.Context, query string, candidates []faq.Candidate, sessionId string) faq.Result
}

// Escalator handles the fallback tiers. HumanEscalation is the direct
// tier-2 handoff used when there were no candidates to widen from. The
// session id rides along so escalation notifications identify the
// conversation support staff should pick up.
type Escalator interface {
	Escalate(ctx context.Context, query string, failed []faq.Candidate, sessionId string) faq.Result
	HumanEscalation(ctx context.Context, query, sessionId string) faq.Result
}

type Config struct {
	// SufficiencyThreshold is the minimum top candidate score required to
	// answer directly instead of escalating.
	SufficiencyThreshold float64
}

// RunOutcome pairs the terminal result with the grader's verdict so callers
// can persist intent and keywords alongside the answer.
type RunOutcome struct {
	Result faq.Result
	Graded faq.GraderResult
}

type Router struct {
	grader    Grader
	retriever Retriever
	responder Responder
	escalator Escalator
	cfg       Config
	logger    logger.ILogger
}

func NewRouter(g Grader, r Retriever, resp Responder, esc Escalator, cfg Config, log logger.ILogger) *Router {
	if cfg.SufficiencyThreshold <= 0 {
		cfg.SufficiencyThreshold = 0.70
	}
	return &Router{
		grader:    g,
		retriever: r,
		responder: resp,
		escalator: esc,
		cfg:       cfg,
		logger:    log,
	}
}

// Run drives one query through the state machine. Stages execute strictly in
// order; each stage's output gates the next transition. The context deadline
// is checked between stages so an expired run is abandoned and its partial
// result discarded rather than returned.
func (r *Router) Run(ctx context.Context, query, sessionId string) (*RunOutcome, error) {
	state := StateGrading
	var graded faq.GraderResult
	var candidates []faq.Candidate
	var result faq.Result

	for state != StateDone {
		if ctx.Err() != nil {
			return nil, ErrRunTimeout
		}

		switch state {
		case StateGrading:
			graded = r.grader.Grade(ctx, query)
			if graded.Relevance == faq.RelevanceIrrelevant {
				state = StateTerminatedIrrelevant
			} else {
				state = StateRetrieving
			}

		case StateRetrieving:
			var err error
			candidates, err = r.retriever.Retrieve(ctx, graded.CorrectedQuery)
			if err != nil {
				// A retrieval outage produces a fallback answer, not a
				// failed run. Same branch as zero candidates.
				r.logger.Warn("workflow", "retrieval failed, taking no_results branch", map[string]interface{}{
					"error": err.Error(),
				})
				candidates = nil
			}
			state = r.nextAfterRetrieval(candidates)

		case StateResponding:
			result = r.responder.Respond(ctx, graded.CorrectedQuery, candidates, sessionId)
			state = StateDone

		case StateEscalatingWeak:
			result = r.escalator.Escalate(ctx, graded.CorrectedQuery, candidates, sessionId)
			state = StateDone

		case StateEscalatingEmpty:
			// No candidates means nothing to widen from; skip the auxiliary
			// search tier and hand off to human support directly.
			result = r.escalator.HumanEscalation(ctx, graded.CorrectedQuery, sessionId)
			state = StateDone

		case StateTerminatedIrrelevant:
			result = faq.Result{
				Answer:     "I'm sorry, but that question is outside my knowledge base. I can help with admissions, programs, fees, deadlines and student services.",
				Confidence: faq.ConfidenceNone,
				Type:       faq.ResultTypeOutOfDomain,
			}
			state = StateDone
		}
	}

	// A result computed just as the deadline expired is still abandoned.
	if ctx.Err() != nil {
		return nil, ErrRunTimeout
	}

	result.Intent = graded.Intent
	return &RunOutcome{Result: result, Graded: graded}, nil
}

func (r *Router) nextAfterRetrieval(candidates []faq.Candidate) State {
	switch r.selectBranch(candidates) {
	case branchSufficient:
		return StateResponding
	case branchInsufficient:
		return StateEscalatingWeak
	default:
		return StateEscalatingEmpty
	}
}

// selectBranch is a pure function of the candidate sequence: its emptiness
// and its maximum score decide everything.
func (r *Router) selectBranch(candidates []faq.Candidate) branch {
	if len(candidates) == 0 {
		return branchNoResults
	}

	maxScore := 0.0
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	// Candidates that all score zero carry no usable ranking signal; treat
	// them the same as an empty result set.
	if maxScore == 0 {
		return branchNoResults
	}

	if maxScore >= r.cfg.SufficiencyThreshold {
		return branchSufficient
	}
	return branchInsufficient
}
