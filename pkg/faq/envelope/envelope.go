// Package envelope parses the semi-structured XML fragments the language
// model is prompted to emit. Models routinely vary output formatting, so
// parsing is deliberately lenient: missing markers or broken XML degrade to
// a usable fallback instead of an error.
package envelope

import (
	"encoding/xml"
	"strings"
)

// GraderEnvelope mirrors the <output> block of the grading prompt.
type GraderEnvelope struct {
	Relevance      string `xml:"relevance"`
	CorrectedQuery string `xml:"corrected_query"`
	Intent         string `xml:"intent"`
	Keywords       string `xml:"keywords"`
}

// ResponseEnvelope mirrors the <response> block of the answering prompt.
type ResponseEnvelope struct {
	Answer     string `xml:"answer"`
	Confidence string `xml:"confidence"`
	Sources    string `xml:"sources"`
}

// ParseGrader extracts the <output> block from raw model text. The second
// return is false when no parseable block exists; callers then fall back to
// treating the query as relevant and unmodified.
func ParseGrader(raw string) (GraderEnvelope, bool) {
	segment, found := extract(raw, "<output>", "</output>")
	if !found {
		return GraderEnvelope{}, false
	}

	var env GraderEnvelope
	if err := xml.Unmarshal([]byte(segment), &env); err != nil {
		return GraderEnvelope{}, false
	}

	env.Relevance = strings.TrimSpace(env.Relevance)
	env.CorrectedQuery = strings.TrimSpace(env.CorrectedQuery)
	env.Intent = strings.TrimSpace(env.Intent)
	env.Keywords = strings.TrimSpace(env.Keywords)
	if env.Relevance == "" {
		env.Relevance = "relevant"
	}
	if env.Intent == "" {
		env.Intent = "unknown"
	}
	return env, true
}

// ParseResponse extracts the <response> block. When the markers are absent
// or the XML is broken, the entire raw text becomes the answer at low
// confidence; the model said something, just not in the requested shape.
func ParseResponse(raw string) ResponseEnvelope {
	fallback := ResponseEnvelope{
		Answer:     strings.TrimSpace(raw),
		Confidence: "low",
	}

	segment, found := extract(raw, "<response>", "</response>")
	if !found {
		return fallback
	}

	var env ResponseEnvelope
	if err := xml.Unmarshal([]byte(segment), &env); err != nil {
		return fallback
	}

	env.Answer = strings.TrimSpace(env.Answer)
	env.Confidence = strings.ToLower(strings.TrimSpace(env.Confidence))
	env.Sources = strings.TrimSpace(env.Sources)
	if env.Answer == "" {
		return fallback
	}
	switch env.Confidence {
	case "high", "medium", "low", "none":
	default:
		env.Confidence = "low"
	}
	return env
}

func extract(raw, open, close string) (string, bool) {
	start := strings.Index(raw, open)
	if start == -1 {
		return "", false
	}
	end := strings.Index(raw[start:], close)
	if end == -1 {
		return "", false
	}
	return raw[start : start+end+len(close)], true
}
