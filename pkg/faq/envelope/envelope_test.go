package envelope

import (
	"testing"
)

func TestParseGrader(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantOk        bool
		wantRelevance string
		wantCorrected string
		wantIntent    string
	}{
		{
			name: "well formed output",
			raw: `Here is my analysis:
<output>
<relevance>relevant</relevance>
<corrected_query>What are the admission requirements?</corrected_query>
<intent>admission_inquiry</intent>
<keywords>admission, requirements</keywords>
</output>`,
			wantOk:        true,
			wantRelevance: "relevant",
			wantCorrected: "What are the admission requirements?",
			wantIntent:    "admission_inquiry",
		},
		{
			name:          "irrelevant verdict",
			raw:           "<output><relevance>irrelevant</relevance><corrected_query>weather today</corrected_query><intent>off_topic</intent><keywords></keywords></output>",
			wantOk:        true,
			wantRelevance: "irrelevant",
			wantCorrected: "weather today",
			wantIntent:    "off_topic",
		},
		{
			name:   "no output block",
			raw:    "The query seems relevant to admissions.",
			wantOk: false,
		},
		{
			name:   "broken xml inside block",
			raw:    "<output><relevance>relevant</corrected_query></output>",
			wantOk: false,
		},
		{
			name:   "unclosed block",
			raw:    "<output><relevance>relevant</relevance>",
			wantOk: false,
		},
		{
			name:          "empty fields get defaults",
			raw:           "<output><relevance></relevance><corrected_query>fixed query</corrected_query><intent></intent><keywords></keywords></output>",
			wantOk:        true,
			wantRelevance: "relevant",
			wantCorrected: "fixed query",
			wantIntent:    "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := ParseGrader(tt.raw)

			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if env.Relevance != tt.wantRelevance {
				t.Errorf("Relevance = %q, want %q", env.Relevance, tt.wantRelevance)
			}
			if env.CorrectedQuery != tt.wantCorrected {
				t.Errorf("CorrectedQuery = %q, want %q", env.CorrectedQuery, tt.wantCorrected)
			}
			if env.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q", env.Intent, tt.wantIntent)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantAnswer     string
		wantConfidence string
		wantSources    string
	}{
		{
			name:           "well formed response",
			raw:            "<response><answer>Apply before June 1st.</answer><confidence>HIGH</confidence><sources>doc1, doc2</sources></response>",
			wantAnswer:     "Apply before June 1st.",
			wantConfidence: "high",
			wantSources:    "doc1, doc2",
		},
		{
			name:           "missing markers falls back to raw",
			raw:            "Apply before June 1st.",
			wantAnswer:     "Apply before June 1st.",
			wantConfidence: "low",
		},
		{
			name:           "broken xml falls back to raw",
			raw:            "<response><answer>partial",
			wantAnswer:     "<response><answer>partial",
			wantConfidence: "low",
		},
		{
			name:           "invalid confidence normalized to low",
			raw:            "<response><answer>Yes.</answer><confidence>certain</confidence><sources></sources></response>",
			wantAnswer:     "Yes.",
			wantConfidence: "low",
		},
		{
			name:           "empty answer falls back to raw",
			raw:            "<response><answer></answer><confidence>high</confidence><sources></sources></response>",
			wantAnswer:     "<response><answer></answer><confidence>high</confidence><sources></sources></response>",
			wantConfidence: "low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ParseResponse(tt.raw)

			if env.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", env.Answer, tt.wantAnswer)
			}
			if env.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %q, want %q", env.Confidence, tt.wantConfidence)
			}
			if env.Sources != tt.wantSources {
				t.Errorf("Sources = %q, want %q", env.Sources, tt.wantSources)
			}
		})
	}
}
