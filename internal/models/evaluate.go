package models

import "encoding/json"

// ── Request Types ────────────────────────────────────────

// EvaluateRequest is the body of POST /api/evaluate. Quiz, context, and
// system prompt are optional; missing fields fall back to the stored default
// exercise. NormalizeAnswers defaults to true when absent.
type EvaluateRequest struct {
	Quiz             []QuizItem `json:"quiz"`
	Answers          []string   `json:"answers"`
	Context          string     `json:"context"`
	SystemPrompt     string     `json:"system_prompt"`
	NormalizeAnswers *bool      `json:"normalize_answers"`
}

func (r *EvaluateRequest) ShouldNormalize() bool {
	return r.NormalizeAnswers == nil || *r.NormalizeAnswers
}

// ScoreTextRequest is the body of POST /api/governance/score.
type ScoreTextRequest struct {
	Text string `json:"text"`
}

// ── Response Types ───────────────────────────────────────

// Flags are the detector outputs that are not bounded scores: HAP
// (hate/abuse/profanity) and PII detections with their label lists.
type Flags struct {
	HAP         bool     `json:"hap_flag,omitempty"`
	HAPLabels   []string `json:"hap_labels,omitempty"`
	PII         bool     `json:"pii_flag,omitempty"`
	PIIEntities []string `json:"pii_entities,omitempty"`
}

// Correction is the model's free-text review of one answer. All fields are
// nil when the correction model is unavailable; Raw then carries the reason.
type Correction struct {
	Verdict        *string `json:"verdict"`
	Explanation    *string `json:"explanation"`
	ImprovedAnswer *string `json:"improved_answer"`
	Raw            *string `json:"raw,omitempty"`
}

// ResultItem is the evaluation of one quiz answer: the normalized metric
// map, detector flags, and the model correction. It marshals flat so every
// metric key sits at the top level of the wire object, matching what the
// metrics grid consumes.
type ResultItem struct {
	Metrics    map[string]float64
	Flags      Flags
	Correction Correction
}

func (r ResultItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Metrics)+7)
	for k, v := range r.Metrics {
		out[k] = v
	}
	if r.Flags.HAP {
		out["hap_flag"] = true
		out["hap_labels"] = r.Flags.HAPLabels
	}
	if r.Flags.PII {
		out["pii_flag"] = true
		out["pii_entities"] = r.Flags.PIIEntities
	}
	out["verdict"] = r.Correction.Verdict
	out["explanation"] = r.Correction.Explanation
	out["improved_answer"] = r.Correction.ImprovedAnswer
	if r.Correction.Raw != nil {
		out["raw"] = *r.Correction.Raw
	}
	return json.Marshal(out)
}

// EvaluateResponse wraps the per-question results, ordered like the quiz.
type EvaluateResponse struct {
	Results []ResultItem `json:"results"`
}

// EvaluationSummary is one stored evaluation in the history listing.
type EvaluationSummary struct {
	ID            int64   `json:"id"`
	SessionName   string  `json:"session_name,omitempty"`
	QuestionCount int     `json:"question_count"`
	MeanScore     float64 `json:"mean_score"`
	CreatedAt     string  `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
