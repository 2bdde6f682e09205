package scoring

import "github.com/beelink/governance-backend/internal/models"

// PairedResult joins one quiz item with its normalized score. Identity is
// the array index, so an in-progress answer edit is never reset by an
// unrelated score update.
type PairedResult struct {
	Item  models.QuizItem
	Score NormalizedScore
}

// PairResults pairs quiz items with raw evaluator rows by position and
// normalizes each row against the catalog. A result array shorter than the
// quiz is not an error: the missing trailing items get an empty score so the
// view can render "awaiting evaluation". Excess rows are ignored.
func PairResults(quiz []models.QuizItem, raw []RawScore, catalog []MetricDef) []PairedResult {
	out := make([]PairedResult, len(quiz))
	for i, item := range quiz {
		out[i] = PairedResult{Item: item, Score: NormalizedScore{}}
		if i < len(raw) && !raw[i].IsZero() {
			out[i].Score = Normalize(raw[i], catalog)
		}
	}
	return out
}

// ExtractFlags pulls the HAP/PII detector fields out of a raw row. These are
// boolean flags with label lists, not bounded scores, so they bypass the
// normalizer.
func ExtractFlags(raw RawScore) models.Flags {
	return models.Flags{
		HAP:         raw.Bool("hap_flag"),
		HAPLabels:   raw.Strings("hap_labels"),
		PII:         raw.Bool("pii_flag"),
		PIIEntities: raw.Strings("pii_entities"),
	}
}
