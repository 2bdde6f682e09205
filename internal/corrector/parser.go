package corrector

import (
	"regexp"
	"strings"

	"github.com/beelink/governance-backend/internal/models"
	"github.com/tidwall/gjson"
)

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*?\}`)

// ExtractCorrection pulls the correction object out of a model response.
// Models wrap JSON in markdown fences or chatter around it despite the
// strict prompt, so the fences are stripped and the LAST candidate object
// carrying all three keys wins.
func ExtractCorrection(responseBody string) (models.Correction, bool) {
	cleaned := stripCodeFences(responseBody)

	var found string
	for _, candidate := range jsonObjectPattern.FindAllString(cleaned, -1) {
		if !gjson.Valid(candidate) {
			continue
		}
		parsed := gjson.Parse(candidate)
		if !parsed.IsObject() {
			continue
		}
		if parsed.Get("verdict").Exists() &&
			parsed.Get("explanation").Exists() &&
			parsed.Get("improved_answer").Exists() {
			found = candidate
		}
	}

	if found == "" {
		return models.Correction{}, false
	}

	return models.Correction{
		Verdict:        stringField(found, "verdict"),
		Explanation:    stringField(found, "explanation"),
		ImprovedAnswer: stringField(found, "improved_answer"),
	}, true
}

func stringField(body, key string) *string {
	v := gjson.Get(body, key)
	if v.Type != gjson.String || v.Str == "" {
		return nil
	}
	s := v.Str
	return &s
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
