package scoring

import "github.com/tidwall/gjson"

// RawScore wraps one unvalidated JSON object from the metrics service.
// Nothing about its shape is guaranteed: fields may be missing, null,
// out of range, or the wrong type entirely.
type RawScore struct {
	body []byte
}

func RawScoreFromJSON(body []byte) RawScore {
	return RawScore{body: append([]byte(nil), body...)}
}

// IsZero reports whether no response body is present at all, which is how
// the aggregator represents "awaiting evaluation" slots.
func (r RawScore) IsZero() bool {
	return len(r.body) == 0
}

// Number returns the value under key only when the field is present and is
// a JSON number. Booleans, strings, and null are not numbers here: "absent"
// and "0" mean different things, so nothing is ever coerced.
func (r RawScore) Number(key string) (float64, bool) {
	v := gjson.GetBytes(r.body, key)
	if v.Type != gjson.Number {
		return 0, false
	}
	return v.Num, true
}

// Bool returns the value under key when it is a JSON boolean.
func (r RawScore) Bool(key string) bool {
	v := gjson.GetBytes(r.body, key)
	return v.Type == gjson.True
}

// Strings returns the value under key when it is an array of strings.
func (r RawScore) Strings(key string) []string {
	v := gjson.GetBytes(r.body, key)
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, el := range v.Array() {
		if el.Type == gjson.String {
			out = append(out, el.Str)
		}
	}
	return out
}

// NormalizedScore maps metric keys to values in [0,1]. A missing key means
// the metric was not computed for this input.
type NormalizedScore map[string]float64

// Normalize filters a raw response through a catalog: numeric fields are
// clamped into [0,1], everything else is dropped. Pure function — the same
// raw input always yields the same output.
func Normalize(raw RawScore, catalog []MetricDef) NormalizedScore {
	out := make(NormalizedScore)
	for _, def := range catalog {
		if v, ok := raw.Number(def.Key); ok {
			out[def.Key] = Clamp01(v)
		}
	}
	return out
}

// Clamp01 bounds v into [0,1]. The upstream models occasionally emit values
// slightly outside the interval; clamping is mandatory before display.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToPercent converts a score to a whole percentage in [0,100], rounding
// half up. Clamping happens first, never after.
func ToPercent(v float64) int {
	return int(Clamp01(v)*100 + 0.5)
}
