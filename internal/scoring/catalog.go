package scoring

// MetricDef names one metric produced by the governance evaluator: the key
// it arrives under in raw responses and the label the frontend shows.
type MetricDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// exerciseCatalog is the answer-quality subset shown next to each quiz
// question.
var exerciseCatalog = []MetricDef{
	{Key: "answer_similarity", Label: "Answer Similarity"},
	{Key: "faithfulness", Label: "Faithfulness"},
	{Key: "answer_relevance", Label: "Answer Relevance"},
	{Key: "context_relevance", Label: "Context Relevance"},
}

// governanceCatalog is the full metric grid for the governance demo view.
// It is a superset of the exercise catalog; order is presentation order.
var governanceCatalog = []MetricDef{
	{Key: "answer_similarity", Label: "Answer Similarity"},
	{Key: "faithfulness", Label: "Faithfulness"},
	{Key: "answer_relevance", Label: "Answer Relevance"},
	{Key: "context_relevance", Label: "Context Relevance"},
	{Key: "evasiveness", Label: "Evasiveness"},
	{Key: "topic_relevance", Label: "Topic Relevance"},
	{Key: "profanity", Label: "Profanity"},
	{Key: "sexual_content", Label: "Sexual Content"},
	{Key: "violence", Label: "Violence"},
	{Key: "social_bias", Label: "Social Bias"},
	{Key: "harm", Label: "Harm"},
	{Key: "harm_engagement", Label: "Harm Engagement"},
	{Key: "jailbreak", Label: "Jailbreak"},
	{Key: "unethical_behavior", Label: "Unethical Behavior"},
}

// ExerciseCatalog returns the ordered metric set for the exercise view.
// Callers get a copy; the catalogs themselves are fixed at build time.
func ExerciseCatalog() []MetricDef {
	return append([]MetricDef(nil), exerciseCatalog...)
}

// GovernanceCatalog returns the ordered metric set for the governance view.
func GovernanceCatalog() []MetricDef {
	return append([]MetricDef(nil), governanceCatalog...)
}
