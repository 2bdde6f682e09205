package models

// QuizItem is one question/ideal-answer pair from an exercise.
type QuizItem struct {
	Question    string   `json:"question"`
	IdealAnswer string   `json:"ideal_answer"`
	SourceIDs   []string `json:"source_ids,omitempty"`
}

// Exercise is the unit served to the frontend: a topic, the context the
// answers are graded against, reading sources, and the quiz itself.
type Exercise struct {
	Topic       string     `json:"topic,omitempty"`
	Objective   string     `json:"objective,omitempty"`
	UsedSources []string   `json:"used_sources,omitempty"`
	Quiz        []QuizItem `json:"quiz,omitempty"`
}
