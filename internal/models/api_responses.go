package models

// AskRequest is the body of a JSON question.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse contains the answer to a question.
type AskResponse struct {
	Query    string `json:"query"`
	Relevant bool   `json:"relevant"`
	Category string `json:"category,omitempty"`
	Key      string `json:"key,omitempty"`
	Title    string `json:"title,omitempty"`
	Score    int    `json:"score"`
	Answer   string `json:"answer"`
}

// TopicEntry describes one knowledge base entry for topic listings.
type TopicEntry struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// Topic lists the entries of one category.
type Topic struct {
	Category string       `json:"category"`
	Entries  []TopicEntry `json:"entries"`
}

// StatsResponse summarises question outcomes for the admin API.
type StatsResponse struct {
	Lookups    []QuestionLookup     `json:"lookups"`
	Unanswered []UnansweredQuestion `json:"unanswered"`
}
