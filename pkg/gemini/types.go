package gemini

// GenerateRequest is the top-level request body for the Gemini API.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is a single message in the conversation.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one fragment of a message.
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig tunes the generation behavior.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerateResponse is the top-level response body from the Gemini API.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated completion.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// ParsedTask is the JSON shape the task-extraction prompt instructs the
// model to emit, one element per task found in the note text. All
// fields except Task are optional free-form model output and must be
// validated by the consumer.
type ParsedTask struct {
	Task               string `json:"task"`
	Priority           string `json:"priority"`
	DueDate            string `json:"due_date"`             // "2006-01-02", RFC3339, or a relative phrase
	SuggestedTimeOfDay string `json:"suggested_time_of_day"` // ISO-8601 timestamp, may be malformed
	SuggestedDuration  string `json:"suggested_duration"`   // e.g. "30 minutes", "flexible"
	SourceLine         string `json:"source_line"`
	LineNumber         int    `json:"line_number"`
}
