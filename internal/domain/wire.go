package domain

// ChatRequest is the body relayed to the inference backend. ChatHistory is
// the flattened prior conversation: alternating question and answer strings
// in chronological order.
type ChatRequest struct {
	Message       string   `json:"message"`
	SelectedIndex string   `json:"selected_index"`
	ChatHistory   []string `json:"chat_history"`
}

// ChatResponse is the upstream answer payload. Error and Message are set
// only on failure envelopes; a non-empty Error in an otherwise well-formed
// body is a semantic failure regardless of HTTP status.
type ChatResponse struct {
	Response      string              `json:"response"`
	InitialAnswer string              `json:"initial_answer,omitempty"`
	URLs          []string            `json:"urls,omitempty"`
	VideoLinks    map[string][]string `json:"video_links,omitempty"`
	Error         string              `json:"error,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// FlattenHistory reduces prior exchanges to the wire history shape: for each
// exchange, the question followed by its effective answer.
func FlattenHistory(exchanges []Exchange) []string {
	history := make([]string, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		history = append(history, ex.Question, ex.EffectiveAnswer())
	}
	return history
}
