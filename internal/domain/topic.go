package domain

import "fmt"

// Topic scopes which conversation history bucket is active. The set is
// closed; selecting a different topic clears the active view but leaves
// other topics' histories intact.
type Topic string

const (
	// TopicAll covers the full knowledge base.
	TopicAll Topic = "bents"
	// TopicShopImprovement scopes answers to shop layout and workflow.
	TopicShopImprovement Topic = "shop-improvement"
	// TopicToolRecommendations scopes answers to tool buying advice.
	TopicToolRecommendations Topic = "tool-recommendations"
)

// DefaultTopic is the bucket selected on first load.
const DefaultTopic = TopicAll

// Topics returns all valid topics in display order.
func Topics() []Topic {
	return []Topic{TopicAll, TopicShopImprovement, TopicToolRecommendations}
}

// Valid reports whether t is a member of the closed topic set.
func (t Topic) Valid() bool {
	switch t {
	case TopicAll, TopicShopImprovement, TopicToolRecommendations:
		return true
	}
	return false
}

// ParseTopic validates a raw topic tag.
func ParseTopic(s string) (Topic, error) {
	t := Topic(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown topic %q", s)
	}
	return t, nil
}
