package domain

import "strings"

// Product is one catalog row. ImageData is base64-encoded for transport;
// Tags preserve the order of the stored comma-separated column.
type Product struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	Link      string   `json:"link"`
	ImageData string   `json:"image_data,omitempty"`
}

// SplitTags parses a comma-separated tag column into an ordered, trimmed
// list. Empty segments are dropped.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// GroupTags returns every tag except the last. The trailing tag identifies
// the source video and is excluded from catalog grouping.
func (p Product) GroupTags() []string {
	if len(p.Tags) <= 1 {
		return nil
	}
	return p.Tags[:len(p.Tags)-1]
}

// GroupProducts buckets products under each of their group tags. A product
// carrying several group tags appears in every matching bucket.
func GroupProducts(products []Product) map[string][]Product {
	grouped := make(map[string][]Product)
	for _, p := range products {
		for _, tag := range p.GroupTags() {
			grouped[tag] = append(grouped[tag], p)
		}
	}
	return grouped
}
