package domain

import "strings"

// BuildQuery assembles the search query for a strategy: keywords joined by
// spaces, with the topic appended last when present.
func BuildQuery(s Strategy) string {
	parts := make([]string, 0, len(s.Keywords)+1)
	parts = append(parts, s.Keywords...)
	if s.Topic != "" {
		parts = append(parts, s.Topic)
	}
	return strings.Join(parts, " ")
}
