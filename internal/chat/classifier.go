// Package chat implements the keyword-routed assistant.
package chat

import "strings"

// Category is the intent bucket a message is routed to.
type Category string

const (
	CategoryServices Category = "services"
	CategoryProjects Category = "projects"
	CategoryPricing  Category = "pricing"
	CategoryFallback Category = "fallback"
)

// Keyword sets checked in priority order. A message matching several sets
// gets the first one.
var (
	serviceKeywords = []string{"service", "offer", "do you do", "capability"}
	projectKeywords = []string{"project", "case study", "portfolio", "examples"}
	pricingKeywords = []string{"price", "cost", "budget", "rates"}
)

// Classify routes a message by case-insensitive substring match against the
// keyword sets. No match falls through to the fallback category.
func Classify(message string) Category {
	msg := strings.ToLower(strings.TrimSpace(message))
	switch {
	case containsAny(msg, serviceKeywords):
		return CategoryServices
	case containsAny(msg, projectKeywords):
		return CategoryProjects
	case containsAny(msg, pricingKeywords):
		return CategoryPricing
	default:
		return CategoryFallback
	}
}

func containsAny(msg string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}
