package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected Category
	}{
		{"service keyword", "What services do you offer?", CategoryServices},
		{"capability keyword", "Tell me about your capabilities", CategoryServices},
		{"multi word keyword", "what do you do exactly", CategoryServices},
		{"project keyword", "Show me your projects", CategoryProjects},
		{"case study keyword", "Do you have a case study?", CategoryProjects},
		{"portfolio keyword", "portfolio please", CategoryProjects},
		{"pricing keyword", "How much does it cost?", CategoryPricing},
		{"budget keyword", "My budget is small", CategoryPricing},
		{"rates keyword", "what are your rates", CategoryPricing},
		{"uppercase input", "WHAT ARE YOUR RATES", CategoryPricing},
		{"padded input", "   price?   ", CategoryPricing},
		{"no keyword", "hello there", CategoryFallback},
		{"empty message", "", CategoryFallback},
		{"keyword inside word", "I need reprice analysis", CategoryPricing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message))
		})
	}
}

func TestClassify_ServicesWinsOverPricing(t *testing.T) {
	// "service" and "price" both match; the services set is checked first.
	assert.Equal(t, CategoryServices, Classify("what is the price of your services"))
}
