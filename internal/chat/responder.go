package chat

import (
	"context"
	"fmt"
	"strings"

	"somdev-backend/internal/catalog"
	"somdev-backend/internal/common/config"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/common/metrics"
	"somdev-backend/internal/store"
)

const (
	defaultPricingAnswer = "Pricing depends on scope and timelines. Typical starting points: " +
		"Web Apps from $4,999, AI Integrations from $2,999, Cloud & DevOps from $1,999, " +
		"and Design from $1,499. Share your goals and we'll outline a fixed-scope proposal."

	defaultFallbackAnswer = "I'm SomDev's assistant. I can help with services, projects, " +
		"timelines, and next steps. Ask about our services, pricing, or share your goals " +
		"for a tailored plan."
)

// Responder answers chat messages. Catalog categories render live data so
// the bot never drifts from what the site lists; pricing and fallback use
// canned copy that deployments may override.
type Responder struct {
	store          store.Store
	reader         *catalog.Reader
	pricingAnswer  string
	fallbackAnswer string
	logger         logger.Logger
}

func NewResponder(st store.Store, reader *catalog.Reader, cfg config.ChatConfig, log logger.Logger) *Responder {
	pricing := cfg.PricingAnswer
	if pricing == "" {
		pricing = defaultPricingAnswer
	}
	fallback := cfg.FallbackAnswer
	if fallback == "" {
		fallback = defaultFallbackAnswer
	}
	return &Responder{
		store:          st,
		reader:         reader,
		pricingAnswer:  pricing,
		fallbackAnswer: fallback,
		logger:         log,
	}
}

// Respond classifies the message, builds the answer and persists both sides
// of the exchange. History persistence is best effort; only catalog reads
// can fail the request.
func (r *Responder) Respond(ctx context.Context, userID, message string) (string, error) {
	r.persist(ctx, userID, "user", message)

	category := Classify(message)

	var answer string
	var err error
	switch category {
	case CategoryServices:
		answer, err = r.servicesAnswer(ctx)
	case CategoryProjects:
		answer, err = r.projectsAnswer(ctx)
	case CategoryPricing:
		answer = r.pricingAnswer
	default:
		answer = r.fallbackAnswer
	}
	if err != nil {
		return "", err
	}

	metrics.ChatMessagesTotal.WithLabelValues(string(category)).Inc()
	r.persist(ctx, userID, "assistant", answer)
	return answer, nil
}

func (r *Responder) servicesAnswer(ctx context.Context) (string, error) {
	services, err := r.reader.ListServices(ctx)
	if err != nil {
		return "", err
	}

	bullets := make([]string, 0, len(services))
	for _, s := range services {
		bullets = append(bullets, fmt.Sprintf("• %s: %s", s.Title, s.Description))
	}
	return "We deliver end-to-end technology solutions. Here are our core services:\n" +
		strings.Join(bullets, "\n") +
		"\nWould you like recommendations based on your goals and timeline?", nil
}

func (r *Responder) projectsAnswer(ctx context.Context) (string, error) {
	projects, err := r.reader.ListProjects(ctx)
	if err != nil {
		return "", err
	}

	bullets := make([]string, 0, len(projects))
	for _, p := range projects {
		bullets = append(bullets, fmt.Sprintf("• %s — %s", p.Title, strings.Join(p.Tags, ", ")))
	}
	return "Here are a few recent projects we loved building:\n" +
		strings.Join(bullets, "\n") +
		"\nCurious about the approach or stack behind any of these?", nil
}

func (r *Responder) persist(ctx context.Context, userID, role, content string) {
	_, err := r.store.InsertOne(ctx, store.CollectionMessage, map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"content": content,
	})
	if err != nil {
		r.logger.WithError(err).Warn("Chat history write failed", map[string]interface{}{
			"role": role,
		})
	}
}
