// Package catalog holds the reference data served by the marketing site:
// the services on offer and the showcase projects. Both are seeded once and
// never mutated by this backend.
package catalog

import "somdev-backend/internal/store"

// DefaultCTALabel is applied when a stored service has no cta_label.
const DefaultCTALabel = "Order Now"

// Service is an offered service.
type Service struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon,omitempty"`
	PriceFrom   *float64 `json:"price_from,omitempty"`
	Category    string   `json:"category,omitempty"`
	CTALabel    string   `json:"cta_label"`
}

// Project is a completed showcase project.
type Project struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
}

func (s Service) toDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"title":       s.Title,
		"description": s.Description,
		"cta_label":   s.CTALabel,
	}
	if s.Icon != "" {
		doc["icon"] = s.Icon
	}
	if s.PriceFrom != nil {
		doc["price_from"] = *s.PriceFrom
	}
	if s.Category != "" {
		doc["category"] = s.Category
	}
	return doc
}

func (p Project) toDoc() map[string]interface{} {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"tags":        tags,
	}
	if p.Image != "" {
		doc["image"] = p.Image
	}
	return doc
}

func serviceFromDoc(doc store.Document) Service {
	svc := Service{
		ID:          doc.ID,
		Title:       doc.GetString("title"),
		Description: doc.GetString("description"),
		Icon:        doc.GetString("icon"),
		Category:    doc.GetString("category"),
		CTALabel:    doc.GetString("cta_label"),
	}
	if svc.CTALabel == "" {
		svc.CTALabel = DefaultCTALabel
	}
	if v, ok := doc.Fields["price_from"].(float64); ok {
		svc.PriceFrom = &v
	}
	return svc
}

func projectFromDoc(doc store.Document) Project {
	prj := Project{
		ID:          doc.ID,
		Title:       doc.GetString("title"),
		Description: doc.GetString("description"),
		Image:       doc.GetString("image"),
		Tags:        []string{},
	}
	if raw, ok := doc.Fields["tags"].([]interface{}); ok {
		for _, t := range raw {
			if tag, ok := t.(string); ok {
				prj.Tags = append(prj.Tags, tag)
			}
		}
	} else if tags, ok := doc.Fields["tags"].([]string); ok {
		prj.Tags = tags
	}
	return prj
}
