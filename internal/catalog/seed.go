// internal/catalog/seed.go
package catalog

func floatPtr(v float64) *float64 { return &v }

// defaultServices is the fixed catalog inserted on first access.
var defaultServices = []Service{
	{
		Title:       "Custom Web Apps",
		Description: "High-performance, scalable web applications tailored to your business.",
		Icon:        "Globe",
		PriceFrom:   floatPtr(4999.0),
		Category:    "Development",
		CTALabel:    "Start Your Project",
	},
	{
		Title:       "AI Integrations",
		Description: "Integrate AI chat, search and automation into your products.",
		Icon:        "Bot",
		PriceFrom:   floatPtr(2999.0),
		Category:    "AI",
		CTALabel:    "Discuss AI",
	},
	{
		Title:       "Cloud & DevOps",
		Description: "Secure, automated, and cost-optimized cloud infrastructure.",
		Icon:        "Cloud",
		PriceFrom:   floatPtr(1999.0),
		Category:    "Cloud",
		CTALabel:    "Optimize Stack",
	},
	{
		Title:       "UI/UX Design",
		Description: "Premium, accessible, conversion-focused design systems.",
		Icon:        "Palette",
		PriceFrom:   floatPtr(1499.0),
		Category:    "Design",
		CTALabel:    "Design My UI",
	},
}

var defaultProjects = []Project{
	{
		Title:       "FinTech Analytics Suite",
		Description: "A real-time dashboard for risk analytics with ML-driven insights.",
		Image:       "https://images.unsplash.com/photo-1551281044-8b59f0209686?w=1200&q=80&auto=format&fit=crop",
		Tags:        []string{"React", "FastAPI", "Kafka", "Postgres"},
	},
	{
		Title:       "E-commerce Headless Storefront",
		Description: "Lightning-fast storefront with personalized search and A/B testing.",
		Image:       "https://images.unsplash.com/photo-1519337265831-281ec6cc8514?w=1200&q=80&auto=format&fit=crop",
		Tags:        []string{"Next.js", "Stripe", "Algolia"},
	},
	{
		Title:       "Healthcare Telemedicine Platform",
		Description: "HIPAA-ready video consultations with smart triage chatbot.",
		Image:       "https://images.unsplash.com/photo-1494390248081-4e521a5940db?w=1200&q=80&auto=format&fit=crop",
		Tags:        []string{"WebRTC", "AI", "MongoDB"},
	},
}
