// Package analytics records user interaction events and aggregates them
// into per-service counts.
package analytics

// Interaction types. The enum has exactly two members; anything else is
// rejected before reaching the store.
const (
	TypeView  = "view"
	TypeOrder = "order"
)

// UnknownServiceID is the sentinel bucket key for interactions recorded
// without a service reference.
const UnknownServiceID = "unknown"

// Labels for buckets that cannot be resolved to a service title. A missing
// reference and a dangling reference are different outcomes.
const (
	LabelGeneral  = "(General)"
	LabelDangling = "Unknown"
)

// IsValidType reports whether t is a member of the interaction type enum.
func IsValidType(t string) bool {
	return t == TypeView || t == TypeOrder
}

// TrackPayload is the inbound interaction event. ServiceID is a weak
// reference: it may be absent or point at a service that does not exist.
type TrackPayload struct {
	UserID    string                 `json:"user_id"`
	ServiceID string                 `json:"service_id,omitempty"`
	Type      string                 `json:"type"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Bucket is one group of interactions sharing a (service, type) pair.
type Bucket struct {
	ServiceID string
	Type      string
	Count     int64
}

// Row is one labeled entry of the analytics report.
type Row struct {
	ServiceID    string `json:"service_id"`
	ServiceTitle string `json:"service_title"`
	Type         string `json:"type"`
	Count        int64  `json:"count"`
}
