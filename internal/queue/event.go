// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in ReviewEvent.Type.
const (
	ReviewCreated   = "review.created"
	ReviewModerated = "review.moderated"
)

// ReviewEvent is published whenever the active review set of a product
// changes. It carries enough information for downstream consumers to
// audit, notify, or feed analytics without querying the primary database.
// Rating is the product's recomputed rating after the change; nil means
// the product no longer has active reviews.
type ReviewEvent struct {
	Type       string   `json:"type"`
	ReviewID   uint64   `json:"review_id"`
	ProductID  uint64   `json:"product_id"`
	UserID     uint64   `json:"user_id"`
	Grade      int32    `json:"grade,omitempty"`
	Rating     *float64 `json:"rating"`
	OccurredAt string   `json:"occurred_at"`
}
