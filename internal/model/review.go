package model

import "time"

// Review represents a customer review stored in the `reviews`
// table.  At most one active review may exist per (user, product)
// pair.  Moderation flips IsActive to false; there is no
// reactivation path, a deleted review stays inactive forever.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – author of the review.
//  ProductID – reviewed product.
//  Comment   – optional free text, at most 512 characters.
//  Grade     – integer grade between 1 and 5.
//  IsActive  – whether the review counts toward the product rating.
//  CreatedAt – creation timestamp.
type Review struct {
	ID        uint64    // reviews.id
	UserID    uint64    // reviews.user_id
	ProductID uint64    // reviews.product_id
	Comment   *string   // reviews.comment (nullable)
	Grade     int32     // reviews.grade
	IsActive  bool      // reviews.is_active
	CreatedAt time.Time // reviews.created_at
}
