// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrReviewExists indicates that a customer already holds an
// active review for a product, while ErrCategoryInUse signals that a
// category cannot be removed because products or child categories still
// reference it.
package repository

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when no user row matches the lookup.
// Handlers translate this into HTTP 404 (or 401 on the login path, where
// revealing whether the account exists is undesirable).
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when an insert collides with the unique
// index on users.username or users.email. Handlers translate this into
// HTTP 409.
var ErrUsernameExists = errors.New("username or email already exists")

// ErrCategoryNotFound is returned when a category slug or id matches no
// row. Handlers translate this into HTTP 404.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryInUse is returned when a category delete cannot proceed
// because child categories or products still reference it. Handlers
// translate this into HTTP 409.
var ErrCategoryInUse = errors.New("category in use")

// ErrProductNotFound is returned when a product slug or id matches no
// visible row. Handlers translate this into HTTP 404.
var ErrProductNotFound = errors.New("product not found")

// ErrSlugExists is returned when a product or category insert/update
// collides with the unique slug index. Slug collisions are rejected
// rather than deduplicated. Handlers translate this into HTTP 409.
var ErrSlugExists = errors.New("slug already exists")

// ErrReviewNotFound is returned when no active review matches the id.
// Handlers translate this into HTTP 404.
var ErrReviewNotFound = errors.New("review not found")

// ErrReviewExists is returned when a customer already has an active
// review for the product. Handlers translate this into HTTP 409.
var ErrReviewExists = errors.New("user review exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062) raised by a unique index violation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
