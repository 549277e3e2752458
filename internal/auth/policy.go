package auth

import "github.com/BnamoRS/ecommerce-api/internal/model"

// policy.go holds the pure access decisions consulted by every mutating
// handler.  Each function takes the caller's decoded Claims plus whatever
// resource snapshot the rule needs and returns a verdict without touching
// the database, so the same rules are trivially testable in isolation.

// CanManageUser reports whether the caller may toggle role flags or
// soft-delete other users.  Only admins qualify.
func CanManageUser(claims Claims) bool {
	return claims.IsAdmin
}

// DeleteUserOutcome enumerates the result of a user-deletion policy check.
// The distinct outcomes preserve the handler's ability to answer with the
// right status: deny reasons become 403, the already-inactive case is a
// successful no-op rather than an error.
type DeleteUserOutcome int

const (
	// DeleteUserAllow permits the soft delete to proceed.
	DeleteUserAllow DeleteUserOutcome = iota
	// DeleteUserDenyNotAdmin rejects callers without the admin flag.
	DeleteUserDenyNotAdmin
	// DeleteUserDenyAdminTarget rejects deletion of admin accounts; they
	// cannot be removed through this path regardless of the caller.
	DeleteUserDenyAdminTarget
	// DeleteUserAlreadyInactive marks an idempotent repeat delete.
	DeleteUserAlreadyInactive
)

// CanDeleteUser decides whether the caller may soft-delete the target user.
func CanDeleteUser(claims Claims, target model.User) DeleteUserOutcome {
	if !claims.IsAdmin {
		return DeleteUserDenyNotAdmin
	}
	if target.IsAdmin {
		return DeleteUserDenyAdminTarget
	}
	if !target.IsActive {
		return DeleteUserAlreadyInactive
	}
	return DeleteUserAllow
}

// CanCreateProduct reports whether the caller may add catalog listings.
// Admins and suppliers both qualify.
func CanCreateProduct(claims Claims) bool {
	return claims.IsAdmin || claims.IsSupplier
}

// CanMutateProduct reports whether the caller may update or soft-delete a
// product.  Admins may touch anything; suppliers only their own listings,
// matched by the product's supplier reference.
func CanMutateProduct(claims Claims, product model.Product) bool {
	if claims.IsAdmin {
		return true
	}
	return product.SupplierID != nil && *product.SupplierID == claims.UserID
}

// CanReview reports whether the caller may submit product reviews.
func CanReview(claims Claims) bool {
	return claims.IsCustomer
}

// CanModerateReview reports whether the caller may remove reviews.
func CanModerateReview(claims Claims) bool {
	return claims.IsAdmin
}
