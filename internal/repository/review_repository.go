package repository

import (
	"context"
	"database/sql"

	"github.com/BnamoRS/ecommerce-api/internal/model"
)

// ReviewRepo owns the review lifecycle and the derived product rating.
// Every state change to a review recomputes the product's rating inside
// the same transaction, so the invariant
//
//	products.rating == AVG(grade) over active reviews
//
// holds at every commit boundary. Both Create and Moderate lock the
// product row first (SELECT ... FOR UPDATE); concurrent review mutations
// for the same product therefore serialize, which rules out lost rating
// updates and makes the duplicate check race-free.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id,user_id,product_id,comment,grade,is_active,created_at"

// recomputeRating refreshes the denormalized rating from the active
// review set. AVG over an empty set is NULL, which clears the rating
// rather than pinning it to zero.
const recomputeRating = `UPDATE products SET rating = (
	SELECT AVG(grade) FROM reviews WHERE product_id=? AND is_active=1
) WHERE id=?`

// ListActive returns all active reviews.
func (r *ReviewRepo) ListActive(ctx context.Context) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// ListActiveByProduct returns the active reviews of one product. The
// product must itself be active; a hidden product exposes no reviews.
func (r *ReviewRepo) ListActiveByProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? AND is_active=1 LIMIT 1", productID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE product_id=? AND is_active=1 ORDER BY id", productID)
	if err != nil {
		return nil, err
	}
	return scanReviews(rows)
}

// Create inserts an active review and recomputes the product rating in
// one transaction. It returns the review id and the recomputed rating.
//
// Preconditions checked inside the transaction, after the product row is
// locked: the product exists and is active (ErrProductNotFound), and the
// user has no active review for it yet (ErrReviewExists). A duplicate-key
// violation from the insert maps to the same conflict, covering schemas
// that also carry a unique (user_id, product_id, is_active) index.
func (r *ReviewRepo) Create(ctx context.Context, userID, productID uint64, comment *string, grade int32) (uint64, *float64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the product row; this serializes every review mutation for
	// the product until commit.
	var pid uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? AND is_active=1 FOR UPDATE", productID).Scan(&pid)
	if err == sql.ErrNoRows {
		return 0, nil, ErrProductNotFound
	}
	if err != nil {
		return 0, nil, err
	}

	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE product_id=? AND user_id=? AND is_active=1 LIMIT 1",
		productID, userID).Scan(&existing)
	if err == nil {
		return 0, nil, ErrReviewExists
	}
	if err != sql.ErrNoRows {
		return 0, nil, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO reviews (user_id, product_id, comment, grade, is_active) VALUES (?,?,?,?,1)",
		userID, productID, comment, grade)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, nil, ErrReviewExists
		}
		return 0, nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, nil, err
	}

	if _, err := tx.ExecContext(ctx, recomputeRating, productID, productID); err != nil {
		return 0, nil, err
	}
	rating, err := ratingOf(ctx, tx, productID)
	if err != nil {
		return 0, nil, err
	}
	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	committed = true
	return uint64(id), rating, nil
}

// Moderate marks a review inactive and recomputes the product rating in
// one transaction. The inactive state is terminal. Returns the affected
// product id and its recomputed rating; a nil rating means the product
// has no active reviews left.
func (r *ReviewRepo) Moderate(ctx context.Context, reviewID uint64) (uint64, *float64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var productID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT product_id FROM reviews WHERE id=? AND is_active=1", reviewID).Scan(&productID)
	if err == sql.ErrNoRows {
		return 0, nil, ErrReviewNotFound
	}
	if err != nil {
		return 0, nil, err
	}

	// Same lock order as Create: product row first. The review update
	// below re-checks is_active under the lock in case another moderator
	// got there between the read and the lock acquisition.
	var pid uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM products WHERE id=? FOR UPDATE", productID).Scan(&pid)
	if err != nil && err != sql.ErrNoRows {
		return 0, nil, err
	}

	res, err := tx.ExecContext(ctx, "UPDATE reviews SET is_active=0 WHERE id=? AND is_active=1", reviewID)
	if err != nil {
		return 0, nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, nil, err
	} else if n == 0 {
		return 0, nil, ErrReviewNotFound
	}
	if _, err := tx.ExecContext(ctx, recomputeRating, productID, productID); err != nil {
		return 0, nil, err
	}
	rating, err := ratingOf(ctx, tx, productID)
	if err != nil {
		return 0, nil, err
	}
	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	committed = true
	return productID, rating, nil
}

// ratingOf reads the freshly written rating inside the transaction.
func ratingOf(ctx context.Context, tx *sql.Tx, productID uint64) (*float64, error) {
	var rating *float64
	err := tx.QueryRowContext(ctx, "SELECT rating FROM products WHERE id=?", productID).Scan(&rating)
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func scanReviews(rows *sql.Rows) ([]model.Review, error) {
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Comment, &rv.Grade, &rv.IsActive, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
