package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/model"
	"github.com/BnamoRS/ecommerce-api/internal/queue"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
	"github.com/BnamoRS/ecommerce-api/internal/service"
)

// ReviewHandler serves review reads, customer submissions and admin
// moderation. Create and Delete run the rating recomputation inside the
// repository transaction; after a successful commit the handler publishes
// a review event to the broker, ignoring publish failures so a broker
// outage never rolls back or fails a committed review.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Logger  *zap.Logger
}

func NewReviewHandler(rr *repository.ReviewRepo, logger *zap.Logger) *ReviewHandler {
	if rr == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewHandler{Reviews: rr, Logger: logger}
}

type reviewReq struct {
	ProductID uint64  `json:"product_id" validate:"required"`
	Comment   *string `json:"comment" validate:"omitempty,max=512"`
	Grade     int32   `json:"grade" validate:"required,gte=1,lte=5"`
}

type reviewResp struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ProductID uint64    `json:"product_id"`
	Comment   *string   `json:"comment"`
	Grade     int32     `json:"grade"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewList(reviews []model.Review) []reviewResp {
	out := make([]reviewResp, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewResp{
			ID: r.ID, UserID: r.UserID, ProductID: r.ProductID,
			Comment: r.Comment, Grade: r.Grade, CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// List handles GET /reviews: every active review.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toReviewList(reviews))
}

// ByProduct handles GET /reviews/:product_id.
func (h *ReviewHandler) ByProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListActiveByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toReviewList(reviews))
}

// Create handles POST /reviews. Customers only; one active review per
// (user, product). The product rating is recomputed in the same
// transaction as the insert.
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !auth.CanReview(claims) {
		return forbidden(c)
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reviewID, rating, err := h.Reviews.Create(ctx, claims.UserID, req.ProductID, req.Comment, req.Grade)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no product found"})
		case errors.Is(err, repository.ErrReviewExists):
			return c.JSON(http.StatusConflict, echo.Map{"detail": "User review exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create review failed"})
		}
	}

	_ = service.PublishReviewEvent(ctx, h.Logger, queue.ReviewEvent{
		Type:       queue.ReviewCreated,
		ReviewID:   reviewID,
		ProductID:  req.ProductID,
		UserID:     claims.UserID,
		Grade:      req.Grade,
		Rating:     rating,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, txResponse{StatusCode: http.StatusCreated, Transaction: "Successful"})
}

// Delete handles DELETE /reviews/:review_id. Admin moderation only; the
// review goes inactive and the product rating is recomputed atomically.
func (h *ReviewHandler) Delete(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !auth.CanModerateReview(claims) {
		return forbidden(c)
	}

	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 64)
	if err != nil || reviewID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid review id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	productID, rating, err := h.Reviews.Moderate(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete review failed"})
	}

	_ = service.PublishReviewEvent(ctx, h.Logger, queue.ReviewEvent{
		Type:       queue.ReviewModerated,
		ReviewID:   reviewID,
		ProductID:  productID,
		UserID:     claims.UserID,
		Rating:     rating,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, txResponse{StatusCode: http.StatusOK, Transaction: "Review delete is successful"})
}
