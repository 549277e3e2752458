package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BnamoRS/ecommerce-api/internal/model"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
	"github.com/BnamoRS/ecommerce-api/internal/utils"
)

// CategoryHandler manages the category tree. Listing is public; every
// mutation is admin-only.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(cr *repository.CategoryRepo) *CategoryHandler {
	if cr == nil {
		panic("nil repository passed to NewCategoryHandler")
	}
	return &CategoryHandler{Categories: cr}
}

type categoryReq struct {
	Name     string  `json:"name" validate:"required"`
	ParentID *uint64 `json:"parent_id"`
}

type categoryResp struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *uint64 `json:"parent_id"`
}

func toCategoryResp(c model.Category) categoryResp {
	return categoryResp{ID: c.ID, Name: c.Name, Slug: c.Slug, ParentID: c.ParentID}
}

// List returns every category.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	out := make([]categoryResp, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryResp(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a category; the slug is derived from the name.
func (h *CategoryHandler) Create(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !claims.IsAdmin {
		return forbidden(c)
	}

	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.ParentID != nil {
		found, err := h.Categories.Exists(ctx, *req.ParentID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
		}
		if !found {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no category found"})
		}
	}

	_, err := h.Categories.Create(ctx, req.Name, utils.Slugify(req.Name), req.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"detail": "category slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create category failed"})
	}
	return c.JSON(http.StatusCreated, txResponse{StatusCode: http.StatusCreated, Transaction: "Successful"})
}

// Update rewrites a category's name, slug and parent.
func (h *CategoryHandler) Update(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !claims.IsAdmin {
		return forbidden(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid category id"})
	}

	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	found, err := h.Categories.Exists(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no category found"})
	}

	if err := h.Categories.Update(ctx, id, req.Name, utils.Slugify(req.Name), req.ParentID); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"detail": "category slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update category failed"})
	}
	return c.JSON(http.StatusOK, txResponse{StatusCode: http.StatusOK, Transaction: "Category update is successful"})
}

// Delete removes an unused category. Categories holding products or
// child categories answer 409 instead of cascading.
func (h *CategoryHandler) Delete(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !claims.IsAdmin {
		return forbidden(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no category found"})
		case errors.Is(err, repository.ErrCategoryInUse):
			return c.JSON(http.StatusConflict, echo.Map{"detail": "category still has products or children"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete category failed"})
		}
	}
	return c.JSON(http.StatusOK, txResponse{StatusCode: http.StatusOK, Transaction: "Category delete is successful"})
}
