package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BnamoRS/ecommerce-api/internal/auth"
	"github.com/BnamoRS/ecommerce-api/internal/model"
	"github.com/BnamoRS/ecommerce-api/internal/repository"
	"github.com/BnamoRS/ecommerce-api/internal/utils"
)

// ProductHandler serves the catalog: public listing, lookup and search,
// plus the admin/supplier mutation endpoints. Reads never require a
// token; every mutation consults the access policy with the caller's
// claims and the stored product snapshot.
type ProductHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
}

func NewProductHandler(pr *repository.ProductRepo, cr *repository.CategoryRepo) *ProductHandler {
	if pr == nil || cr == nil {
		panic("nil repository passed to NewProductHandler")
	}
	return &ProductHandler{Products: pr, Categories: cr}
}

type productReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	Category    uint64 `json:"category" validate:"required"`
}

type productResp struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"image_url"`
	Stock       int32    `json:"stock"`
	SupplierID  *uint64  `json:"supplier_id"`
	Rating      *float64 `json:"rating"`
	IsActive    bool     `json:"is_active"`
	CategoryID  uint64   `json:"category_id"`
}

func toProductResp(p model.Product) productResp {
	return productResp{
		ID: p.ID, Name: p.Name, Slug: p.Slug, Description: p.Description,
		Price: p.Price, ImageURL: p.ImageURL, Stock: p.Stock,
		SupplierID: p.SupplierID, Rating: p.Rating, IsActive: p.IsActive,
		CategoryID: p.CategoryID,
	}
}

func toProductList(products []model.Product) []productResp {
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	return out
}

// List handles GET /products: all visible, in-stock products. An empty
// catalog is a 200 with an empty array, not a 404.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// Search handles GET /products/search?q=&min_price=&max_price=.
func (h *ProductHandler) Search(c echo.Context) error {
	q := repository.SearchQuery{Name: c.QueryParam("q")}
	if v := c.QueryParam("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid min_price"})
		}
		q.MinPrice = n
	}
	if v := c.QueryParam("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid max_price"})
		}
		q.MaxPrice = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// ByCategory handles GET /products/:category_slug. The matched category
// is expanded by one level of children before filtering products.
func (h *ProductHandler) ByCategory(c echo.Context) error {
	slug := c.Param("category_slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ids, err := h.Categories.IDsBySlugWithChildren(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	products, err := h.Products.ListByCategoryIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// Detail handles GET /products/detail/:product_slug.
func (h *ProductHandler) Detail(c echo.Context) error {
	slug := c.Param("product_slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no product found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductResp(product))
}

// Create handles POST /products. Admins and suppliers may create;
// supplier-created products record the caller as owner, admin-created
// products also record the creator so ownership checks keep working.
func (h *ProductHandler) Create(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}
	if !auth.CanCreateProduct(claims) {
		return forbidden(c)
	}

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	found, err := h.Categories.Exists(ctx, req.Category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no category found"})
	}

	supplierID := claims.UserID
	product := model.Product{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		SupplierID:  &supplierID,
		CategoryID:  req.Category,
	}
	if _, err := h.Products.Create(ctx, &product); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"detail": "product slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create product failed"})
	}

	return c.JSON(http.StatusCreated, txResponse{StatusCode: http.StatusCreated, Transaction: "Successful"})
}

// Update handles PUT /products/:product_slug. Owner or admin only. The
// slug follows the new name; the derived rating is never touched here.
func (h *ProductHandler) Update(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}

	slug := c.Param("product_slug")

	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no product found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !auth.CanMutateProduct(claims, product) {
		return forbidden(c)
	}

	found, err := h.Categories.Exists(ctx, req.Category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no category found"})
	}

	updated := model.Product{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		CategoryID:  req.Category,
	}
	if err := h.Products.Update(ctx, slug, updated); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"detail": "product slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update product failed"})
	}

	return c.JSON(http.StatusOK, txResponse{StatusCode: http.StatusOK, Transaction: "Product update is successful"})
}

// Delete handles DELETE /products/:product_slug. Soft delete by owner or
// admin; an already hidden product is a 404, matching the catalog view.
func (h *ProductHandler) Delete(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication required"})
	}

	slug := c.Param("product_slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no product found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !product.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "There is no product found"})
	}
	if !auth.CanMutateProduct(claims, product) {
		return forbidden(c)
	}

	if err := h.Products.Deactivate(ctx, slug); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete product failed"})
	}
	return c.JSON(http.StatusOK, txResponse{StatusCode: http.StatusOK, Transaction: "Product delete is successful"})
}
