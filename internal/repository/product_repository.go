package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/BnamoRS/ecommerce-api/internal/model"
)

// ProductRepo provides access to the products table. Listings are soft
// deleted: catalog reads filter on is_active and positive stock, while
// mutation paths look rows up by slug regardless of visibility so owners
// can keep editing a delisted product.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,slug,description,price,image_url,stock,supplier_id,rating,is_active,category_id,created_at,updated_at"

// Create inserts a product and returns its ID. Rating stays NULL until
// the first review; slug collisions are rejected via the unique index.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, slug, description, price, image_url, stock, supplier_id, category_id, is_active) VALUES (?,?,?,?,?,?,?,?,1)",
		p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Stock, p.SupplierID, p.CategoryID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrSlugExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = uint64(id)
	return p.ID, nil
}

// ListActive returns every visible, in-stock product. An empty catalog
// yields an empty slice, not an error.
func (r *ProductRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active=1 AND stock>0 ORDER BY id")
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// ListByCategoryIDs returns visible, in-stock products whose category is
// in the given id set.
func (r *ProductRepo) ListByCategoryIDs(ctx context.Context, ids []uint64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	query, args := inQuery("SELECT "+productColumns+" FROM products WHERE is_active=1 AND stock>0 AND category_id IN", ids)
	rows, err := r.DB.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// GetActiveBySlug returns a single visible, in-stock product.
func (r *ProductRepo) GetActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
	return r.getOne(ctx,
		"SELECT "+productColumns+" FROM products WHERE slug=? AND is_active=1 AND stock>0 LIMIT 1", slug)
}

// GetBySlug returns a product regardless of visibility. Mutation paths
// use this so the ownership check runs against the stored supplier even
// for delisted rows.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (model.Product, error) {
	return r.getOne(ctx, "SELECT "+productColumns+" FROM products WHERE slug=? LIMIT 1", slug)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...interface{}) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL, &p.Stock,
		&p.SupplierID, &p.Rating, &p.IsActive, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Product{}, ErrProductNotFound
	}
	return p, err
}

// Update rewrites the mutable columns of the product identified by its
// current slug. Rating and is_active are deliberately untouched: the
// rating belongs to the review transaction path and relisting is a
// separate concern.
func (r *ProductRepo) Update(ctx context.Context, currentSlug string, p model.Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, slug=?, description=?, price=?, image_url=?, stock=?, category_id=? WHERE slug=?",
		p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Stock, p.CategoryID, currentSlug)
	if isDuplicateKey(err) {
		return ErrSlugExists
	}
	return err
}

// Deactivate soft-deletes the product with the given slug.
func (r *ProductRepo) Deactivate(ctx context.Context, slug string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE products SET is_active=0 WHERE slug=?", slug)
	return err
}

// SearchQuery defines filters for catalog search. Price bounds of zero
// are treated as unset.
type SearchQuery struct {
	Name     string
	MinPrice int64
	MaxPrice int64
}

// Search returns visible, in-stock products matching the query filters.
func (r *ProductRepo) Search(ctx context.Context, q SearchQuery) ([]model.Product, error) {
	where := []string{"is_active=1", "stock>0"}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, q.MinPrice)
	}
	if q.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, q.MaxPrice)
	}

	query := "SELECT " + productColumns + " FROM products WHERE " +
		strings.Join(where, " AND ") + " ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	defer rows.Close()
	out := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL, &p.Stock,
			&p.SupplierID, &p.Rating, &p.IsActive, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
