package repository

import (
	"context"
	"database/sql"

	"github.com/BnamoRS/ecommerce-api/internal/model"
)

// CategoryRepo provides access to the categories table. Categories form a
// forest through the nullable parent_id column; catalog queries expand a
// matched category by exactly one level of children.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a category and returns its ID.
func (r *CategoryRepo) Create(ctx context.Context, name, slug string, parentID *uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug, parent_id) VALUES (?,?,?)",
		name, slug, parentID)
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
	return uint64(id), nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, slug, parent_id FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Exists reports whether a category with the given id is present.
func (r *CategoryRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var found uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM categories WHERE id=? LIMIT 1", id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IDsBySlugWithChildren resolves a slug to category ids and widens the set
// with every direct child of the matched categories. Only one level is
// expanded; grandchildren are intentionally excluded. Returns
// ErrCategoryNotFound when the slug matches nothing.
func (r *CategoryRepo) IDsBySlugWithChildren(ctx context.Context, slug string) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id FROM categories WHERE slug=?", slug)
	if err != nil {
		return nil, err
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrCategoryNotFound
	}

	query, args := inQuery("SELECT id FROM categories WHERE parent_id IN", ids)
	childRows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	children, err := scanIDs(childRows)
	if err != nil {
		return nil, err
	}
	return append(ids, children...), nil
}

// Update rewrites the name, slug and parent reference of a category.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, slug string, parentID *uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, slug=?, parent_id=? WHERE id=?",
		name, slug, parentID, id)
	if isDuplicateKey(err) {
		return ErrSlugExists
	}
	return err
}

// Delete removes a category that has no children and no products. The
// checks and the delete share one transaction so a concurrent product
// insert cannot slip between them.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var found uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE id=? FOR UPDATE", id).Scan(&found)
	if err == sql.ErrNoRows {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}

	var refs int
	err = tx.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM categories WHERE parent_id=?) + (SELECT COUNT(*) FROM products WHERE category_id=?)",
		id, id).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrCategoryInUse
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// scanIDs collects a single uint64 column from rows and closes them.
func scanIDs(rows *sql.Rows) ([]uint64, error) {
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// inQuery builds "<prefix> (?,?,...)" with one placeholder per id.
func inQuery(prefix string, ids []uint64) (string, []interface{}) {
	query := prefix + " ("
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	return query + ")", args
}
