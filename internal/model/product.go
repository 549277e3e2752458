package model

import "time"

// Product represents a catalog listing stored in the `products`
// table.  Rating is a derived value maintained by the review
// repository: it always equals the average grade over the product's
// active reviews and is NULL until the first review arrives.  A
// product is never deleted physically; IsActive=false hides it from
// every catalog query.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – product display name.
//  Slug        – unique URL identifier derived from the name.
//  Description – free-form product description.
//  Price       – price in whole currency units.
//  ImageURL    – link to the product image.
//  Stock       – units available; listings require stock > 0.
//  SupplierID  – owning supplier (nil for admin-created products).
//  Rating      – average grade of active reviews (nil when none).
//  IsActive    – whether the listing is visible.
//  CategoryID  – category this product belongs to.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Product struct {
	ID          uint64    // products.id
	Name        string    // products.name
	Slug        string    // products.slug
	Description string    // products.description
	Price       int64     // products.price
	ImageURL    string    // products.image_url
	Stock       int32     // products.stock
	SupplierID  *uint64   // products.supplier_id (nullable)
	Rating      *float64  // products.rating (nullable, derived)
	IsActive    bool      // products.is_active
	CategoryID  uint64    // products.category_id
	CreatedAt   time.Time // products.created_at
	UpdatedAt   time.Time // products.updated_at
}
