package model

// Category represents a row in the `categories` table.  Categories
// form a forest via the nullable ParentID self reference: root
// categories carry a NULL parent.  Cycle prevention is not enforced
// at this layer.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name of the category.
//  Slug     – URL identifier derived from the name.
//  ParentID – parent category (nil for root categories).
type Category struct {
	ID       uint64  // categories.id
	Name     string  // categories.name
	Slug     string  // categories.slug
	ParentID *uint64 // categories.parent_id (nullable)
}
