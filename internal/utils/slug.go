package utils

import "github.com/gosimple/slug"

// Slugify derives a URL slug from a display name: lowercase, ASCII-folded,
// hyphen separated. The transform is deterministic, so renaming a product
// moves its slug with it.
func Slugify(name string) string {
	return slug.Make(name)
}
