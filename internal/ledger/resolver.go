package ledger

import (
	"strings"

	"calico/internal/core"
)

// CategoryResolver maps category IDs to display names and emoji. Missing
// lookups resolve to the "Uncategorized" sentinel rather than erroring, so an
// orphaned foreign key degrades instead of breaking a whole page. A resolver
// built from a failed fetch is simply empty: everything uncategorized.
type CategoryResolver map[string]core.Category

// NewCategoryResolver builds a resolver from a user's full category set.
func NewCategoryResolver(cats []core.Category) CategoryResolver {
	r := make(CategoryResolver, len(cats))
	for _, c := range cats {
		r[c.ID] = c
	}
	return r
}

// Resolve returns the category for id, or the sentinel when unknown.
func (r CategoryResolver) Resolve(id string) core.Category {
	if c, ok := r[id]; ok {
		return c
	}
	return core.Category{Name: core.UncategorizedName}
}

// Name returns only the display name for id.
func (r CategoryResolver) Name(id string) string {
	return r.Resolve(id).Name
}

// Label returns "name emoji" for id, trimmed when the emoji is absent.
func (r CategoryResolver) Label(id string) string {
	c := r.Resolve(id)
	return strings.TrimSpace(c.Name + " " + c.Emoji)
}
