package posts

import "math"

const (
	// DefaultPage is used when the caller omits a page number
	DefaultPage = 1

	// DefaultPageSize is used when the caller omits a page size
	DefaultPageSize = 10

	// MaxPageSize caps a single feed window
	MaxPageSize = 100
)

// pageWindow converts a 1-based page number and size into a store offset
func pageWindow(page, limit int) (offset int, err error) {
	if page < 1 {
		return 0, NewValidationError("page", "must be at least 1")
	}
	if limit < 1 {
		return 0, NewValidationError("limit", "must be at least 1")
	}
	if limit > MaxPageSize {
		return 0, NewValidationError("limit", "must not exceed 100")
	}
	// page*limit must stay representable for the offset and HasMore
	if page > math.MaxInt/limit {
		return 0, NewValidationError("page", "is too large")
	}
	return (page - 1) * limit, nil
}

// buildFeedPage derives the pagination envelope from the page items and the
// total count. The count may be read separately from the page on stores that
// cannot snapshot both; a small skew there is accepted and never an error.
func buildFeedPage(items []*PostView, page, limit, total int) *FeedPage {
	if items == nil {
		items = []*PostView{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &FeedPage{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasMore:     page*limit < total,
	}
}
