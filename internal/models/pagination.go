package models

// PageMeta is the pagination block returned alongside list responses. The
// field names form the contract the calendar and dashboard clients consume.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Limit      int `json:"limit"`
}

// NewPageMeta derives totalPages from the count and clamps page/limit.
func NewPageMeta(page, limit, total int) *PageMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return &PageMeta{Total: total, Page: page, TotalPages: totalPages, Limit: limit}
}
