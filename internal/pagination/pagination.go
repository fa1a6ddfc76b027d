// Package pagination parses page/limit query parameters and builds the
// metadata block returned next to every paged list.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Params struct {
	Page  int
	Limit int
}

// Meta is serialized as the "pagination" object of list responses.
type Meta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// New clamps page to >= 1 and limit to [1, max]; a non-positive limit means def.
func New(page, limit, def, max int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return Params{Page: page, Limit: limit}
}

// FromQuery reads ?page= and ?limit=; unparsable values fall back to defaults.
func FromQuery(c *gin.Context, def, max int) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return New(page, limit, def, max)
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Params) Meta(total int) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
		HasMore:    p.Page < pages,
	}
}
