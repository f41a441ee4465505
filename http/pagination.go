package http

import (
	"strconv"

	"station/db"

	"github.com/labstack/echo/v4"
)

const maxPageSize = 1000

// pageEnvelope is the listing response shape: total row count plus the
// requested page of results.
type pageEnvelope struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

// pageFrom reads ?page and ?page_size, falling back to the resource's
// default page size.
func pageFrom(c echo.Context, defaultSize int) db.Page {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	size := defaultSize
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return db.Page{
		Limit:  size,
		Offset: (page - 1) * size,
	}
}

func paginated(count int, results any) pageEnvelope {
	return pageEnvelope{Count: count, Results: results}
}
