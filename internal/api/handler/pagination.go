package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// pageRequest reads page/size, or offset/limit, from the query string.
func pageRequest(c echo.Context) (domain.PageRequest, error) {
	return domain.NewPageRequest(domain.PageParams{
		Page:   c.QueryParam("page"),
		Size:   c.QueryParam("size"),
		Offset: c.QueryParam("offset"),
		Limit:  c.QueryParam("limit"),
	})
}
