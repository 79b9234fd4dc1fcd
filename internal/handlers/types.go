package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// PageMeta describes one page of a list response
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// ListResponse is the common list envelope
type ListResponse struct {
	Items interface{} `json:"items"`
	Meta  PageMeta    `json:"meta"`
}

const defaultPageSize = 20

// parsePagination reads page/page_size query params with sane bounds
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = defaultPageSize
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	return page, pageSize
}

// buildMeta computes pagination metadata from a total count
func buildMeta(page, pageSize int, totalCount int64) PageMeta {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return PageMeta{Page: page, PageSize: pageSize, TotalCount: totalCount, TotalPages: totalPages}
}

// paramUint parses a numeric path parameter, rejecting junk with a 400
func paramUint(c echo.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(val), nil
}

// paramValueUint parses an already-extracted numeric string
func paramValueUint(raw string) (uint, error) {
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// queryTime parses an optional RFC3339 or date-only query parameter
func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" (want RFC3339 or YYYY-MM-DD)")
}
