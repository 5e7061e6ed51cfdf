package domain

import "strconv"

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageRequest is a normalized 0-based page selection.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of records to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PageParams holds the raw query values. Empty strings mean "not supplied".
type PageParams struct {
	Page   string
	Size   string
	Offset string
	Limit  string
}

// NewPageRequest turns raw pagination parameters into a PageRequest.
//
// page/size are the primary contract. When offset or limit is supplied it
// wins: size = limit and page = offset / size. Size is capped at MaxPageSize.
func NewPageRequest(p PageParams) (PageRequest, error) {
	if p.Offset != "" || p.Limit != "" {
		offset, err := parseNonNegative("offset", p.Offset, 0)
		if err != nil {
			return PageRequest{}, err
		}
		limit, err := parsePositive("limit", p.Limit, DefaultPageSize)
		if err != nil {
			return PageRequest{}, err
		}
		limit = min(limit, MaxPageSize)
		return PageRequest{Page: offset / limit, Size: limit}, nil
	}

	page, err := parseNonNegative("page", p.Page, 0)
	if err != nil {
		return PageRequest{}, err
	}
	size, err := parsePositive("size", p.Size, DefaultPageSize)
	if err != nil {
		return PageRequest{}, err
	}
	return PageRequest{Page: page, Size: min(size, MaxPageSize)}, nil
}

func parseNonNegative(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewValidationError(name + " must be a non-negative integer")
	}
	return n, nil
}

func parsePositive(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewValidationError(name + " must be a positive integer")
	}
	return n, nil
}

// ProfilePage is one page of profiles plus totals.
type ProfilePage struct {
	Items      []*Profile
	Page       int
	Size       int
	Total      int64
	TotalPages int
}

// NewProfilePage computes TotalPages from total and req.Size.
func NewProfilePage(items []*Profile, req PageRequest, total int64) *ProfilePage {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &ProfilePage{Items: items, Page: req.Page, Size: req.Size, Total: total, TotalPages: pages}
}
