// Package userlist paginates the fetched user collection and models the
// edit/delete capabilities a list exposes.
package userlist

import "github.com/goliatone/go-usermgmt/pkg/model"

const (
	DefaultPageSize = 6
	// CompactPageSize applies to narrow viewports.
	CompactPageSize = 3
	EmptyMessage    = "No users found"
)

// Page is one window over the collection.
type Page struct {
	Items      []model.User
	Number     int
	Size       int
	TotalPages int
	Total      int
	Loading    bool
}

// Paginate slices users into the requested 1-based page. Sizes below one fall
// back to DefaultPageSize; pages outside [1, TotalPages] are clamped so a
// shrinking collection never leaves the view on a page past its end.
func Paginate(users []model.User, size, page int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(users)
	pages := (total + size - 1) / size

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	p := Page{Number: page, Size: size, TotalPages: pages, Total: total}
	if total == 0 {
		return p
	}
	start := (page - 1) * size
	end := min(page*size, total)
	p.Items = append([]model.User(nil), users[start:end]...)
	return p
}

// Loading returns the placeholder page shown while the collection is fetched.
func Loading(size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	return Page{Number: 1, Size: size, Loading: true}
}

// Empty reports whether the empty-state message should be shown.
func (p Page) Empty() bool {
	return !p.Loading && p.Total == 0
}

// ShowPagination reports whether the pagination control is rendered.
func (p Page) ShowPagination() bool {
	return !p.Loading && p.TotalPages > 1
}

func (p Page) HasPrev() bool { return p.ShowPagination() && p.Number > 1 }

func (p Page) HasNext() bool { return p.ShowPagination() && p.Number < p.TotalPages }

// Numbers lists every page number, for the pagination control.
func (p Page) Numbers() []int {
	if !p.ShowPagination() {
		return nil
	}
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// SizeForWidth picks the compact size for viewports narrower than breakpoint.
// A width of zero means unknown and keeps the default.
func SizeForWidth(width, breakpoint int) int {
	if width > 0 && width < breakpoint {
		return CompactPageSize
	}
	return DefaultPageSize
}
