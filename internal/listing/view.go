package listing

import (
	"strings"

	"github.com/isdelr/registrant-portal/internal/models"
)

// PageSize is the number of rows on one page.
const PageSize = 10

// Filter returns the entries whose name contains term (case-sensitive), in order.
// An empty term keeps every entry. The result never aliases collection.
func Filter(collection []models.Registrant, term string) []models.Registrant {
	out := make([]models.Registrant, 0, len(collection))
	for _, r := range collection {
		if strings.Contains(r.Name, term) {
			out = append(out, r)
		}
	}
	return out
}

// TotalPages returns ceil(n/pageSize).
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns entries [pageSize*(page-1), pageSize*page) of view, after clamping page.
func Paginate(view []models.Registrant, page, pageSize int) []models.Registrant {
	total := TotalPages(len(view), pageSize)
	if total == 0 {
		return nil
	}
	page = ClampPage(page, total)
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(view))
	return append([]models.Registrant(nil), view[start:end]...)
}

// PageInfo is everything a renderer needs for one page of a view.
type PageInfo struct {
	Page       int
	TotalPages int
	Rows       []models.Registrant
	// From and To are 1-based row numbers; both 0 when the view is empty.
	From, To, Of int
	HasPrev      bool
	HasNext      bool
}

// Pages lists the page numbers 1..TotalPages.
func (p PageInfo) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Window computes the page info of view at page.
func Window(view []models.Registrant, page, pageSize int) PageInfo {
	total := TotalPages(len(view), pageSize)
	page = ClampPage(page, total)
	info := PageInfo{
		Page:       page,
		TotalPages: total,
		Rows:       Paginate(view, page, pageSize),
		Of:         len(view),
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
	if len(info.Rows) > 0 {
		info.From = (page-1)*pageSize + 1
		info.To = info.From + len(info.Rows) - 1
	}
	return info
}
