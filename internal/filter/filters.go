package filter

import (
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/validator"
)

const MaxPage = 1_000_000

var ErrInvalidPageSize = xerrors.Message("page size must be a positive integer")

// Paginator slices an ordered sequence into fixed-size pages. Requested pages
// outside [1, TotalPages] are clamped to the nearest valid page.
type Paginator struct {
	pageSize int
}

type Metadata struct {
	CurrentPage  int   `json:"currentPage"`
	PageSize     int   `json:"pageSize"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	HasNext      bool  `json:"hasNext"`
	HasPrevious  bool  `json:"hasPrevious"`
}

func NewPaginator(pageSize int) (*Paginator, error) {
	if pageSize <= 0 {
		return nil, xerrors.New(ErrInvalidPageSize)
	}
	return &Paginator{pageSize: pageSize}, nil
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Window computes the page that will be served for the requested page number.
// An empty sequence still has one (empty) page.
func (p *Paginator) Window(totalRecords int64, requestedPage int) Metadata {
	if totalRecords < 0 {
		totalRecords = 0
	}

	totalPages := int((totalRecords + int64(p.pageSize) - 1) / int64(p.pageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	current := requestedPage
	switch {
	case current < 1:
		current = 1
	case current > totalPages:
		current = totalPages
	}

	return Metadata{
		CurrentPage:  current,
		PageSize:     p.pageSize,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      current < totalPages,
		HasPrevious:  current > 1,
	}
}

func (m Metadata) Offset() int {
	return (m.CurrentPage - 1) * m.PageSize
}

func (m Metadata) Limit() int {
	return m.PageSize
}

// ItemCount is the number of items that the current page holds.
func (m Metadata) ItemCount() int {
	remaining := m.TotalRecords - int64(m.Offset())
	if remaining <= 0 {
		return 0
	}
	if remaining > int64(m.PageSize) {
		return m.PageSize
	}
	return int(remaining)
}

func ValidatePage(v *validator.Validator, page int) {
	v.Check(page <= MaxPage, "page", "must be a maximum of 1_000_000")
}
