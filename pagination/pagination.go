// Package pagination implements page number based pagination for list endpoints.
package pagination

// Request is the page a client asks for. Zero values are replaced by Normalize.
type Request struct {
	PageNumber int `query:"pageNumber" validate:"gte=0"`
	PageSize   int `query:"pageSize"   validate:"gte=0"`
}

// Normalize applies defaults and caps the page size.
func (r *Request) Normalize(opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if r.PageNumber <= 0 {
		r.PageNumber = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = o.DefaultPageSize
	}
	if r.PageSize > o.MaxPageSize {
		r.PageSize = o.MaxPageSize
	}
}

func (r Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

func (r Request) Limit() int {
	return r.PageSize
}

// Response is one page of items.
type Response[T any] struct {
	PageNumber  int `json:"pageNumber"`
	PageSize    int `json:"pageSize"`
	PageCount   int `json:"pageCount"`
	TotalCount  int `json:"totalCount"`
	PageContent []T `json:"pageContent"`
}

// NewResponse builds a page from its items and the total number of matching rows.
// req must be normalized.
func NewResponse[T any](items []T, totalCount int, req Request) Response[T] {
	if items == nil {
		items = []T{}
	}

	pageCount := totalCount / req.PageSize
	if totalCount%req.PageSize > 0 {
		pageCount++
	}

	return Response[T]{
		PageNumber:  req.PageNumber,
		PageSize:    req.PageSize,
		PageCount:   pageCount,
		TotalCount:  totalCount,
		PageContent: items,
	}
}
