package listing

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxNumber keeps (Number-1)*Limit inside a Postgres int4 OFFSET.
	MaxNumber = math.MaxInt32 / MaxLimit
)

type Page struct {
	Number int
	Limit  int
}

// NewPage clamps caller input into a usable page: numbers start at 1 and
// cap at MaxNumber, limits fall back to DefaultLimit and cap at MaxLimit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxNumber {
		number = MaxNumber
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

type Result[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewResult[T any](items []T, total int, page Page) Result[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if page.Limit > 0 {
		pages = (total + page.Limit - 1) / page.Limit
	}
	return Result[T]{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: pages,
	}
}
