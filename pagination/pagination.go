package pagination

var PageSizes = []int{5, 10, 25, 50}

const DefaultPageSize = 5

// State is the 1-indexed page cursor of a grid.
type State struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return State{CurrentPage: 1, PageSize: pageSize}
}

// ValidPageSize returns size when it is one of sizes, fallback otherwise.
func ValidPageSize(size int, sizes []int, fallback int) int {
	for _, s := range sizes {
		if s == size {
			return size
		}
	}
	return fallback
}

// WithPageSize changes the page size and goes back to the first page. A
// size not offered in sizes becomes fallback.
func (s State) WithPageSize(size int, sizes []int, fallback int) State {
	return State{CurrentPage: 1, PageSize: ValidPageSize(size, sizes, fallback)}
}

// Reset goes back to the first page. Used whenever search or filters change.
func (s State) Reset() State {
	s.CurrentPage = 1
	return s
}

func (s State) WithPage(page int) State {
	s.CurrentPage = page
	return s
}

type Result[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	// From and To are the 1-indexed positions of the first and last items
	// shown, both 0 when there are none.
	From int `json:"from"`
	To   int `json:"to"`
}

func TotalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices items for the page in state. The page is clamped to the
// available pages before slicing. A page size below 1 means the default.
func Paginate[T any](items []T, state State) Result[T] {

	size := state.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := TotalPages(total, size)
	page := Clamp(state.CurrentPage, pages)

	from := (page - 1) * size
	to := from + size
	if to > total {
		to = total
	}

	result := Result[T]{
		Items:      append([]T{}, items[from:to]...),
		TotalItems: total,
		TotalPages: pages,
		Page:       page,
		PageSize:   size,
	}
	if total > 0 {
		result.From = from + 1
		result.To = to
	}
	return result
}
