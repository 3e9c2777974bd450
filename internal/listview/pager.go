package listview

// DefaultPageSize is the fixed number of submissions per page.
const DefaultPageSize = 5

// PageCount returns ceil(total/pageSize), 0 for an empty sequence.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Pager tracks the current page over a sequence of known length.
// Pages are 1-based. With no items the current page stays 1 and PageCount is 0.
type Pager struct {
	total    int
	pageSize int
	page     int
}

func NewPager(total, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return &Pager{total: total, pageSize: pageSize, page: 1}
}

func (p *Pager) Page() int      { return p.page }
func (p *Pager) PageSize() int  { return p.pageSize }
func (p *Pager) Total() int     { return p.total }
func (p *Pager) PageCount() int { return PageCount(p.total, p.pageSize) }

// HasPrev reports whether Prev would move.
func (p *Pager) HasPrev() bool { return p.page > 1 }

// HasNext reports whether Next would move.
func (p *Pager) HasNext() bool { return p.page < p.PageCount() }

// Prev moves one page back, floored at 1.
func (p *Pager) Prev() {
	if p.HasPrev() {
		p.page--
	}
}

// Next moves one page forward, capped at PageCount.
func (p *Pager) Next() {
	if p.HasNext() {
		p.page++
	}
}

// GoTo jumps to page n clamped to [1, PageCount].
func (p *Pager) GoTo(n int) {
	p.page = p.clamp(n)
}

// SetTotal updates the sequence length and re-clamps the current page.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.page = p.clamp(p.page)
}

// Pages lists the page numbers to render as buttons.
func (p *Pager) Pages() []int {
	count := p.PageCount()
	pages := make([]int, count)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Bounds returns the zero-based half-open range of the current page clipped to the sequence.
func (p *Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.pageSize
	end = start + p.pageSize
	if start > p.total {
		start = p.total
	}
	if end > p.total {
		end = p.total
	}
	return start, end
}

// Slice returns the visible part of items for the current page.
func Slice[T any](p *Pager, items []T) []T {
	start, end := p.Bounds()
	if start >= len(items) {
		return nil
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (p *Pager) clamp(n int) int {
	count := p.PageCount()
	if n > count {
		n = count
	}
	if n < 1 {
		n = 1
	}
	return n
}
