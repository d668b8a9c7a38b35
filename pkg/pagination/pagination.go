package pagination

const (
	// DefaultPageSize matches the upstream feed's page size.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any windowed read can request.
	MaxPageSize = 100
)

// NormalizePageSize enforces the configured default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// PrevOffset returns the offset of the page before the one fetched at
// offset, or nil when the fetched page was the first.
func PrevOffset(offset, pageSize int) *int {
	if offset <= 0 {
		return nil
	}
	prev := offset - pageSize
	if prev < 0 {
		prev = 0
	}
	return &prev
}

// NextOffset returns the offset of the page after the one fetched at offset,
// or nil when the provider declared the end of the feed.
func NextOffset(offset, pageSize int, endReached bool) *int {
	if endReached {
		return nil
	}
	next := offset + pageSize
	return &next
}

// Window is an offset/limit pair for serving a slice of a materialized view.
type Window struct {
	Offset int
	Limit  int
}

// Normalize clamps the window to sane bounds.
func (w Window) Normalize() Window {
	if w.Offset < 0 {
		w.Offset = 0
	}
	w.Limit = NormalizePageSize(w.Limit)
	return w
}

// End returns the exclusive end index the window needs materialized.
func (w Window) End() int {
	return w.Offset + w.Limit
}
