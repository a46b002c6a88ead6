package types

import "strings"

// Page selects a window of a filtered result set. Skip is the offset and Take
// bounds the page size; both must be non-negative. Filter, when non-blank,
// restricts results to rows whose name or title contains the text.
type Page struct {
	Skip   int
	Take   int
	Filter string
}

// Validate returns ErrInvalidPage when Skip or Take is negative.
func (p Page) Validate() error {
	if p.Skip < 0 || p.Take < 0 {
		return ErrInvalidPage
	}
	return nil
}

// FilterText returns the trimmed filter, or "" when no filter applies.
func (p Page) FilterText() string {
	return strings.TrimSpace(p.Filter)
}

// PagedResult is one page of a filtered result set. Items holds only the
// current page; TotalCount is the size of the full filtered set.
type PagedResult[T any] struct {
	Items      []T `json:"items" yaml:"items"`
	TotalCount int `json:"total_count" yaml:"total_count"`
}

// MapPaged converts the items of a paged result, preserving order and total.
func MapPaged[T, U any](in PagedResult[T], fn func(T) U) PagedResult[U] {
	out := PagedResult[U]{
		Items:      make([]U, 0, len(in.Items)),
		TotalCount: in.TotalCount,
	}
	for _, item := range in.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
