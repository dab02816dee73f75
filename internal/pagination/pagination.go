// Package pagination implements offset pagination over a counted result set
// and builds next/previous links by rewriting the request URL's page parameter.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
)

const (
	PageParam     = "page"
	PageSizeParam = "page_size"
)

// Request is a resolved page request.
type Request struct {
	Page int
	Size int
}

// Offset is the index of the first item on the page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Size
}

// ParseRequest reads page and page_size from query. Unparseable or
// non-positive values fall back to page 1 and defaultSize; sizes above
// maxSize are clamped.
func ParseRequest(query url.Values, defaultSize, maxSize int) Request {
	return Request{
		Page: parsePositive(query.Get(PageParam), 1),
		Size: clampSize(parsePositive(query.Get(PageSizeParam), defaultSize), maxSize),
	}
}

func parsePositive(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func clampSize(size, maxSize int) int {
	if maxSize > 0 && size > maxSize {
		return maxSize
	}
	return size
}

// Check fails with ErrInvalidPage when the page starts past a non-empty set.
// An empty set always yields a valid (empty) first page. The comparison is
// done by division so that a huge page number cannot wrap the offset.
func (r Request) Check(total int) error {
	if total > 0 && r.Page-1 > (total-1)/r.Size {
		return errors.ErrInvalidPage
	}
	return nil
}

// HasNext reports whether items remain after this page.
func (r Request) HasNext(total int) bool {
	if total <= 0 {
		return false
	}
	return r.Page <= (total-1)/r.Size
}

// HasPrevious reports whether a page precedes this one.
func (r Request) HasPrevious() bool {
	return r.Page > 1
}

// Links returns the next and previous URLs for the page, nil when absent.
func (r Request) Links(current *url.URL, total int) (next, previous *string) {
	if current == nil {
		return nil, nil
	}
	if r.HasNext(total) {
		s := ReplaceQueryParam(current, PageParam, strconv.Itoa(r.Page+1))
		next = &s
	}
	if r.HasPrevious() {
		s := ReplaceQueryParam(current, PageParam, strconv.Itoa(r.Page-1))
		previous = &s
	}
	return next, previous
}

// ReplaceQueryParam returns u with key set to value, leaving every other
// query parameter in place. u itself is not modified.
func ReplaceQueryParam(u *url.URL, key, value string) string {
	clone := *u
	q := clone.Query()
	q.Set(key, value)
	clone.RawQuery = q.Encode()
	return clone.String()
}
