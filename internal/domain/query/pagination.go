package query

// Pagination carries cursor or offset list options from the transport layer
// down to repositories. After is an internal numeric ID cursor; Order is
// "asc" or "desc" over the listing key.
type Pagination struct {
	Limit  *int
	Offset *int
	After  *uint
	Order  string
}

// LimitOrDefault returns the requested limit bounded to [1, max], or def
// when unset.
func (p *Pagination) LimitOrDefault(def, max int) int {
	if p == nil || p.Limit == nil {
		return def
	}
	limit := *p.Limit
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Descending reports whether results should be returned newest-first.
func (p *Pagination) Descending() bool {
	return p == nil || p.Order != "asc"
}
