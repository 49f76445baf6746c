package core

// FilterParams carries the raw query inputs of a records request. All
// fields except UserID are optional and arrive as strings straight from the
// URL query.
type FilterParams struct {
	UserID     string
	Category   string
	TimePeriod string
	Date       string
	StartDate  string
	EndDate    string
}

// Filter is the normalized query constraint shared by listing, balance
// sums and chart bucketing. A nil Range means no date constraint.
type Filter struct {
	UserID   string
	Category string
	Range    *DateRange
}

// HasDateInput reports whether any of the raw date parameters is set.
func (p FilterParams) HasDateInput() bool {
	return p.Date != "" || p.StartDate != "" || p.EndDate != ""
}

// BuildFilter normalizes raw query parameters into a Filter. The date range
// is resolved and attached only when a time period is given together with at
// least one date parameter; resolver errors propagate unchanged.
func BuildFilter(p FilterParams) (Filter, error) {
	if p.UserID == "" {
		return Filter{}, ErrMissingUser
	}
	f := Filter{UserID: p.UserID, Category: p.Category}
	if p.TimePeriod == "" || !p.HasDateInput() {
		return f, nil
	}
	r, err := ResolveDateRange(p.TimePeriod, p.Date, p.StartDate, p.EndDate)
	if err != nil {
		return Filter{}, err
	}
	f.Range = &r
	return f, nil
}
