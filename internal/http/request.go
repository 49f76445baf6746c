package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"moneytrack/internal/core"
)

var errBadBody = errors.New("invalid request body")

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst, rejecting unknown garbage early.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", errBadBody, err)
	}
	return nil
}

// parseFilterParams collects the shared filter vocabulary from the query
// string. The user id comes from the path, never the query.
func parseFilterParams(r *http.Request, userID string) core.FilterParams {
	q := r.URL.Query()
	return core.FilterParams{
		UserID:     userID,
		Category:   strings.TrimSpace(q.Get("category")),
		TimePeriod: strings.TrimSpace(q.Get("timePeriod")),
		Date:       strings.TrimSpace(q.Get("date")),
		StartDate:  strings.TrimSpace(q.Get("startDate")),
		EndDate:    strings.TrimSpace(q.Get("endDate")),
	}
}

// parsePagination returns page and limit; absent or unparsable values fall
// back to page 1 and an unbounded limit.
func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	return page, limit
}

func parseBool(r *http.Request, name string) bool {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
