// Package memory is an in-process spreadsheet fake for tests and local
// development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneytrack/internal/core"
	"moneytrack/internal/export"
)

type Store struct {
	mu   sync.Mutex
	rows [][]any
	fail error
}

var _ export.RowAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent Append return err.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, family core.Family, rec core.FinancialRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.rows = append(s.rows, export.Row(family, rec))
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
