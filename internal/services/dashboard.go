package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"moneytrack/internal/core"
)

// TotalBalance is the dashboard figure: transactions net plus debts net,
// with the per-family parts broken out.
type TotalBalance struct {
	Transactions core.Money `json:"transactions"`
	Debts        core.Money `json:"debts"`
	Total        core.Money `json:"total"`
}

// DashboardBalance aggregates both families concurrently for the user.
func (s *RecordService) DashboardBalance(ctx context.Context, userID string) (TotalBalance, error) {
	filter := core.Filter{UserID: userID}

	var transactions, debts int64
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cents, err := s.repo.Transactions.NetBalance(ctx, filter)
		transactions = cents
		return err
	})
	g.Go(func() error {
		cents, err := s.repo.Debts.NetBalance(ctx, filter)
		debts = cents
		return err
	})
	if err := g.Wait(); err != nil {
		return TotalBalance{}, err
	}

	return TotalBalance{
		Transactions: core.Money{Cents: transactions},
		Debts:        core.Money{Cents: debts},
		Total:        core.Money{Cents: transactions + debts},
	}, nil
}
