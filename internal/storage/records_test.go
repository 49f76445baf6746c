package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"moneytrack/internal/core"
)

type RecordsSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *RecordsSuite) SetupTest() {
	repo, err := NewInMemory()
	require.NoError(s.T(), err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RecordsSuite) TearDownTest() {
	s.repo.Close()
}

func (s *RecordsSuite) record(kind core.Kind, concept string, cents int64, date time.Time) core.FinancialRecord {
	return core.FinancialRecord{
		Kind:    kind,
		Concept: concept,
		Amount:  core.Money{Cents: cents},
		Date:    date,
		UserID:  "user-1",
	}
}

func (s *RecordsSuite) TestCreateAndGet() {
	in := s.record(core.KindIncome, "Salary", 250000, time.Date(2022, 4, 10, 0, 0, 0, 0, time.UTC))
	in.Category = &core.Category{ID: "cat-salary"}

	created, err := s.repo.Transactions.Create(s.ctx, in)
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(core.KindIncome, created.Kind)
	s.Equal("Salary", created.Concept)
	s.Equal(int64(250000), created.Amount.Cents)
	s.Require().NotNil(created.Category)
	s.Equal("Salary", created.Category.Name)

	got, err := s.repo.Transactions.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, got)
}

func (s *RecordsSuite) TestCreateRejectsForeignKind() {
	_, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindLoan, "Lent money", 5000, time.Now()))
	s.ErrorIs(err, core.ErrInvalidKind)

	_, err = s.repo.Debts.Create(s.ctx,
		s.record(core.KindIncome, "Salary", 5000, time.Now()))
	s.ErrorIs(err, core.ErrInvalidKind)
}

func (s *RecordsSuite) TestDebtsCarryBeneficiary() {
	in := s.record(core.KindLoan, "Lent for rent", 30000, time.Date(2022, 4, 5, 0, 0, 0, 0, time.UTC))
	in.Beneficiary = "Alice"

	created, err := s.repo.Debts.Create(s.ctx, in)
	s.Require().NoError(err)
	s.Equal("Alice", created.Beneficiary)
}

func (s *RecordsSuite) TestListPagination() {
	base := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.repo.Transactions.Create(s.ctx,
			s.record(core.KindExpenses, "Groceries", 1000, base.AddDate(0, 0, i)))
		s.Require().NoError(err)
	}

	all, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-1"}, 1, 0)
	s.Require().NoError(err)
	s.Len(all, 5, "limit 0 disables pagination")

	page1, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-1"}, 1, 2)
	s.Require().NoError(err)
	s.Len(page1, 2)

	page3, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-1"}, 3, 2)
	s.Require().NoError(err)
	s.Len(page3, 1)

	s.Equal("2022-04-05", page1[0].Date.Format("2006-01-02"), "newest first")
}

func (s *RecordsSuite) TestListIsolatesUsers() {
	_, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindIncome, "Salary", 1000, time.Now()))
	s.Require().NoError(err)

	other := s.record(core.KindIncome, "Salary", 2000, time.Now())
	other.UserID = "user-2"
	_, err = s.repo.Transactions.Create(s.ctx, other)
	s.Require().NoError(err)

	records, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-2"}, 1, 0)
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal("user-2", records[0].UserID)
}

func (s *RecordsSuite) seedAprilScenario() {
	april := func(day int) time.Time {
		return time.Date(2022, 4, day, 0, 0, 0, 0, time.UTC)
	}
	_, err := s.repo.Transactions.Create(s.ctx, s.record(core.KindIncome, "Salary", 10000, april(10)))
	s.Require().NoError(err)
	_, err = s.repo.Transactions.Create(s.ctx, s.record(core.KindExpenses, "Groceries", 4000, april(20)))
	s.Require().NoError(err)
	// Outside the window
	_, err = s.repo.Transactions.Create(s.ctx,
		s.record(core.KindExpenses, "Rent", 90000, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)
}

func (s *RecordsSuite) aprilFilter() core.Filter {
	f, err := core.BuildFilter(core.FilterParams{
		UserID:     "user-1",
		TimePeriod: core.PeriodMonth,
		Date:       "2022-04",
	})
	s.Require().NoError(err)
	return f
}

func (s *RecordsSuite) TestSumByKind() {
	s.seedAprilScenario()
	f := s.aprilFilter()

	income, err := s.repo.Transactions.SumByKind(s.ctx, f, core.KindIncome)
	s.Require().NoError(err)
	s.Equal(int64(10000), income)

	expenses, err := s.repo.Transactions.SumByKind(s.ctx, f, core.KindExpenses)
	s.Require().NoError(err)
	s.Equal(int64(4000), expenses)

	_, err = s.repo.Transactions.SumByKind(s.ctx, f, core.KindLoan)
	s.ErrorIs(err, core.ErrInvalidKind)
}

func (s *RecordsSuite) TestNetBalance() {
	s.seedAprilScenario()

	net, err := s.repo.Transactions.NetBalance(s.ctx, s.aprilFilter())
	s.Require().NoError(err)
	s.Equal(int64(6000), net)
}

func (s *RecordsSuite) TestEmptyMatchIsZero() {
	net, err := s.repo.Transactions.NetBalance(s.ctx, core.Filter{UserID: "nobody"})
	s.Require().NoError(err)
	s.Zero(net)

	sum, err := s.repo.Transactions.SumByKind(s.ctx, core.Filter{UserID: "nobody"}, core.KindIncome)
	s.Require().NoError(err)
	s.Zero(sum)
}

func (s *RecordsSuite) TestCategoryFilter() {
	in := s.record(core.KindExpenses, "Groceries", 4000, time.Date(2022, 4, 2, 0, 0, 0, 0, time.UTC))
	in.Category = &core.Category{ID: "cat-food"}
	_, err := s.repo.Transactions.Create(s.ctx, in)
	s.Require().NoError(err)

	other := s.record(core.KindExpenses, "Train", 2000, time.Date(2022, 4, 3, 0, 0, 0, 0, time.UTC))
	other.Category = &core.Category{ID: "cat-transport"}
	_, err = s.repo.Transactions.Create(s.ctx, other)
	s.Require().NoError(err)

	records, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-1", Category: "cat-food"}, 1, 0)
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal("Groceries", records[0].Concept)
}

func (s *RecordsSuite) TestChartPointsGroupedByKind() {
	s.seedAprilScenario()

	points, err := s.repo.Transactions.ChartPoints(s.ctx, s.aprilFilter(), true)
	s.Require().NoError(err)

	byKey := map[string]int64{}
	for _, p := range points {
		byKey[p.Date+"/"+p.Group] = p.Amount.Cents
	}
	s.Equal(int64(10000), byKey["2022-04-10/Income"])
	s.Equal(int64(4000), byKey["2022-04-20/Expenses"])
	s.Len(points, 2)
}

func (s *RecordsSuite) TestChartPointsNetPerDay() {
	april := time.Date(2022, 4, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.repo.Transactions.Create(s.ctx, s.record(core.KindIncome, "Salary", 10000, april))
	s.Require().NoError(err)
	_, err = s.repo.Transactions.Create(s.ctx, s.record(core.KindExpenses, "Dinner", 3000, april))
	s.Require().NoError(err)

	points, err := s.repo.Transactions.ChartPoints(s.ctx, core.Filter{UserID: "user-1"}, false)
	s.Require().NoError(err)
	s.Require().Len(points, 1)
	s.Equal("Transaction", points[0].Group)
	s.Equal("2022-04-10", points[0].Date)
	s.Equal(int64(7000), points[0].Amount.Cents)
}

func (s *RecordsSuite) TestUpdatePartial() {
	created, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindExpenses, "Groceries", 4000, time.Date(2022, 4, 2, 0, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)

	concept := "Weekly groceries"
	amount := core.Money{Cents: 4550}
	updated, err := s.repo.Transactions.Update(s.ctx, created.ID, RecordUpdate{
		Concept: &concept,
		Amount:  &amount,
	})
	s.Require().NoError(err)
	s.Equal("Weekly groceries", updated.Concept)
	s.Equal(int64(4550), updated.Amount.Cents)
	s.Equal(created.Kind, updated.Kind, "untouched fields survive")
	s.Equal(created.Date, updated.Date)
}

func (s *RecordsSuite) TestUpdateUnknownID() {
	concept := "x"
	_, err := s.repo.Transactions.Update(s.ctx, "missing", RecordUpdate{Concept: &concept})
	s.ErrorIs(err, ErrNotFound)
}

func (s *RecordsSuite) TestDeleteReturnsRemovedRecord() {
	created, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindExpenses, "Groceries", 4000, time.Now()))
	s.Require().NoError(err)

	removed, err := s.repo.Transactions.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, removed)

	_, err = s.repo.Transactions.Get(s.ctx, created.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.Transactions.Delete(s.ctx, created.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RecordsSuite) TestDeleteByUser() {
	for i := 0; i < 3; i++ {
		_, err := s.repo.Transactions.Create(s.ctx,
			s.record(core.KindExpenses, "Groceries", 1000, time.Now()))
		s.Require().NoError(err)
	}

	n, err := s.repo.Transactions.DeleteByUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	records, err := s.repo.Transactions.List(s.ctx, core.Filter{UserID: "user-1"}, 1, 0)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *RecordsSuite) TestExportLifecycle() {
	created, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindIncome, "Salary", 10000, time.Now()))
	s.Require().NoError(err)

	pending, err := s.repo.Transactions.PendingExport(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]string{created.ID}, pending)

	s.Require().NoError(s.repo.Transactions.MarkExported(s.ctx, created.ID))

	pending, err = s.repo.Transactions.PendingExport(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *RecordsSuite) TestExportErrorStopsRetries() {
	created, err := s.repo.Transactions.Create(s.ctx,
		s.record(core.KindIncome, "Salary", 10000, time.Now()))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Transactions.MarkExportError(s.ctx, created.ID))

	pending, err := s.repo.Transactions.PendingExport(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func TestRecordsSuite(t *testing.T) {
	suite.Run(t, new(RecordsSuite))
}
