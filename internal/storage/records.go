package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"moneytrack/internal/core"
)

// RecordCollection is one of the two financial record tables. Transactions
// and debts share the same columns, so a single implementation serves both.
type RecordCollection struct {
	db     *sql.DB
	table  string
	family core.Family
}

// Family returns the family this collection stores.
func (c *RecordCollection) Family() core.Family {
	return c.family
}

// RecordUpdate carries a partial update; nil fields are left untouched.
type RecordUpdate struct {
	Kind        *core.Kind
	Concept     *string
	Beneficiary *string
	Amount      *core.Money
	CategoryID  *string
	Date        *time.Time
}

const recordColumns = `r.id, r.kind, r.concept, r.beneficiary, r.amount_cents,
	r.occurred_on, r.user_id, c.id, c.name`

func (c *RecordCollection) scanRecord(row interface{ Scan(...any) error }) (core.FinancialRecord, error) {
	var (
		rec        core.FinancialRecord
		kind       string
		occurredOn string
		catID      sql.NullString
		catName    sql.NullString
	)
	err := row.Scan(&rec.ID, &kind, &rec.Concept, &rec.Beneficiary,
		&rec.Amount.Cents, &occurredOn, &rec.UserID, &catID, &catName)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	rec.Kind = core.Kind(kind)
	rec.Date = parseTime(occurredOn)
	if catID.Valid {
		rec.Category = &core.Category{ID: catID.String, Name: catName.String}
	}
	return rec, nil
}

// filterClause renders the shared WHERE fragment of a normalized filter.
// Every aggregate and listing query goes through it so they all see the
// same matching set.
func filterClause(f core.Filter) (string, []any) {
	clauses := []string{"r.user_id = ?"}
	args := []any{f.UserID}
	if f.Category != "" {
		clauses = append(clauses, "r.category_id = ?")
		args = append(args, f.Category)
	}
	if f.Range != nil {
		clauses = append(clauses, "r.occurred_on >= ?", "r.occurred_on < ?")
		args = append(args, formatTime(f.Range.Start), formatTime(f.Range.End))
	}
	return strings.Join(clauses, " AND "), args
}

// List returns the records matching the filter, newest first. Page is
// 1-based; a zero limit disables pagination.
func (c *RecordCollection) List(ctx context.Context, f core.Filter, page, limit int) ([]core.FinancialRecord, error) {
	where, args := filterClause(f)
	query := fmt.Sprintf(`SELECT %s FROM %s r
		LEFT JOIN categories c ON c.id = r.category_id
		WHERE %s
		ORDER BY r.occurred_on DESC, r.id`, recordColumns, c.table, where)
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	defer rows.Close()

	records := []core.FinancialRecord{}
	for rows.Next() {
		rec, err := c.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", c.table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", c.table, err)
	}
	return records, nil
}

// Get returns a single record by id.
func (c *RecordCollection) Get(ctx context.Context, id string) (core.FinancialRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s r
		LEFT JOIN categories c ON c.id = r.category_id
		WHERE r.id = ?`, recordColumns, c.table)
	rec, err := c.scanRecord(c.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.FinancialRecord{}, ErrNotFound
	}
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("get %s record: %w", c.table, err)
	}
	return rec, nil
}

// Create persists a new record and returns it with the category populated.
func (c *RecordCollection) Create(ctx context.Context, rec core.FinancialRecord) (core.FinancialRecord, error) {
	if err := rec.Validate(c.family); err != nil {
		return core.FinancialRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	var categoryID any
	if rec.Category != nil && rec.Category.ID != "" {
		categoryID = rec.Category.ID
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(id, kind, concept, beneficiary, amount_cents, category_id, occurred_on, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, c.table)
	_, err := c.db.ExecContext(ctx, query,
		rec.ID, string(rec.Kind), rec.Concept, rec.Beneficiary,
		rec.Amount.Cents, categoryID, formatTime(rec.Date), rec.UserID)
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("insert %s record: %w", c.table, err)
	}

	return c.Get(ctx, rec.ID)
}

// Update applies a partial update and returns the updated record.
func (c *RecordCollection) Update(ctx context.Context, id string, u RecordUpdate) (core.FinancialRecord, error) {
	sets := []string{}
	args := []any{}
	if u.Kind != nil {
		if !c.family.ValidKind(*u.Kind) {
			return core.FinancialRecord{}, core.ErrInvalidKind
		}
		sets = append(sets, "kind = ?")
		args = append(args, string(*u.Kind))
	}
	if u.Concept != nil {
		if strings.TrimSpace(*u.Concept) == "" {
			return core.FinancialRecord{}, core.ErrEmptyConcept
		}
		sets = append(sets, "concept = ?")
		args = append(args, *u.Concept)
	}
	if u.Beneficiary != nil {
		sets = append(sets, "beneficiary = ?")
		args = append(args, *u.Beneficiary)
	}
	if u.Amount != nil {
		if err := u.Amount.Validate(); err != nil {
			return core.FinancialRecord{}, err
		}
		sets = append(sets, "amount_cents = ?")
		args = append(args, u.Amount.Cents)
	}
	if u.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		if *u.CategoryID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *u.CategoryID)
		}
	}
	if u.Date != nil {
		sets = append(sets, "occurred_on = ?")
		args = append(args, formatTime(*u.Date))
	}
	if len(sets) == 0 {
		return c.Get(ctx, id)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", c.table, strings.Join(sets, ", "))
	args = append(args, id)
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("update %s record: %w", c.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("update %s record: %w", c.table, err)
	}
	if affected == 0 {
		return core.FinancialRecord{}, ErrNotFound
	}

	return c.Get(ctx, id)
}

// Delete removes a record and returns the removed row.
func (c *RecordCollection) Delete(ctx context.Context, id string) (core.FinancialRecord, error) {
	rec, err := c.Get(ctx, id)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.table)
	if _, err := c.db.ExecContext(ctx, query, id); err != nil {
		return core.FinancialRecord{}, fmt.Errorf("delete %s record: %w", c.table, err)
	}
	return rec, nil
}

// DeleteByUser removes every record owned by the user and returns the count.
func (c *RecordCollection) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", c.table)
	res, err := c.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete %s by user: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s by user: %w", c.table, err)
	}
	return n, nil
}

// SumByKind returns the one-sided sum in cents of the records matching the
// filter. Records of other kinds contribute zero; an empty match is zero.
func (c *RecordCollection) SumByKind(ctx context.Context, f core.Filter, kind core.Kind) (int64, error) {
	if !c.family.ValidKind(kind) {
		return 0, core.ErrInvalidKind
	}
	where, args := filterClause(f)
	query := fmt.Sprintf(`SELECT COALESCE(SUM(CASE WHEN r.kind = ? THEN r.amount_cents ELSE 0 END), 0)
		FROM %s r WHERE %s`, c.table, where)
	args = append([]any{string(kind)}, args...)

	var total int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum %s by kind: %w", c.table, err)
	}
	return total, nil
}

// NetBalance returns the signed sum in cents: the family's positive kind
// counts plus, the negative kind minus.
func (c *RecordCollection) NetBalance(ctx context.Context, f core.Filter) (int64, error) {
	pos, _ := c.family.Kinds()
	where, args := filterClause(f)
	query := fmt.Sprintf(`SELECT COALESCE(SUM(CASE WHEN r.kind = ? THEN r.amount_cents ELSE -r.amount_cents END), 0)
		FROM %s r WHERE %s`, c.table, where)
	args = append([]any{string(pos)}, args...)

	var total int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("net balance %s: %w", c.table, err)
	}
	return total, nil
}

// ChartPoints buckets the matching records by UTC calendar day. With
// groupByKind each (day, kind) pair becomes a point labeled by the kind;
// otherwise each day becomes one point with the signed net and the family
// label.
func (c *RecordCollection) ChartPoints(ctx context.Context, f core.Filter, groupByKind bool) ([]core.ChartPoint, error) {
	where, args := filterClause(f)

	if groupByKind {
		query := fmt.Sprintf(`SELECT substr(r.occurred_on, 1, 10) AS day, r.kind, SUM(r.amount_cents)
			FROM %s r WHERE %s
			GROUP BY day, r.kind
			ORDER BY day, r.kind`, c.table, where)
		rows, err := c.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("chart points %s: %w", c.table, err)
		}
		defer rows.Close()

		points := []core.ChartPoint{}
		for rows.Next() {
			var (
				day   string
				kind  string
				cents int64
			)
			if err := rows.Scan(&day, &kind, &cents); err != nil {
				return nil, fmt.Errorf("scan chart point: %w", err)
			}
			points = append(points, core.ChartPoint{
				Group:  core.Kind(kind).Label(),
				Date:   day,
				Amount: core.Money{Cents: cents},
			})
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate chart points: %w", err)
		}
		return points, nil
	}

	pos, _ := c.family.Kinds()
	query := fmt.Sprintf(`SELECT substr(r.occurred_on, 1, 10) AS day,
		SUM(CASE WHEN r.kind = ? THEN r.amount_cents ELSE -r.amount_cents END)
		FROM %s r WHERE %s
		GROUP BY day
		ORDER BY day`, c.table, where)
	args = append([]any{string(pos)}, args...)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("chart points %s: %w", c.table, err)
	}
	defer rows.Close()

	label := c.family.Label()
	points := []core.ChartPoint{}
	for rows.Next() {
		var (
			day   string
			cents int64
		)
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, fmt.Errorf("scan chart point: %w", err)
		}
		points = append(points, core.ChartPoint{
			Group:  label,
			Date:   day,
			Amount: core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart points: %w", err)
	}
	return points, nil
}

// PendingExport returns ids of records not yet appended to the spreadsheet,
// oldest first.
func (c *RecordCollection) PendingExport(ctx context.Context, limit int) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s
		WHERE exported_at IS NULL AND export_error = 0
		ORDER BY created_at LIMIT ?`, c.table)
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pending export %s: %w", c.table, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending export id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending export ids: %w", err)
	}
	return ids, nil
}

// MarkExported stamps a record as appended to the spreadsheet.
func (c *RecordCollection) MarkExported(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET exported_at = ?, export_error = 0 WHERE id = ?", c.table)
	res, err := c.db.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("mark %s exported: %w", c.table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkExportError flags a record so the export loop stops retrying it.
func (c *RecordCollection) MarkExportError(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET export_error = 1 WHERE id = ?", c.table)
	res, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark %s export error: %w", c.table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
