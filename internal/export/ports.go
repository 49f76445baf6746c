// Package export defines the outbound port for appending financial records
// to an external spreadsheet.
package export

import (
	"context"

	"moneytrack/internal/core"
)

// RowAppender appends one record as a spreadsheet row and returns a
// reference to the written row.
type RowAppender interface {
	Append(ctx context.Context, family core.Family, rec core.FinancialRecord) (rowRef string, err error)
}

// Row renders the record as the columns written to the sheet.
func Row(family core.Family, rec core.FinancialRecord) []any {
	category := ""
	if rec.Category != nil {
		category = rec.Category.Name
	}
	return []any{
		rec.Date.UTC().Format("2006-01-02"),
		string(family),
		string(rec.Kind),
		rec.Concept,
		rec.Beneficiary,
		rec.Amount.Units(),
		category,
		rec.UserID,
	}
}
