package http

import (
	"net/http"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// balanceKinds maps the balance path labels onto record kinds. The plural
// labels mirror the collection vocabulary, the singular ones the kinds.
var balanceKinds = map[string]core.Kind{
	"income":   core.KindIncome,
	"expenses": core.KindExpenses,
	"loans":    core.KindLoan,
	"debts":    core.KindDebt,
}

type balanceResponse struct {
	Kind   string     `json:"kind"`
	Amount core.Money `json:"amount"`
}

func (s *Server) handleListRecords(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := parseFilterParams(r, r.PathValue("userId"))
		page, limit := parsePagination(r)

		records, err := s.records.List(r.Context(), family, params, page, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) handleCreateRecord(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Kind        core.Kind  `json:"type"`
			Concept     string     `json:"concept"`
			Beneficiary string     `json:"beneficiary"`
			Amount      core.Money `json:"amount"`
			Category    string     `json:"category"`
			Date        time.Time  `json:"date"`
			UserID      string     `json:"userId"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}

		rec := core.FinancialRecord{
			Kind:        in.Kind,
			Concept:     sanitizeInput(in.Concept),
			Beneficiary: sanitizeInput(in.Beneficiary),
			Amount:      in.Amount,
			Date:        in.Date,
			UserID:      in.UserID,
		}
		if in.Category != "" {
			rec.Category = &core.Category{ID: in.Category}
		}
		if rec.UserID == "" {
			if claims, ok := claimsFrom(r.Context()); ok {
				rec.UserID = claims.ID
			}
		}

		created, err := s.records.Create(r.Context(), family, rec)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) handleUpdateRecord(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Kind        *core.Kind  `json:"type"`
			Concept     *string     `json:"concept"`
			Beneficiary *string     `json:"beneficiary"`
			Amount      *core.Money `json:"amount"`
			Category    *string     `json:"category"`
			Date        *time.Time  `json:"date"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}

		updated, err := s.records.Update(r.Context(), family, r.PathValue("id"), storage.RecordUpdate{
			Kind:        in.Kind,
			Concept:     in.Concept,
			Beneficiary: in.Beneficiary,
			Amount:      in.Amount,
			CategoryID:  in.Category,
			Date:        in.Date,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) handleDeleteRecord(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := s.records.Delete(r.Context(), family, r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, removed)
	}
}

func (s *Server) handleBalance(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := r.PathValue("kind")
		kind, ok := balanceKinds[label]
		if !ok || !family.ValidKind(kind) {
			writeError(w, r, core.ErrInvalidKind)
			return
		}

		params := parseFilterParams(r, r.PathValue("userId"))
		amount, err := s.records.SumByKind(r.Context(), family, params, kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, balanceResponse{Kind: label, Amount: amount})
	}
}

func (s *Server) handleChart(family core.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := parseFilterParams(r, r.PathValue("userId"))
		points, err := s.records.Chart(r.Context(), family, params, parseBool(r, "groupByType"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}

func (s *Server) handleDashboardBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.records.DashboardBalance(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
