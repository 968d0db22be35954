package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

// addTransactionRequest carries the add payload. Amount is a pointer so an
// absent field is distinguishable from an explicit zero, which is allowed.
type addTransactionRequest struct {
	Icon     string      `json:"icon"`
	Source   string      `json:"source"`
	Category string      `json:"category"`
	Amount   *core.Money `json:"amount"`
	Date     core.Date   `json:"date"`
}

// label returns the kind-appropriate field value.
func (req addTransactionRequest) label(kind core.Kind) string {
	if kind == core.KindIncome {
		return req.Source
	}
	return req.Category
}

// kindTitle is the capitalized kind used in response messages.
func kindTitle(kind core.Kind) string {
	if kind == core.KindIncome {
		return "Income"
	}
	return "Expense"
}

// listKey is the JSON key wrapping list responses.
func listKey(kind core.Kind) string {
	if kind == core.KindIncome {
		return "incomes"
	}
	return "expenses"
}

func (s *Server) handleAddTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())

		var req addTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "All fields are required")
			return
		}
		if req.Amount == nil {
			writeMessage(w, http.StatusBadRequest, "All fields are required")
			return
		}

		tx := core.Transaction{
			UserID: user.ID,
			Kind:   kind,
			Label:  sanitizeInput(req.label(kind)),
			Icon:   sanitizeInput(req.Icon),
			Amount: *req.Amount,
			Date:   req.Date,
		}
		if err := tx.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, "All fields are required")
			return
		}

		created, err := s.transactions.CreateTransaction(r.Context(), tx)
		if err != nil {
			s.serverError(w, r, "add "+string(kind), err)
			return
		}

		s.invalidateSummary(user.ID)
		s.logger.InfoContext(r.Context(), "Transaction added",
			log.FieldUserID, user.ID,
			log.FieldTransactionID, created.ID,
			log.FieldKind, string(kind),
			log.FieldAmountCents, created.Amount.Cents)

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":   fmt.Sprintf("%s added successfully", kindTitle(kind)),
			string(kind): created,
		})
	}
}

func (s *Server) handleListTransactions(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())

		txs, err := s.transactions.ListTransactions(r.Context(), user.ID, kind)
		if err != nil {
			s.serverError(w, r, "list "+string(kind), err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{listKey(kind): txs})
	}
}

func (s *Server) handleDeleteTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusNotFound, kindTitle(kind)+" not found")
			return
		}

		switch err := s.transactions.DeleteTransaction(r.Context(), id, user.ID); {
		case errors.Is(err, storage.ErrNotFound):
			writeMessage(w, http.StatusNotFound, kindTitle(kind)+" not found")
			return
		case errors.Is(err, storage.ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Not authorized to delete this "+string(kind))
			return
		case err != nil:
			s.serverError(w, r, "delete "+string(kind), err)
			return
		}

		s.invalidateSummary(user.ID)
		s.logger.InfoContext(r.Context(), "Transaction deleted",
			log.FieldUserID, user.ID,
			log.FieldTransactionID, id,
			log.FieldKind, string(kind))

		writeMessage(w, http.StatusOK, kindTitle(kind)+" deleted successfully")
	}
}

func (s *Server) handleDownloadExcel(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.UserFromContext(r.Context())

		txs, err := s.transactions.ListTransactions(r.Context(), user.ID, kind)
		if err != nil {
			s.serverError(w, r, "export "+string(kind), err)
			return
		}

		cols := report.IncomeColumns()
		if kind == core.KindExpense {
			cols = report.ExpenseColumns()
		}
		data, err := report.WriteXLSX(report.SheetName(kind), txs, cols)
		if err != nil {
			s.serverError(w, r, "export "+string(kind), err)
			return
		}

		w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(kind))
		w.Header().Set("Content-Type", report.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	}
}
