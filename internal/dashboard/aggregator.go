// Package dashboard computes aggregated summaries over one user's
// transactions. Compute is a pure function: it reads a snapshot of income and
// expense records and never mutates stored data or its inputs.
package dashboard

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

const (
	incomeWindowDays  = 60
	expenseWindowDays = 30
	recentPerKind     = 5
)

// Compute derives the dashboard summary for one user at the given instant.
//
// Window semantics:
//   - last 60 days income: date >= now - 60d, no upper bound
//   - last 30 days expense: [midnight 30 days ago, 23:59:59.999 today], both inclusive
//
// A user with no transactions of a kind yields zero totals and empty lists.
func Compute(incomes, expenses []core.Transaction, now time.Time) core.Summary {
	incomes = sortedByDateDesc(incomes)
	expenses = sortedByDateDesc(expenses)

	var totalIncome, totalExpense int64
	for _, t := range incomes {
		totalIncome += t.Amount.Cents
	}
	for _, t := range expenses {
		totalExpense += t.Amount.Cents
	}

	incomeCutoff := now.Add(-incomeWindowDays * 24 * time.Hour)
	last60 := core.IncomeWindow{Transactions: []core.Transaction{}}
	for _, t := range incomes {
		if !t.Date.Before(incomeCutoff) {
			last60.Transactions = append(last60.Transactions, t)
			last60.Total.Cents += t.Amount.Cents
		}
	}

	expenseStart := midnight(now.AddDate(0, 0, -expenseWindowDays))
	expenseEnd := endOfDay(now)
	last30 := core.ExpenseWindow{Transactions: []core.TypedTransaction{}}
	for _, t := range expenses {
		if !t.Date.Before(expenseStart) && !t.Date.After(expenseEnd) {
			last30.Transactions = append(last30.Transactions, core.Typed(t))
			last30.Total.Cents += t.Amount.Cents
		}
	}

	// Merge the 5 most recent of each kind and re-sort; ties keep the
	// concatenation order (income before expense), which is stable per run.
	recent := make([]core.TypedTransaction, 0, 2*recentPerKind)
	for _, t := range head(incomes, recentPerKind) {
		recent = append(recent, core.Typed(t))
	}
	for _, t := range head(expenses, recentPerKind) {
		recent = append(recent, core.Typed(t))
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date.Time)
	})

	allExpenses := make([]core.TypedTransaction, 0, len(expenses))
	for _, t := range expenses {
		allExpenses = append(allExpenses, core.Typed(t))
	}

	return core.Summary{
		TotalBalance:      core.Money{Cents: totalIncome - totalExpense},
		TotalIncome:       core.Money{Cents: totalIncome},
		TotalExpense:      core.Money{Cents: totalExpense},
		Last30DaysExpense: last30,
		Last60DaysIncome:  last60,
		LastTransactions:  recent,
		AllExpenses:       allExpenses,
	}
}

// sortedByDateDesc returns a copy sorted newest first; ties keep input order.
func sortedByDateDesc(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func head(txs []core.Transaction, n int) []core.Transaction {
	if len(txs) < n {
		return txs
	}
	return txs[:n]
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
