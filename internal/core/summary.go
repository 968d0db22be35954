package core

// IncomeWindow is a time-filtered slice of income records with its total.
type IncomeWindow struct {
	Total        Money         `json:"total"`
	Transactions []Transaction `json:"transactions"`
}

// ExpenseWindow is a time-filtered slice of expense records with its total.
// Items carry a type tag so clients can merge them with income feeds.
type ExpenseWindow struct {
	Total        Money              `json:"total"`
	Transactions []TypedTransaction `json:"transactions"`
}

// Summary is the aggregated dashboard payload for one user.
type Summary struct {
	TotalBalance      Money              `json:"totalBalance"`
	TotalIncome       Money              `json:"totalIncome"`
	TotalExpense      Money              `json:"totalExpense"`
	Last30DaysExpense ExpenseWindow      `json:"last30DaysExpense"`
	Last60DaysIncome  IncomeWindow       `json:"last60DaysIncome"`
	LastTransactions  []TypedTransaction `json:"lastTransactions"`
	AllExpenses       []TypedTransaction `json:"allExpenses"`
}
