package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/goatledger/internal/domain/models"
)

// ComputeSummary derives the profit and loss report of doc. Sums are exact
// decimals, so the result does not depend on entry order.
func ComputeSummary(doc models.Document) models.Summary {
	feed := decimal.Zero
	for _, f := range doc.FeedEntries {
		feed = feed.Add(decimal.NewFromFloat(f.Cost))
	}

	expenses := decimal.Zero
	for _, e := range doc.Expenses {
		expenses = expenses.Add(decimal.NewFromFloat(e.Amount))
	}

	income := decimal.Zero
	for _, i := range doc.Income {
		income = income.Add(decimal.NewFromFloat(i.Amount))
	}

	initial := decimal.Zero
	for _, g := range doc.Goats {
		initial = initial.Add(parseAmount(g.Price))
	}

	totalCosts := initial.Add(feed).Add(expenses)

	return models.Summary{
		TotalFeedCost: feed,
		TotalExpenses: expenses,
		TotalIncome:   income,
		InitialCosts:  initial,
		TotalCosts:    totalCosts,
		NetProfit:     income.Sub(totalCosts),
	}
}
