package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the profit and loss view derived from a Document.
type Summary struct {
	TotalFeedCost decimal.Decimal `json:"totalFeedCost"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	InitialCosts  decimal.Decimal `json:"initialCosts"`
	TotalCosts    decimal.Decimal `json:"totalCosts"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// SummarySnapshot is a point-in-time summary archived by the scheduler.
type SummarySnapshot struct {
	Date          time.Time `bson:"date" json:"date"`
	Goats         int       `bson:"goats" json:"goats"`
	Records       int       `bson:"records" json:"records"`
	FeedEntries   int       `bson:"feed_entries" json:"feed_entries"`
	Expenses      int       `bson:"expenses" json:"expenses"`
	IncomeEntries int       `bson:"income_entries" json:"income_entries"`
	InitialCosts  float64   `bson:"initial_costs" json:"initial_costs"`
	TotalFeedCost float64   `bson:"total_feed_cost" json:"total_feed_cost"`
	TotalExpenses float64   `bson:"total_expenses" json:"total_expenses"`
	TotalIncome   float64   `bson:"total_income" json:"total_income"`
	TotalCosts    float64   `bson:"total_costs" json:"total_costs"`
	NetProfit     float64   `bson:"net_profit" json:"net_profit"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
