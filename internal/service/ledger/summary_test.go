package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/goatledger/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(EmptyDocument())

	for name, v := range map[string]decimal.Decimal{
		"feed": s.TotalFeedCost, "expenses": s.TotalExpenses, "income": s.TotalIncome,
		"initial": s.InitialCosts, "costs": s.TotalCosts, "net": s.NetProfit,
	} {
		assert.Truef(t, v.IsZero(), "%s should be zero", name)
	}
}

func TestComputeSummaryExample(t *testing.T) {
	doc := models.Document{
		Goats:       []models.Goat{{ID: "g1", Price: "500"}},
		FeedEntries: []models.FeedEntry{{ID: "f1", Cost: 100}, {ID: "f2", Cost: 50}},
		Expenses:    []models.Expense{{ID: "e1", Amount: 75}},
		Income:      []models.IncomeEntry{{ID: "i1", Amount: 300}},
	}

	s := ComputeSummary(doc)

	assertDecimal(t, "500", s.InitialCosts, "initialCosts")
	assertDecimal(t, "150", s.TotalFeedCost, "totalFeedCost")
	assertDecimal(t, "75", s.TotalExpenses, "totalExpenses")
	assertDecimal(t, "725", s.TotalCosts, "totalCosts")
	assertDecimal(t, "300", s.TotalIncome, "totalIncome")
	assertDecimal(t, "-425", s.NetProfit, "netProfit")
}

func TestComputeSummaryIgnoresUnparsablePrices(t *testing.T) {
	doc := models.Document{
		Goats: []models.Goat{{Price: ""}, {Price: "abc"}, {Price: " 120.5 "}},
	}

	assertDecimal(t, "120.5", ComputeSummary(doc).InitialCosts, "initialCosts")
}

func TestComputeSummaryOrderIndependent(t *testing.T) {
	doc := models.Document{}
	for _, c := range []float64{0.1, 0.2, 0.3, 19.99, 1e6, 3.333, 7} {
		doc.FeedEntries = append(doc.FeedEntries, models.FeedEntry{Cost: c})
		doc.Expenses = append(doc.Expenses, models.Expense{Amount: c / 2})
		doc.Income = append(doc.Income, models.IncomeEntry{Amount: c * 3})
	}
	want := ComputeSummary(doc)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := models.Document{
			FeedEntries: append([]models.FeedEntry(nil), doc.FeedEntries...),
			Expenses:    append([]models.Expense(nil), doc.Expenses...),
			Income:      append([]models.IncomeEntry(nil), doc.Income...),
		}
		rng.Shuffle(len(shuffled.FeedEntries), func(a, b int) {
			shuffled.FeedEntries[a], shuffled.FeedEntries[b] = shuffled.FeedEntries[b], shuffled.FeedEntries[a]
		})
		rng.Shuffle(len(shuffled.Expenses), func(a, b int) {
			shuffled.Expenses[a], shuffled.Expenses[b] = shuffled.Expenses[b], shuffled.Expenses[a]
		})
		rng.Shuffle(len(shuffled.Income), func(a, b int) {
			shuffled.Income[a], shuffled.Income[b] = shuffled.Income[b], shuffled.Income[a]
		})

		got := ComputeSummary(shuffled)
		assert.InDelta(t, want.TotalFeedCost.InexactFloat64(), got.TotalFeedCost.InexactFloat64(), 1e-9)
		assert.InDelta(t, want.TotalExpenses.InexactFloat64(), got.TotalExpenses.InexactFloat64(), 1e-9)
		assert.InDelta(t, want.TotalIncome.InexactFloat64(), got.TotalIncome.InexactFloat64(), 1e-9)
		assert.InDelta(t, want.NetProfit.InexactFloat64(), got.NetProfit.InexactFloat64(), 1e-9)
	}
}

func TestComputeSummaryCoercedAmounts(t *testing.T) {
	ops := testOps()
	doc, _ := ops.AddFeedEntry(EmptyDocument(), models.FeedInput{Type: "hay", Qty: "1", Cost: "lots"})
	doc, _ = ops.AddExpense(doc, models.EntryInput{Title: "fence", Amount: "40"})
	doc, _ = ops.AddIncome(doc, models.EntryInput{Title: "milk", Amount: "??"})

	s := ComputeSummary(doc)
	assertDecimal(t, "0", s.TotalFeedCost, "totalFeedCost")
	assertDecimal(t, "0", s.TotalIncome, "totalIncome")
	assertDecimal(t, "-40", s.NetProfit, "netProfit")
}

func TestComputeSummaryHugeAmounts(t *testing.T) {
	ops := testOps()
	_, doc, err := ops.AddGoat(EmptyDocument(), models.GoatInput{Age: "1y", Weight: "30", Breed: "Boer", Price: "1e20000000"})
	require.NoError(t, err)
	doc, err = ops.AddFeedEntry(doc, models.FeedInput{Type: "hay", Qty: "1", Cost: "1e400"})
	require.NoError(t, err)
	doc, err = ops.AddIncome(doc, models.EntryInput{Title: "sale", Amount: "300"})
	require.NoError(t, err)

	done := make(chan models.Summary, 1)
	go func() { done <- ComputeSummary(doc) }()

	select {
	case s := <-done:
		assertDecimal(t, "0", s.InitialCosts, "initialCosts")
		assertDecimal(t, "0", s.TotalFeedCost, "totalFeedCost")
		assertDecimal(t, "300", s.NetProfit, "netProfit")
	case <-time.After(2 * time.Second):
		t.Fatal("summary of out-of-range amounts did not finish")
	}
}
