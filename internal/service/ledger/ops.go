package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/goatledger/internal/domain/models"
)

// Ops holds the pure document transformations. Every method returns a new
// Document and leaves its input untouched.
type Ops struct {
	Now   func() time.Time
	NewID func() string
}

// NewOps returns Ops stamping UTC wall-clock time and random UUIDs.
func NewOps() Ops {
	return Ops{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// AddGoat prepends a new goat built from in.
func (o Ops) AddGoat(doc models.Document, in models.GoatInput) (models.Goat, models.Document, error) {
	const op = "add goat"
	if field := firstBlank([]string{"age", "weight", "breed"}, in.Age, in.Weight, in.Breed); field != "" {
		return models.Goat{}, doc, &ValidationError{Op: op, Field: field}
	}

	goat := models.Goat{
		ID:        o.NewID(),
		Age:       in.Age,
		Weight:    in.Weight,
		Breed:     in.Breed,
		Price:     in.Price,
		Purpose:   in.Purpose,
		CreatedAt: o.Now(),
		Records:   []models.GoatRecord{},
	}

	next := doc
	next.Goats = prepend(doc.Goats, goat)
	return goat, next, nil
}

// DeleteGoat removes the goat with the given id together with its records.
// An unknown id returns doc unchanged.
func (o Ops) DeleteGoat(doc models.Document, id string) models.Document {
	if _, ok := doc.FindGoat(id); !ok {
		return doc
	}

	goats := make([]models.Goat, 0, len(doc.Goats)-1)
	for _, g := range doc.Goats {
		if g.ID != id {
			goats = append(goats, g)
		}
	}

	next := doc
	next.Goats = goats
	return next
}

// AddRecord prepends a record to the records of goat goatID.
func (o Ops) AddRecord(doc models.Document, goatID string, in models.RecordInput) (models.Document, error) {
	const op = "add record"
	if isBlank(in.Note) && isBlank(in.Weight) {
		return doc, &ValidationError{Op: op, Field: "note or weight"}
	}

	idx := -1
	for i, g := range doc.Goats {
		if g.ID == goatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return doc, &NotFoundError{Op: op, ID: goatID}
	}

	record := models.GoatRecord{
		ID:     o.NewID(),
		Date:   o.Now(),
		Note:   in.Note,
		Weight: in.Weight,
	}

	goats := make([]models.Goat, len(doc.Goats))
	copy(goats, doc.Goats)
	goats[idx].Records = prepend(doc.Goats[idx].Records, record)

	next := doc
	next.Goats = goats
	return next, nil
}

// AddFeedEntry prepends a feed purchase. A cost that is not a number is stored as 0.
func (o Ops) AddFeedEntry(doc models.Document, in models.FeedInput) (models.Document, error) {
	if field := firstBlank([]string{"type", "qty", "cost"}, in.Type, in.Qty, in.Cost); field != "" {
		return doc, &ValidationError{Op: "add feed entry", Field: field}
	}

	entry := models.FeedEntry{
		ID:   o.NewID(),
		Date: o.Now(),
		Type: in.Type,
		Qty:  in.Qty,
		Cost: parseAmount(in.Cost).InexactFloat64(),
	}

	next := doc
	next.FeedEntries = prepend(doc.FeedEntries, entry)
	return next, nil
}

// AddExpense prepends an expense. A non-numeric amount is stored as 0.
func (o Ops) AddExpense(doc models.Document, in models.EntryInput) (models.Document, error) {
	if field := firstBlank([]string{"title", "amount"}, in.Title, in.Amount); field != "" {
		return doc, &ValidationError{Op: "add expense", Field: field}
	}

	entry := models.Expense{
		ID:     o.NewID(),
		Date:   o.Now(),
		Title:  in.Title,
		Amount: parseAmount(in.Amount).InexactFloat64(),
	}

	next := doc
	next.Expenses = prepend(doc.Expenses, entry)
	return next, nil
}

// AddIncome prepends an income entry. A non-numeric amount is stored as 0.
func (o Ops) AddIncome(doc models.Document, in models.EntryInput) (models.Document, error) {
	if field := firstBlank([]string{"title", "amount"}, in.Title, in.Amount); field != "" {
		return doc, &ValidationError{Op: "add income", Field: field}
	}

	entry := models.IncomeEntry{
		ID:     o.NewID(),
		Date:   o.Now(),
		Title:  in.Title,
		Amount: parseAmount(in.Amount).InexactFloat64(),
	}

	next := doc
	next.Income = prepend(doc.Income, entry)
	return next, nil
}

// maxAmountMagnitude bounds the power of ten of an accepted amount. It keeps
// every stored amount, and sums of many of them, finite as float64.
const maxAmountMagnitude = 300

// parseAmount reads a decimal number, treating anything unparsable as zero.
// Numbers whose magnitude falls outside 1e-300..1e300 count as unparsable.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsZero() {
		return decimal.Zero
	}

	mag := int64(d.NumDigits()) + int64(d.Exponent())
	if mag > maxAmountMagnitude || mag < -maxAmountMagnitude {
		return decimal.Zero
	}
	return d
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// firstBlank returns the name of the first blank value, or "".
func firstBlank(names []string, values ...string) string {
	for i, v := range values {
		if isBlank(v) {
			return names[i]
		}
	}
	return ""
}
