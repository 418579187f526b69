package models

import "time"

// FeedEntry captures a feed purchase.
type FeedEntry struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Type string    `json:"type"`
	Qty  string    `json:"qty"`
	Cost float64   `json:"cost"`
}

// Expense captures an operating expense.
type Expense struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Title  string    `json:"title"`
	Amount float64   `json:"amount"`
}

// IncomeEntry captures money received by the farm.
type IncomeEntry struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Title  string    `json:"title"`
	Amount float64   `json:"amount"`
}

// Document is the aggregate root persisted as a single blob.
// Every collection is ordered newest first.
type Document struct {
	Goats       []Goat        `json:"goats"`
	FeedEntries []FeedEntry   `json:"feedEntries"`
	Expenses    []Expense     `json:"expenses"`
	Income      []IncomeEntry `json:"income"`
}

// FeedInput carries the caller supplied fields of a new feed entry.
type FeedInput struct {
	Type string `json:"type"`
	Qty  string `json:"qty"`
	Cost string `json:"cost"`
}

// EntryInput carries the caller supplied fields of an expense or income entry.
type EntryInput struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

// FindGoat returns the goat with the given id.
func (d Document) FindGoat(id string) (Goat, bool) {
	for _, g := range d.Goats {
		if g.ID == id {
			return g, true
		}
	}
	return Goat{}, false
}

// RecordCount returns the number of goat records across the herd.
func (d Document) RecordCount() int {
	total := 0
	for _, g := range d.Goats {
		total += len(g.Records)
	}
	return total
}
