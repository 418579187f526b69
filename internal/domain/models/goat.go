package models

import "time"

// Goat is one animal in the farm inventory.
type Goat struct {
	ID        string       `json:"id"`
	Age       string       `json:"age"`
	Weight    string       `json:"weight"` // kg
	Breed     string       `json:"breed"`
	Price     string       `json:"price"`
	Purpose   string       `json:"purpose"`
	CreatedAt time.Time    `json:"createdAt"`
	Records   []GoatRecord `json:"records"` // newest first
}

// GoatRecord is a dated observation owned by a single goat.
type GoatRecord struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note,omitempty"`
	Weight string    `json:"weight,omitempty"`
}

// GoatInput carries the caller supplied fields of a new goat.
type GoatInput struct {
	Age     string `json:"age"`
	Weight  string `json:"weight"`
	Breed   string `json:"breed"`
	Price   string `json:"price"`
	Purpose string `json:"purpose"`
}

// RecordInput carries the caller supplied fields of a new goat record.
type RecordInput struct {
	Note   string `json:"note"`
	Weight string `json:"weight"`
}
