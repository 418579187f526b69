package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mamadbah2/goatledger/internal/domain/models"
)

// Encode serializes doc into the persisted blob format. Empty collections are
// written as [] rather than null.
func Encode(doc models.Document) (string, error) {
	raw, err := json.Marshal(normalize(doc))
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(raw), nil
}

// Decode parses a persisted blob. Missing collections default to empty and a
// bare JSON array is read as the version-1 goat list.
func Decode(blob string) (models.Document, error) {
	raw := bytes.TrimSpace([]byte(blob))
	if len(raw) == 0 {
		return models.Document{}, errors.New("decode ledger: empty blob")
	}

	var doc models.Document
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &doc.Goats); err != nil {
			return models.Document{}, fmt.Errorf("decode v1 goat list: %w", err)
		}
	case '{':
		if err := json.Unmarshal(raw, &doc); err != nil {
			return models.Document{}, fmt.Errorf("decode ledger: %w", err)
		}
	default:
		return models.Document{}, fmt.Errorf("decode ledger: unexpected leading byte %q", raw[0])
	}

	return normalize(doc), nil
}

// EmptyDocument returns a document with all four collections empty.
func EmptyDocument() models.Document {
	return normalize(models.Document{})
}

func normalize(doc models.Document) models.Document {
	if doc.Goats == nil {
		doc.Goats = []models.Goat{}
	}
	for i := range doc.Goats {
		if doc.Goats[i].Records != nil {
			continue
		}
		// copy before touching a slice that the caller still owns
		goats := make([]models.Goat, len(doc.Goats))
		copy(goats, doc.Goats)
		for j := i; j < len(goats); j++ {
			if goats[j].Records == nil {
				goats[j].Records = []models.GoatRecord{}
			}
		}
		doc.Goats = goats
		break
	}
	if doc.FeedEntries == nil {
		doc.FeedEntries = []models.FeedEntry{}
	}
	if doc.Expenses == nil {
		doc.Expenses = []models.Expense{}
	}
	if doc.Income == nil {
		doc.Income = []models.IncomeEntry{}
	}
	return doc
}
