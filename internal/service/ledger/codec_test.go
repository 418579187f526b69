package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/goatledger/internal/domain/models"
)

func sampleDocument() models.Document {
	at := time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC)
	return models.Document{
		Goats: []models.Goat{
			{
				ID: "g2", Age: "8m", Weight: "21.5", Breed: "Kiko", Price: "", Purpose: "",
				CreatedAt: at, Records: []models.GoatRecord{},
			},
			{
				ID: "g1", Age: "2y", Weight: "44", Breed: "Boer", Price: "650", Purpose: "meat",
				CreatedAt: at.Add(-time.Hour),
				Records: []models.GoatRecord{
					{ID: "r2", Date: at, Weight: "45"},
					{ID: "r1", Date: at.Add(-time.Minute), Note: "dewormed"},
				},
			},
		},
		FeedEntries: []models.FeedEntry{{ID: "f1", Date: at, Type: "hay", Qty: "3 bales", Cost: 36.75}},
		Expenses:    []models.Expense{{ID: "e1", Date: at, Title: "vet", Amount: 80}},
		Income:      []models.IncomeEntry{{ID: "i1", Date: at, Title: "buck sale", Amount: 900.5}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := sampleDocument()

	blob, err := Encode(doc)
	require.NoError(t, err)

	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestEncodeShape(t *testing.T) {
	blob, err := Encode(models.Document{})
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &fields))
	assert.Len(t, fields, 4)
	for _, name := range []string{"goats", "feedEntries", "expenses", "income"} {
		assert.JSONEq(t, "[]", string(fields[name]), name)
	}
}

func TestEncodeDoesNotTouchInput(t *testing.T) {
	doc := models.Document{Goats: []models.Goat{{ID: "g1"}}}

	_, err := Encode(doc)
	require.NoError(t, err)
	assert.Nil(t, doc.Goats[0].Records)
}

func TestDecodeMissingCollections(t *testing.T) {
	doc, err := Decode(`{"goats":[{"id":"g1","age":"1y","weight":"30","breed":"Boer","price":"100","purpose":"","createdAt":"2025-05-01T10:00:00Z"}]}`)
	require.NoError(t, err)

	require.Len(t, doc.Goats, 1)
	assert.Equal(t, []models.GoatRecord{}, doc.Goats[0].Records)
	assert.Equal(t, []models.FeedEntry{}, doc.FeedEntries)
	assert.Equal(t, []models.Expense{}, doc.Expenses)
	assert.Equal(t, []models.IncomeEntry{}, doc.Income)
}

func TestDecodeVersionOneList(t *testing.T) {
	doc, err := Decode(`[{"id":"1700000000000","age":"6","weight":"18","breed":"Beetal","price":"","purpose":"milk","createdAt":"2024-11-14T22:13:20.000Z"}]`)
	require.NoError(t, err)

	require.Len(t, doc.Goats, 1)
	assert.Equal(t, "1700000000000", doc.Goats[0].ID)
	assert.Equal(t, "milk", doc.Goats[0].Purpose)
	assert.Empty(t, doc.FeedEntries)
}

func TestDecodeMalformed(t *testing.T) {
	for _, blob := range []string{"", "   ", "null", "{not json", `{"goats":{}}`, `"text"`} {
		_, err := Decode(blob)
		assert.Error(t, err, blob)
	}
}
