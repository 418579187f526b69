package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/goatledger/internal/config"
	"github.com/mamadbah2/goatledger/internal/domain/models"
)

const (
	summaryRange = "Summary!A:M"
	dateLayout   = "2006-01-02"
)

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	SaveSummarySnapshot(ctx context.Context, snapshot models.SummarySnapshot) error
}

// GoogleSheetRepository mirrors summary snapshots into a spreadsheet so the farm
// owner can chart them.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Extra client options override the credentials file, which tests use to point
// the client at a local server.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// SaveSummarySnapshot appends one row per snapshot to the Summary sheet.
func (r *GoogleSheetRepository) SaveSummarySnapshot(ctx context.Context, s models.SummarySnapshot) error {
	return r.WriteRow(ctx, summaryRange, SnapshotRow(s))
}

// SnapshotRow lays out a snapshot in the Summary sheet column order.
func SnapshotRow(s models.SummarySnapshot) []interface{} {
	return []interface{}{
		s.Date.Format(dateLayout),
		s.Goats,
		s.Records,
		s.FeedEntries,
		s.Expenses,
		s.IncomeEntries,
		s.InitialCosts,
		s.TotalFeedCost,
		s.TotalExpenses,
		s.TotalCosts,
		s.TotalIncome,
		s.NetProfit,
		s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
