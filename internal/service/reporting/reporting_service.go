package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/domain/models"
	"github.com/mamadbah2/goatledger/internal/service/ledger"
)

const (
	dateLayout  = "2006-01-02"
	maxHerdRows = 20
)

// DocumentSource is the read side of the ledger store.
type DocumentSource interface {
	Document() models.Document
}

// Service turns the ledger document into snapshots and chat-friendly text.
type Service struct {
	source DocumentSource
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(source DocumentSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger, now: time.Now}
}

// BuildSnapshot summarizes the current ledger as of date.
func (s *Service) BuildSnapshot(date time.Time) models.SummarySnapshot {
	doc := s.source.Document()
	sum := ledger.ComputeSummary(doc)

	snapshot := models.SummarySnapshot{
		Date:          date,
		Goats:         len(doc.Goats),
		Records:       doc.RecordCount(),
		FeedEntries:   len(doc.FeedEntries),
		Expenses:      len(doc.Expenses),
		IncomeEntries: len(doc.Income),
		InitialCosts:  sum.InitialCosts.InexactFloat64(),
		TotalFeedCost: sum.TotalFeedCost.InexactFloat64(),
		TotalExpenses: sum.TotalExpenses.InexactFloat64(),
		TotalIncome:   sum.TotalIncome.InexactFloat64(),
		TotalCosts:    sum.TotalCosts.InexactFloat64(),
		NetProfit:     sum.NetProfit.InexactFloat64(),
		CreatedAt:     s.now().UTC(),
	}

	s.logger.Debug("summary snapshot built",
		zap.Time("date", date),
		zap.Int("goats", snapshot.Goats),
		zap.Float64("net_profit", snapshot.NetProfit))

	return snapshot
}

// SummaryText formats the current ledger summary.
func (s *Service) SummaryText() string {
	doc := s.source.Document()
	return FormatSummary(ledger.ComputeSummary(doc), len(doc.Goats))
}

// HerdText lists the goats, newest first, capped at maxHerdRows lines.
func (s *Service) HerdText() string {
	goats := s.source.Document().Goats
	if len(goats) == 0 {
		return "Herd: no goats recorded yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Herd (%d goats):", len(goats))
	for i, g := range goats {
		if i == maxHerdRows {
			fmt.Fprintf(&b, "\n... and %d more.", len(goats)-maxHerdRows)
			break
		}
		purpose := g.Purpose
		if purpose == "" {
			purpose = "purpose N/A"
		}
		price := g.Price
		if price == "" {
			price = "N/A"
		}
		fmt.Fprintf(&b, "\n- %s (%s) age %s, %s kg, price %s, %d records [%s]",
			g.Breed, purpose, g.Age, g.Weight, price, len(g.Records), g.ID)
	}
	return b.String()
}

// FormatSummary renders a profit and loss summary as plain text.
func FormatSummary(sum models.Summary, goats int) string {
	result := "Profit"
	if sum.NetProfit.IsNegative() {
		result = "Loss"
	}

	return fmt.Sprintf(
		"Farm summary (%d goats)\n"+
			"Initial costs: %s\n"+
			"Feed: %s\n"+
			"Expenses: %s\n"+
			"Total costs: %s\n"+
			"Income: %s\n"+
			"%s: %s",
		goats,
		money(sum.InitialCosts),
		money(sum.TotalFeedCost),
		money(sum.TotalExpenses),
		money(sum.TotalCosts),
		money(sum.TotalIncome),
		result, money(sum.NetProfit.Abs()),
	)
}

// WeeklyReport prefixes the summary with the reporting week.
func (s *Service) WeeklyReport(end time.Time) string {
	start := end.AddDate(0, 0, -6)
	return fmt.Sprintf("Weekly report %s to %s\n%s", start.Format(dateLayout), end.Format(dateLayout), s.SummaryText())
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
