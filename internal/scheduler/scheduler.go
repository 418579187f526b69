package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/config"
	"github.com/mamadbah2/goatledger/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// SnapshotSink archives summary snapshots (MongoDB, Google Sheets).
type SnapshotSink interface {
	SaveSummarySnapshot(ctx context.Context, snapshot models.SummarySnapshot) error
}

// Reporter builds the weekly report content.
type Reporter interface {
	BuildSnapshot(date time.Time) models.SummarySnapshot
	WeeklyReport(end time.Time) string
}

// Notifier delivers the report text.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	location  *time.Location
	reporter  Reporter
	sinks     []SnapshotSink
	notifier  Notifier
	recipient string
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. notifier may be nil, in which
// case the report is only archived.
func NewScheduler(cfg config.ReportingConfig, recipient string, reporter Reporter, notifier Notifier, sinks []SnapshotSink, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// standard 5-field cron spec (min, hour, dom, month, dow) evaluated in the farm's timezone
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		return nil, fmt.Errorf("parse cron schedule %q: %w", cfg.CronSchedule, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		location:  loc,
		reporter:  reporter,
		sinks:     sinks,
		notifier:  notifier,
		recipient: recipient,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.schedule, s.runWeeklyReport); err != nil {
		return fmt.Errorf("schedule weekly report: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report incomplete", zap.Error(err))
	}
}

// SendWeeklyReport archives a snapshot to every sink and notifies the farm
// manager. A failing sink does not stop the others; the first error is returned.
func (s *Scheduler) SendWeeklyReport(ctx context.Context) error {
	now := s.now().In(s.location)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	s.logger.Info("generating weekly report", zap.Time("date", date))
	snapshot := s.reporter.BuildSnapshot(date)

	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.SaveSummarySnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive summary snapshot", zap.String("sink", fmt.Sprintf("%T", sink)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if s.notifier == nil || s.recipient == "" {
		s.logger.Debug("weekly report notification skipped, no recipient configured")
		return firstErr
	}

	req := models.OutboundMessageRequest{
		To:      s.recipient,
		Message: s.reporter.WeeklyReport(now),
	}

	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send weekly report", zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	} else {
		s.logger.Info("weekly report sent successfully")
	}

	return firstErr
}
