package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/analysis"
	"github.com/ultrarslanoglu/gs-analytics/internal/archive"
	"github.com/ultrarslanoglu/gs-analytics/internal/collectors"
	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/notifications"
)

const (
	postsPerScheduledRun = 50

	// Archived report blobs older than this are deleted after each run.
	archiveRetentionDays = 90
)

// Service drives the scheduled collect-analyze-report cycle.
type Service struct {
	config     *config.Config
	collection *collectors.Orchestrator
	analyzer   *analysis.Orchestrator
	notifier   notifications.Sender
	archiver   *archive.BlobArchive
	cron       *cron.Cron
	running    bool
}

// NewService wires the pipeline behind the cron schedule. archiver may be
// nil when blob archival is not configured.
func NewService(cfg *config.Config, collection *collectors.Orchestrator, analyzer *analysis.Orchestrator, notifier notifications.Sender, archiver *archive.BlobArchive) *Service {
	return &Service{
		config:     cfg,
		collection: collection,
		analyzer:   analyzer,
		notifier:   notifier,
		archiver:   archiver,
		cron:       cron.New(cron.WithSeconds()),
	}
}

// Start registers the report cadence and begins the cron loop.
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.ReportSchedule {
	case "daily":
		// Daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	case "weekly":
		// Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	default:
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled analysis run")
		if err := s.RunPipeline(context.Background()); err != nil {
			logrus.Errorf("Scheduled analysis run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	logrus.Infof("Scheduler started with %s report schedule", s.config.ReportSchedule)
	return nil
}

// Stop halts the cron loop.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.running = false
		logrus.Info("Scheduler stopped")
	}
}

// Running reports whether the cron loop has been started.
func (s *Service) Running() bool {
	return s.running
}

// RunPipeline executes one full cycle: collect from every platform,
// analyze and persist the batch, build the period report from stored
// records, then archive and deliver it. Report generation failing is the
// only error returned; collection and delivery problems degrade to logs.
func (s *Service) RunPipeline(ctx context.Context) error {
	posts := s.collection.CollectAll(ctx, postsPerScheduledRun)
	logrus.Infof("Scheduled run collected %d posts", len(posts))

	result := s.analyzer.AnalyzePosts(ctx, posts)
	logrus.Infof("Scheduled run analyzed %d posts, %d insights", result.TotalPosts, len(result.KeyInsights))

	report, err := s.generateReport(ctx)
	if err != nil {
		return err
	}

	if _, err := s.analyzer.Reports().StoreReport(ctx, report); err != nil {
		logrus.Errorf("Failed to persist scheduled report: %v", err)
	}

	if s.archiver != nil {
		if name, err := s.archiver.StoreReport(ctx, report); err != nil {
			logrus.Errorf("Failed to archive report: %v", err)
		} else {
			logrus.Infof("Report archived as %s", name)
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -archiveRetentionDays)
		if deleted, err := s.archiver.Prune(ctx, "reports/", cutoff); err != nil {
			logrus.Errorf("Failed to prune report archive: %v", err)
		} else if deleted > 0 {
			logrus.Infof("Pruned %d archived reports past the %d-day retention", deleted, archiveRetentionDays)
		}
	}

	if err := s.notifier.SendReport(report); err != nil {
		logrus.Errorf("Failed to deliver report: %v", err)
	}

	return nil
}

func (s *Service) generateReport(ctx context.Context) (*models.Report, error) {
	end := time.Now().UTC().Truncate(time.Second)

	if s.config.ReportSchedule == "weekly" {
		return s.analyzer.Reports().GenerateWeeklyReport(ctx, end.Add(-7*24*time.Hour), end)
	}
	return s.analyzer.Reports().GenerateDailyReport(ctx, end.Add(-24*time.Hour), end)
}
