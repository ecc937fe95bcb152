package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

// ReportGenerator summarizes already-persisted analysis over a date range.
// Reports are built from stored records only; raw posts are never
// re-scored here.
type ReportGenerator struct {
	store *storage.Manager
}

func NewReportGenerator(store *storage.Manager) *ReportGenerator {
	return &ReportGenerator{store: store}
}

// GenerateDailyReport summarizes one day of stored posts, sentiment
// records, and metrics.
func (r *ReportGenerator) GenerateDailyReport(ctx context.Context, start, end time.Time) (*models.Report, error) {
	report := &models.Report{
		ReportType: models.ReportDaily,
		StartDate:  start,
		EndDate:    end,
		Title:      fmt.Sprintf("Galatasaray Analytics - Günlük Rapor (%s)", start.Format("2006-01-02")),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	if err := r.populate(ctx, report, start, end); err != nil {
		return nil, err
	}
	return report, nil
}

// GenerateWeeklyReport summarizes a week of stored analysis.
func (r *ReportGenerator) GenerateWeeklyReport(ctx context.Context, start, end time.Time) (*models.Report, error) {
	report := &models.Report{
		ReportType: models.ReportWeekly,
		StartDate:  start,
		EndDate:    end,
		Title: fmt.Sprintf("Galatasaray Analytics - Haftalık Rapor (%s - %s)",
			start.Format("2006-01-02"), end.Format("2006-01-02")),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := r.populate(ctx, report, start, end); err != nil {
		return nil, err
	}
	return report, nil
}

// GenerateCustomReport summarizes a caller-selected platform and metric
// slice, recording the selection in the report metadata.
func (r *ReportGenerator) GenerateCustomReport(ctx context.Context, platforms []models.Platform, metricsToInclude []string, start, end time.Time) (*models.Report, error) {
	report := &models.Report{
		ReportType: models.ReportCustom,
		StartDate:  start,
		EndDate:    end,
		Title:      "Galatasaray Analytics - Özel Rapor",
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	platformNames := make([]string, 0, len(platforms))
	for _, p := range platforms {
		platformNames = append(platformNames, string(p))
	}
	report.Metrics = map[string]any{
		"platforms_analyzed": platformNames,
		"metrics_included":   metricsToInclude,
		"period_days":        int(end.Sub(start).Hours() / 24),
	}

	if err := r.populate(ctx, report, start, end); err != nil {
		return nil, err
	}
	return report, nil
}

// StoreReport persists a generated report. Callers decide whether a
// storage failure is worth surfacing.
func (r *ReportGenerator) StoreReport(ctx context.Context, report *models.Report) (string, error) {
	return r.store.Insert(ctx, storage.CollectionReports, report)
}

// populate fills summary and key findings from stored records in
// [start, end].
func (r *ReportGenerator) populate(ctx context.Context, report *models.Report, start, end time.Time) error {
	posts, err := r.store.Query(ctx, storage.CollectionPosts, storage.Filter{
		"created_at": storage.Range{GTE: start, LTE: end},
	}, 0)
	if err != nil {
		return fmt.Errorf("failed to query posts for report: %w", err)
	}

	sentiments, err := r.store.Query(ctx, storage.CollectionSentiment, storage.Filter{
		"analyzed_at": storage.Range{GTE: start, LTE: end},
	}, 0)
	if err != nil {
		return fmt.Errorf("failed to query sentiment records for report: %w", err)
	}

	if len(posts) == 0 {
		report.Summary = "Bu dönemde gönderi bulunamadı"
		report.KeyFindings = []string{}
		return nil
	}

	var totalEngagement float64
	for _, post := range posts {
		totalEngagement += numberField(post, "likes") + numberField(post, "comments") + numberField(post, "shares")
	}
	report.Summary = fmt.Sprintf("%d gönderi, %.0f etkileşim", len(posts), totalEngagement)

	report.KeyFindings = []string{}
	if len(sentiments) > 0 {
		positive := 0
		negative := 0
		for _, record := range sentiments {
			switch record["sentiment"] {
			case models.SentimentPositive:
				positive++
			case models.SentimentNegative:
				negative++
			}
		}

		if positive > negative {
			report.KeyFindings = append(report.KeyFindings,
				fmt.Sprintf("Pozitif sentiment %%%.1f", float64(positive)/float64(len(sentiments))*100))
		} else {
			report.KeyFindings = append(report.KeyFindings,
				fmt.Sprintf("Negatif sentiment %%%.1f", float64(negative)/float64(len(sentiments))*100))
		}
	}

	metrics, err := r.store.Query(ctx, storage.CollectionEngagementMetrics, storage.Filter{
		"calculated_at": storage.Range{GTE: start, LTE: end},
	}, 0)
	if err != nil {
		logrus.Warnf("Failed to query engagement metrics for report: %v", err)
		return nil
	}
	if len(metrics) > 0 {
		var rateSum float64
		for _, m := range metrics {
			rateSum += numberField(m, "average_engagement_rate")
		}
		report.KeyFindings = append(report.KeyFindings,
			fmt.Sprintf("Ortalama etkileşim oranı %.3f (%d ölçüm)", rateSum/float64(len(metrics)), len(metrics)))
	}

	return nil
}

// numberField reads a numeric document field. JSON decoding always yields
// float64.
func numberField(doc storage.Document, field string) float64 {
	if v, ok := doc[field].(float64); ok {
		return v
	}
	return 0
}
