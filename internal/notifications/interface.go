package notifications

import "github.com/ultrarslanoglu/gs-analytics/internal/models"

// Sender delivers generated reports to the configured channels.
type Sender interface {
	SendReport(report *models.Report) error
}
