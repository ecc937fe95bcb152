package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// Service sends reports to a webhook and over SMTP email. Channels are
// independent: one failing does not stop the other, and the combined
// error lists every channel that failed.
type Service struct {
	config *config.Config
	client *resty.Client
}

var _ Sender = (*Service)(nil)

// WebhookMessage is the MessageCard payload Teams-compatible webhooks
// accept.
type WebhookMessage struct {
	Type     string           `json:"@type"`
	Context  string           `json:"@context"`
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Sections []WebhookSection `json:"sections,omitempty"`
}

type WebhookSection struct {
	ActivityTitle string        `json:"activityTitle,omitempty"`
	ActivityText  string        `json:"activityText,omitempty"`
	Facts         []WebhookFact `json:"facts,omitempty"`
	Markdown      bool          `json:"markdown,omitempty"`
}

type WebhookFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport pushes the report to every configured channel.
func (s *Service) SendReport(report *models.Report) error {
	var failures []string

	if s.config.WebhookURL != "" {
		if err := s.sendToWebhook(report); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			failures = append(failures, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Report sent to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			failures = append(failures, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Report sent via email")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (s *Service) sendToWebhook(report *models.Report) error {
	message := s.buildWebhookMessage(report)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.WebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post webhook message: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) buildWebhookMessage(report *models.Report) *WebhookMessage {
	message := &WebhookMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   report.Title,
		Text:    report.Summary,
	}

	facts := []WebhookFact{
		{Name: "Rapor türü", Value: report.ReportType},
		{Name: "Dönem", Value: fmt.Sprintf("%s - %s",
			report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"))},
		{Name: "Oluşturulma", Value: report.CreatedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	message.Sections = append(message.Sections, WebhookSection{
		ActivityTitle: "Özet",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.KeyFindings) > 0 {
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Öne Çıkanlar",
			ActivityText:  strings.Join(report.KeyFindings, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.Report) error {
	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", report.Title)
	m.SetBody("text/plain", s.buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var emailTemplate = template.Must(template.New("report").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #A90432; color: #FDB912; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .finding { border-left: 4px solid #A90432; padding: 10px; margin: 10px 0; background-color: #fafafa; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>{{.StartDate.Format "2006-01-02"}} - {{.EndDate.Format "2006-01-02"}}</p>
    </div>

    <div class="summary">
        <h2>Özet</h2>
        <p>{{.Summary}}</p>
    </div>

    {{if .KeyFindings}}
    <h2>Öne Çıkanlar</h2>
    {{range .KeyFindings}}
    <div class="finding">{{.}}</div>
    {{end}}
    {{end}}

    <hr>
    <p><small>Bu rapor Galatasaray Analytics tarafından otomatik oluşturulmuştur.</small></p>
</body>
</html>
`))

func (s *Service) buildEmailHTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(report.Title + "\n")
	text.WriteString(fmt.Sprintf("Dönem: %s - %s\n\n",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))

	text.WriteString("ÖZET\n")
	text.WriteString("====\n")
	text.WriteString(report.Summary + "\n")

	if len(report.KeyFindings) > 0 {
		text.WriteString("\nÖNE ÇIKANLAR\n")
		text.WriteString("============\n")
		for i, finding := range report.KeyFindings {
			text.WriteString(fmt.Sprintf("%d. %s\n", i+1, finding))
		}
	}

	text.WriteString("\n---\nBu rapor Galatasaray Analytics tarafından otomatik oluşturulmuştur.\n")
	return text.String()
}
