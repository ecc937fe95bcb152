package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		ReportType:  models.ReportDaily,
		StartDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
		Title:       "Galatasaray Analytics - Günlük Rapor (2025-01-15)",
		Summary:     "42 gönderi, 1200 etkileşim",
		KeyFindings: []string{"Pozitif sentiment %71.4"},
		CreatedAt:   time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_SendReport_Webhook(t *testing.T) {
	var received WebhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewService(&config.Config{WebhookURL: server.URL})

	err := svc.SendReport(sampleReport())

	assert.NoError(t, err)
	assert.Equal(t, "MessageCard", received.Type)
	assert.Contains(t, received.Title, "Günlük Rapor")
	assert.Contains(t, received.Text, "42 gönderi")
	if assert.Len(t, received.Sections, 2) {
		assert.Contains(t, received.Sections[1].ActivityText, "Pozitif sentiment")
	}
}

func TestService_SendReport_WebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewService(&config.Config{WebhookURL: server.URL})

	err := svc.SendReport(sampleReport())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook")
}

func TestService_SendReport_NoChannelsConfigured(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.NoError(t, svc.SendReport(sampleReport()))
}

func TestService_BuildEmailText(t *testing.T) {
	svc := NewService(&config.Config{})

	text := svc.buildEmailText(sampleReport())

	assert.Contains(t, text, "Günlük Rapor")
	assert.Contains(t, text, "2025-01-15 - 2025-01-16")
	assert.Contains(t, text, "1. Pozitif sentiment %71.4")
}

func TestService_BuildEmailHTML(t *testing.T) {
	svc := NewService(&config.Config{})

	html, err := svc.buildEmailHTML(sampleReport())

	assert.NoError(t, err)
	assert.Contains(t, html, "Günlük Rapor")
	assert.Contains(t, html, "42 gönderi")
	assert.Contains(t, html, "Pozitif sentiment")
}
