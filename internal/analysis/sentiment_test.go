package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

func TestSentimentAnalyzer_Analyze(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	tests := []struct {
		name          string
		text          string
		expectedLabel string
	}{
		{
			name:          "Positive match words and emoji",
			text:          "Harika bir gol! 🔥 #Galatasaray",
			expectedLabel: models.SentimentPositive,
		},
		{
			name:          "Negative match",
			text:          "Berbat bir performans 😢",
			expectedLabel: models.SentimentNegative,
		},
		{
			name:          "Neutral plain text",
			text:          "Bugün antrenman vardı",
			expectedLabel: models.SentimentNeutral,
		},
		{
			name:          "Empty text",
			text:          "",
			expectedLabel: models.SentimentNeutral,
		},
		{
			name:          "Emoji contribution alone stays under the threshold",
			text:          "🏆 🏆 🏆",
			expectedLabel: models.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := analyzer.Analyze(tt.text)
			assert.Equal(t, tt.expectedLabel, label)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)

			switch label {
			case models.SentimentPositive:
				assert.Greater(t, score, 0.2)
			case models.SentimentNegative:
				assert.Less(t, score, -0.2)
			default:
				assert.GreaterOrEqual(t, score, -0.2)
				assert.LessOrEqual(t, score, 0.2)
			}
		})
	}
}

func TestSentimentAnalyzer_Analyze_ScoreValues(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	// harika(0.9) + gol(0.7) over 5 tokens, weighted 0.7, plus one positive
	// emoji weighted 0.3.
	label, score := analyzer.Analyze("Harika bir gol! 🔥 #Galatasaray")
	assert.Equal(t, models.SentimentPositive, label)
	assert.InDelta(t, 0.284, score, 0.0001)

	// berbat(-0.9) over 4 tokens, weighted 0.7, plus one negative emoji.
	label, score = analyzer.Analyze("Berbat bir performans 😢")
	assert.Equal(t, models.SentimentNegative, label)
	assert.InDelta(t, -0.218, score, 0.0001)
}

func TestSentimentAnalyzer_Analyze_ClampsToBounds(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	_, score := analyzer.Analyze("🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥🔥 harika")
	assert.LessOrEqual(t, score, 1.0)

	_, score = analyzer.Analyze("😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡😡 berbat")
	assert.GreaterOrEqual(t, score, -1.0)
}

func TestSentimentAnalyzer_ExtractEntities(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	tests := []struct {
		name             string
		text             string
		expectedHashtags []string
		expectedMentions []string
	}{
		{
			name:             "Hashtags and mentions",
			text:             "Maç özeti #Galatasaray #ŞampiyonGS via @GalatasaraySK",
			expectedHashtags: []string{"#galatasaray", "#şampiyongs"},
			expectedMentions: []string{"@galatasaraysk"},
		},
		{
			name: "No entities",
			text: "Sadece düz metin",
		},
		{
			name:             "Turkish characters preserved",
			text:             "#GalatasaraylıOlmak güzel",
			expectedHashtags: []string{"#galatasaraylıolmak"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashtags, mentions := analyzer.ExtractEntities(tt.text)
			assert.Equal(t, tt.expectedHashtags, hashtags)
			assert.Equal(t, tt.expectedMentions, mentions)
		})
	}
}

func TestSentimentAnalyzer_DetectRosterReferences(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "Single surname",
			text:     "Icardi yine attı",
			expected: []string{"Mauro Icardi"},
		},
		{
			name:     "Two players",
			text:     "Muslera kurtardı, Icardi bitirdi",
			expected: []string{"Mauro Icardi", "Fernando Muslera"},
		},
		{
			name:     "Overlapping aliases emit per alias",
			text:     "Mauro Icardi maçın adamı",
			expected: []string{"Mauro Icardi", "Mauro Icardi"},
		},
		{
			name: "No roster match",
			text: "Bugün hava çok güzel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, analyzer.DetectRosterReferences(tt.text))
		})
	}
}
