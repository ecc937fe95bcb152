package analysis

import (
	"strings"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/roster"
)

// PlayerMentionAnalyzer links annotated posts to squad members via the
// roster alias table.
type PlayerMentionAnalyzer struct{}

func NewPlayerMentionAnalyzer() *PlayerMentionAnalyzer {
	return &PlayerMentionAnalyzer{}
}

// Mention topic keyword classes. A post can trip any combination.
var (
	injuryTerms      = []string{"sakatlık", "sakatlandı", "injury"}
	transferTerms    = []string{"transfer", "ayrılmak", "leave"}
	performanceTerms = []string{"gol", "asist", "pas", "performans"}
)

const contextRunes = 100

// AnalyzeMentions scans each post for roster references and builds one
// mention per detected name, carrying the post's own sentiment annotation.
// Posts matching no alias contribute nothing.
func (p *PlayerMentionAnalyzer) AnalyzeMentions(posts []models.Post, sentiment *SentimentAnalyzer) []models.PlayerMention {
	var mentions []models.PlayerMention

	for _, post := range posts {
		names := sentiment.DetectRosterReferences(post.Content)
		if len(names) == 0 {
			continue
		}

		lower := strings.ToLower(post.Content)

		for _, name := range names {
			mention := models.PlayerMention{
				PlayerName:         name,
				Position:           "Unknown",
				PostID:             post.ID,
				Platform:           post.Platform,
				Sentiment:          post.Sentiment,
				SentimentScore:     post.SentimentScore,
				Context:            truncateRunes(post.Content, contextRunes),
				InjuryMention:      containsAny(lower, injuryTerms),
				TransferMention:    containsAny(lower, transferTerms),
				PerformanceMention: containsAny(lower, performanceTerms),
			}

			if alias, ok := roster.AliasByName(name); ok {
				mention.PlayerID = alias.PlayerID
				mention.Position = alias.Position
			} else {
				mention.PlayerID = strings.ToLower(name)
			}

			mentions = append(mentions, mention)
		}
	}

	return mentions
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
