package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/roster"
)

// SentimentAnalyzer scores Turkish fan content with a weighted lexicon and
// emoji heuristic. It is deterministic and stateless; the tables below are
// the scoring model and changing a weight changes every downstream label.
type SentimentAnalyzer struct{}

func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{}
}

// Lexicon weights, tuned for football Turkish. Matching is substring-based
// over the lowercased text, so multi-word entries like "kırmızı kart" work.
var positiveWords = map[string]float64{
	"harika":       0.9,
	"mükemmel":     0.9,
	"süper":        0.85,
	"iyi":          0.7,
	"güzel":        0.75,
	"beğendim":     0.8,
	"beğeniyorum":  0.8,
	"başarılı":     0.8,
	"kazanı":       0.85,
	"gol":          0.7,
	"goller":       0.7,
	"tebrikler":    0.8,
	"aferin":       0.8,
	"alkış":        0.75,
	"müthiş":       0.85,
	"fevkalade":    0.8,
	"enfes":        0.85,
	"bol":          0.7,
	"çok güzel":    0.85,
	"efsane":       0.9,
	"geçmiş olsun": 0.6,
}

var negativeWords = map[string]float64{
	"kötü":         -0.7,
	"berbat":       -0.9,
	"aptal":        -0.8,
	"idiot":        -0.9,
	"hatalı":       -0.7,
	"yanlış":       -0.6,
	"zayıf":        -0.7,
	"başarısız":    -0.8,
	"kaybettik":    -0.6,
	"kayıp":        -0.6,
	"penaltı":      -0.5,
	"kırmızı kart": -0.7,
	"saha dışında": -0.6,
	"sakatlık":     -0.7,
	"hakem":        -0.5,
	"haksız":       -0.7,
	"düşüş":        -0.6,
	"düştük":       -0.6,
	"sene":         -0.4,
	"sinir":        -0.5,
}

var positiveEmojis = []string{"😊", "😍", "🔥", "👏", "🙌", "✨", "💪", "🎉", "⚽", "🏆"}
var negativeEmojis = []string{"😢", "😤", "😡", "😠", "👎", "💔", "😭"}

// \w in Go regexp is ASCII-only, so hashtag and mention extraction spells
// out the Unicode classes to keep Turkish characters intact.
var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
)

// Analyze scores one text: 30% emoji contribution, 70% lexicon contribution
// normalized by token count, clamped to [-1, 1] and rounded to 3 decimals.
// Labels flip at +0.2 / -0.2.
func (s *SentimentAnalyzer) Analyze(text string) (string, float64) {
	if text == "" {
		return models.SentimentNeutral, 0.0
	}

	lower := strings.ToLower(text)

	score := s.emojiScore(text) * 0.3

	var wordScore float64
	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			wordScore += weight
		}
	}
	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			wordScore += weight
		}
	}

	tokens := len(strings.Fields(text))
	if tokens < 1 {
		tokens = 1
	}
	score += (wordScore / float64(tokens)) * 0.7

	score = math.Max(-1.0, math.Min(1.0, score))
	score = math.Round(score*1000) / 1000

	switch {
	case score > 0.2:
		return models.SentimentPositive, score
	case score < -0.2:
		return models.SentimentNegative, score
	default:
		return models.SentimentNeutral, score
	}
}

func (s *SentimentAnalyzer) emojiScore(text string) float64 {
	var score float64
	for _, emoji := range positiveEmojis {
		score += float64(strings.Count(text, emoji)) * 0.2
	}
	for _, emoji := range negativeEmojis {
		score -= float64(strings.Count(text, emoji)) * 0.2
	}
	return score
}

// ExtractEntities pulls lowercased hashtags and mentions out of the text.
func (s *SentimentAnalyzer) ExtractEntities(text string) (hashtags, mentions []string) {
	lower := strings.ToLower(text)
	return hashtagPattern.FindAllString(lower, -1), mentionPattern.FindAllString(lower, -1)
}

// DetectRosterReferences returns the canonical name for every roster alias
// whose pattern appears in the text, in alias-table order. Overlapping
// aliases for the same player each emit the name once; callers de-duplicate
// if they need to.
func (s *SentimentAnalyzer) DetectRosterReferences(text string) []string {
	lower := strings.ToLower(text)

	var detected []string
	for _, alias := range roster.Aliases() {
		if strings.Contains(lower, alias.Pattern) {
			detected = append(detected, alias.Name)
		}
	}
	return detected
}
