package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/analysis"
	"github.com/ultrarslanoglu/gs-analytics/internal/collectors"
	"github.com/ultrarslanoglu/gs-analytics/internal/config"
	"github.com/ultrarslanoglu/gs-analytics/internal/models"
	"github.com/ultrarslanoglu/gs-analytics/internal/roster"
	"github.com/ultrarslanoglu/gs-analytics/internal/scheduler"
	"github.com/ultrarslanoglu/gs-analytics/internal/storage"
)

type server struct {
	config     *config.Config
	store      *storage.Manager
	collection *collectors.Orchestrator
	analyzer   *analysis.Orchestrator
	scheduler  *scheduler.Service
}

func (s *server) registerRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	router.HandleFunc("/api/collect", s.handleCollect).Methods("POST")
	router.HandleFunc("/api/analyze", s.handleAnalyze).Methods("POST")
	router.HandleFunc("/api/collect-and-analyze", s.handleCollectAndAnalyze).Methods("POST")
	router.HandleFunc("/api/reports", s.handleCreateReport).Methods("POST")
	router.HandleFunc("/api/reports", s.handleListReports).Methods("GET")
	router.HandleFunc("/api/insights", s.handleInsights).Methods("GET")
	router.HandleFunc("/api/metrics", s.handleMetrics).Methods("GET")

	router.HandleFunc("/api/players", s.handlePlayers).Methods("GET")
	router.HandleFunc("/api/players/{id}", s.handlePlayer).Methods("GET")
	router.HandleFunc("/api/squad/stats", s.handleSquadStats).Methods("GET")
	router.HandleFunc("/api/squad/top-scorers", s.handleTopScorers).Methods("GET")
	router.HandleFunc("/api/squad/top-assisters", s.handleTopAssisters).Methods("GET")
	router.HandleFunc("/api/club/info", s.handleClubInfo).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return fallback
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"service":           "Galatasaray Analytics Platform",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"database":          s.store.BackendName(),
		"platforms":         s.collection.Platforms(),
		"scheduler_running": s.scheduler.Running(),
	})
}

type collectRequest struct {
	Keywords  []string `json:"keywords"`
	Platforms []string `json:"platforms"`
	Limit     int      `json:"limit"`
}

func (s *server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}

	posts := s.collect(r, req)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(posts),
		"posts":     posts,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// collect routes a request to one platform or fans out to all of them.
func (s *server) collect(r *http.Request, req collectRequest) []models.Post {
	if len(req.Platforms) == 1 {
		posts, err := s.collection.CollectByPlatform(r.Context(), models.Platform(req.Platforms[0]), req.Keywords, req.Limit)
		if err != nil {
			logrus.Warnf("Platform collect failed: %v", err)
			return nil
		}
		return posts
	}
	return s.collection.CollectAll(r.Context(), req.Limit)
}

type analyzeRequest struct {
	Posts []models.Post `json:"posts"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for i := range req.Posts {
		if req.Posts[i].Platform == "" {
			req.Posts[i].Platform = models.PlatformTwitter
		}
		if req.Posts[i].CreatedAt.IsZero() {
			req.Posts[i].CreatedAt = time.Now().UTC().Truncate(time.Second)
		}
	}

	result := s.analyzer.AnalyzePosts(r.Context(), req.Posts)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"analysis_results": result,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleCollectAndAnalyze(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}

	posts := s.collect(r, req)
	result := s.analyzer.AnalyzePosts(r.Context(), posts)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"data_collected": len(posts),
		"analysis":       result,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

type reportRequest struct {
	Type     string `json:"type"`
	DaysBack int    `json:"days_back"`
}

func (s *server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	req := reportRequest{Type: models.ReportDaily, DaysBack: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DaysBack <= 0 {
		req.DaysBack = 1
	}

	end := time.Now().UTC().Truncate(time.Second)
	start := end.Add(-time.Duration(req.DaysBack) * 24 * time.Hour)

	var report *models.Report
	var err error

	switch req.Type {
	case models.ReportDaily:
		report, err = s.analyzer.Reports().GenerateDailyReport(r.Context(), start, end)
	case models.ReportWeekly:
		report, err = s.analyzer.Reports().GenerateWeeklyReport(r.Context(), start, end)
	default:
		report, err = s.analyzer.Reports().GenerateCustomReport(r.Context(),
			[]models.Platform{models.PlatformTwitter, models.PlatformInstagram},
			[]string{"engagement", "sentiment", "players"},
			start, end)
	}
	if err != nil {
		logrus.Errorf("Report generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	if _, err := s.analyzer.Reports().StoreReport(r.Context(), report); err != nil {
		logrus.Errorf("Failed to persist report: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"report":    report,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	filter := storage.Filter{}
	if reportType := r.URL.Query().Get("type"); reportType != "" {
		filter["report_type"] = reportType
	}

	reports, err := s.store.Query(r.Context(), storage.CollectionReports, filter, limit)
	if err != nil {
		logrus.Errorf("Report query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "report query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(reports),
		"reports": reports,
	})
}

func (s *server) handleInsights(w http.ResponseWriter, r *http.Request) {
	daysBack := queryInt(r, "days", 7)
	start := time.Now().UTC().Add(-time.Duration(daysBack) * 24 * time.Hour)

	records, err := s.store.Query(r.Context(), storage.CollectionSentiment, storage.Filter{
		"analyzed_at": storage.Range{GTE: start},
	}, 1000)
	if err != nil {
		logrus.Errorf("Sentiment query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "sentiment query failed")
		return
	}

	if len(records) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"insights": []string{"Yeterli veri bulunmamaktadır"},
		})
		return
	}

	distribution := map[string]int{}
	for _, record := range records {
		if label, ok := record["sentiment"].(string); ok {
			distribution[label]++
		}
	}

	total := len(records)
	insights := []string{}
	switch {
	case float64(distribution[models.SentimentPositive]) > float64(total)*0.6:
		insights = append(insights, "Çoğunlukla pozitif sentiment")
	case float64(distribution[models.SentimentNegative]) > float64(total)*0.6:
		insights = append(insights, "Çoğunlukla negatif sentiment")
	default:
		insights = append(insights, "Karışık sentiment dağılımı")
	}

	mentionDocs, err := s.store.Query(r.Context(), storage.CollectionPlayerMentions, nil, 500)
	if err == nil && len(mentionDocs) > 0 {
		counts := map[string]int{}
		for _, doc := range mentionDocs {
			if name, ok := doc["player_name"].(string); ok {
				counts[name]++
			}
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if counts[names[i]] != counts[names[j]] {
				return counts[names[i]] > counts[names[j]]
			}
			return names[i] < names[j]
		})
		if len(names) > 3 {
			names = names[:3]
		}
		insights = append(insights, "En çok bahsedilen oyuncular: "+strings.Join(names, ", "))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":                true,
		"period_days":            daysBack,
		"total_analyzed":         total,
		"sentiment_distribution": distribution,
		"insights":               insights,
		"timestamp":              time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	daysBack := queryInt(r, "days", 7)
	start := time.Now().UTC().Add(-time.Duration(daysBack) * 24 * time.Hour)

	filter := storage.Filter{"calculated_at": storage.Range{GTE: start}}
	if platform := r.URL.Query().Get("platform"); platform != "" {
		filter["platform"] = platform
	}

	metrics, err := s.store.Query(r.Context(), storage.CollectionEngagementMetrics, filter, 100)
	if err != nil {
		logrus.Errorf("Metrics query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "metrics query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(metrics),
		"metrics": metrics,
	})
}

func (s *server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players := roster.Players()

	if position := r.URL.Query().Get("position"); position != "" {
		filtered := players[:0]
		for _, p := range players {
			if strings.EqualFold(p.Position, position) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	if nationality := r.URL.Query().Get("nationality"); nationality != "" {
		filtered := players[:0]
		for _, p := range players {
			if strings.Contains(strings.ToLower(p.Nationality), strings.ToLower(nationality)) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	switch r.URL.Query().Get("sort") {
	case "goals":
		sort.Slice(players, func(i, j int) bool { return players[i].Goals > players[j].Goals })
	case "assists":
		sort.Slice(players, func(i, j int) bool { return players[i].Assists > players[j].Assists })
	case "number":
		sort.Slice(players, func(i, j int) bool { return players[i].Number < players[j].Number })
	default:
		sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(players),
		"players": players,
	})
}

func (s *server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	player, ok := roster.PlayerByID(playerID)
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	mentions, err := s.store.Query(r.Context(), storage.CollectionPlayerMentions, storage.Filter{
		"player_id": playerID,
	}, 50)
	if err != nil {
		logrus.Warnf("Mention query for player %s failed: %v", playerID, err)
		mentions = nil
	}

	positive := 0
	negative := 0
	for _, mention := range mentions {
		switch mention["sentiment"] {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
	}

	ratio := 0.0
	if len(mentions) > 0 {
		ratio = float64(positive) / float64(len(mentions)) * 100
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"player":  player,
		"social_media_stats": map[string]any{
			"total_mentions":  len(mentions),
			"positive":        positive,
			"negative":        negative,
			"sentiment_ratio": ratio,
		},
	})
}

func (s *server) handleSquadStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"squad_stats": roster.SquadStats(),
	})
}

func (s *server) handleTopScorers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"top_scorers": rankPlayers(queryInt(r, "limit", 10), func(p roster.Player) int { return p.Goals }),
	})
}

func (s *server) handleTopAssisters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"top_assisters": rankPlayers(queryInt(r, "limit", 10), func(p roster.Player) int { return p.Assists }),
	})
}

// rankPlayers orders the squad by the given stat and returns the top
// entries with their rank.
func rankPlayers(limit int, stat func(roster.Player) int) []map[string]any {
	players := roster.Players()
	sort.Slice(players, func(i, j int) bool { return stat(players[i]) > stat(players[j]) })

	if limit > len(players) {
		limit = len(players)
	}

	ranked := make([]map[string]any, 0, limit)
	for i := 0; i < limit; i++ {
		p := players[i]
		ranked = append(ranked, map[string]any{
			"rank":     i + 1,
			"name":     p.Name,
			"goals":    p.Goals,
			"assists":  p.Assists,
			"position": p.Position,
			"number":   p.Number,
		})
	}
	return ranked
}

func (s *server) handleClubInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"club":    roster.Club(),
	})
}
