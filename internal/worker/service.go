// Package worker drives the periodic collection and analysis jobs.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"skywatch/internal/analysis"
	"skywatch/internal/config"
	"skywatch/internal/ingest"
	"skywatch/internal/models"
	"skywatch/internal/notifications"

	"gorm.io/gorm"
)

// analysisBatchSize caps how many articles one deep-analysis run processes
const analysisBatchSize = 25

// comparisonBudget caps how many pairwise claim comparisons one run makes
const comparisonBudget = 25

// WorkerService owns the background job loop: ingestion every few hours, a
// lighter source refresh in between, and a daily deep-analysis pass. It is
// created and stopped by the process lifecycle; there is no ambient
// singleton.
type WorkerService struct {
	db       *gorm.DB
	cfg      *config.Config
	pipeline *ingest.Pipeline
	engine   *analysis.Engine
	notifier *notifications.Service

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex

	// ingestMu guards against overlapping collection cycles: a trigger that
	// fires while the previous cycle is still running is skipped.
	ingestMu sync.Mutex

	startedAt time.Time
}

// NewWorkerService creates a worker service over the given collaborators
func NewWorkerService(db *gorm.DB, cfg *config.Config, pipeline *ingest.Pipeline, engine *analysis.Engine, notifier *notifications.Service) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerService{
		db:       db,
		cfg:      cfg,
		pipeline: pipeline,
		engine:   engine,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.runPeriodicTasks()
	}()

	ws.running = true
	ws.startedAt = time.Now()
	log.Println("Background workers started successfully")

	return nil
}

// Stop stops all background workers and waits for them to finish
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")

	ws.cancel()
	ws.wg.Wait()

	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// runPeriodicTasks owns the tickers for every scheduled job
func (ws *WorkerService) runPeriodicTasks() {
	ingestTicker := time.NewTicker(ws.cfg.IngestInterval)
	refreshTicker := time.NewTicker(ws.cfg.RefreshInterval)
	analysisTicker := time.NewTicker(time.Hour) // checked hourly against the configured hour
	warmStart := time.NewTimer(ws.cfg.WarmStartDelay)

	defer ingestTicker.Stop()
	defer refreshTicker.Stop()
	defer analysisTicker.Stop()
	defer warmStart.Stop()

	log.Printf("🔭 Watching %s: ingest every %v, refresh every %v, deep analysis at %02d:00",
		ws.cfg.ObjectName, ws.cfg.IngestInterval, ws.cfg.RefreshInterval, ws.cfg.AnalysisHour)

	var lastAnalysisDay string

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Periodic tasks worker stopped")
			return

		case <-warmStart.C:
			ws.runIngestion()

		case <-ingestTicker.C:
			ws.runIngestion()

		case <-refreshTicker.C:
			ws.runSourceRefresh()

		case now := <-analysisTicker.C:
			day := now.Format("2006-01-02")
			if now.Hour() == ws.cfg.AnalysisHour && day != lastAnalysisDay {
				lastAnalysisDay = day
				ws.runDeepAnalysis()
			}
		}
	}
}

// RunIngestionNow triggers a collection cycle outside the schedule (admin
// endpoint). It shares the overlap guard with the scheduled runs.
func (ws *WorkerService) RunIngestionNow() {
	ws.runIngestion()
}

// runIngestion executes one collection cycle unless one is already running
func (ws *WorkerService) runIngestion() {
	if !ws.ingestMu.TryLock() {
		log.Println("⏭  Skipping collection cycle: previous cycle still running")
		return
	}
	defer ws.ingestMu.Unlock()

	log.Println("🔄 Running collection cycle...")
	inserted, err := ws.pipeline.RunCycle(ws.ctx)
	if err != nil {
		log.Printf("❌ Collection cycle failed: %v", err)
		return
	}

	if inserted > 0 {
		ws.notifyAll(notifications.Candidate{Type: models.NotificationArticleNew},
			"New coverage collected",
			fmt.Sprintf("%d new articles about %s", inserted, ws.cfg.ObjectName))
	}
}

// runSourceRefresh is the lightweight between-cycles job: it reconciles
// per-source article counts against the articles table and notifies on
// sources gone quiet. It never touches credibility priors.
func (ws *WorkerService) runSourceRefresh() {
	log.Println("📊 Refreshing source activity...")

	var allSources []models.Source
	if err := ws.db.Find(&allSources).Error; err != nil {
		log.Printf("Failed to load sources: %v", err)
		return
	}

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	stale := 0
	for _, source := range allSources {
		var count int64
		if err := ws.db.Model(&models.Article{}).Where("source_id = ?", source.ID).Count(&count).Error; err != nil {
			log.Printf("Failed to count articles for %s: %v", source.Name, err)
			continue
		}
		if int(count) != source.ArticleCount {
			if err := ws.db.Model(&models.Source{}).Where("id = ?", source.ID).
				Update("article_count", count).Error; err != nil {
				log.Printf("Failed to update article count for %s: %v", source.Name, err)
			}
		}

		if source.IsActive && source.LastSeenAt != nil && source.LastSeenAt.Before(cutoff) {
			stale++
			ws.notifyAll(notifications.Candidate{Type: models.NotificationSourceUpdate},
				"Source gone quiet",
				fmt.Sprintf("%s has not published about %s in over a week", source.Name, ws.cfg.ObjectName))
		}
	}

	log.Printf("Source refresh complete: %d sources checked, %d stale", len(allSources), stale)
}

// runDeepAnalysis processes unanalyzed articles through the claim engine,
// then spends a bounded budget on pairwise contradiction checks over the
// freshest claims
func (ws *WorkerService) runDeepAnalysis() {
	if !ws.engine.Enabled() {
		log.Println("Deep analysis skipped: no LLM configured")
		return
	}

	log.Println("🧠 Running deep analysis...")

	articles, err := ws.engine.UnanalyzedArticles(analysisBatchSize)
	if err != nil {
		log.Printf("Failed to load unanalyzed articles: %v", err)
		return
	}

	analyzed := 0
	for _, article := range articles {
		select {
		case <-ws.ctx.Done():
			return
		default:
		}

		body := article.Content
		if body == "" {
			body = article.Description
		}
		ws.engine.RunPipeline(ws.ctx, article.ID, article.Title, body)

		// The engine leaves the flag alone; the scheduler owns the
		// transition once an article has been through the pipeline.
		if err := ws.db.Model(&models.Article{}).Where("id = ?", article.ID).
			Update("is_analyzed", true).Error; err != nil {
			log.Printf("Failed to mark article %s analyzed: %v", article.ID, err)
			continue
		}
		analyzed++
	}

	found := ws.compareRecentClaims()
	log.Printf("Deep analysis complete: %d articles analyzed, %d contradictions found", analyzed, found)
}

// compareRecentClaims cross-checks recent claims of the same type against
// each other, up to the comparison budget
func (ws *WorkerService) compareRecentClaims() int {
	var claims []models.Claim
	cutoff := time.Now().Add(-48 * time.Hour)
	err := ws.db.Where("created_at > ?", cutoff).
		Order("created_at DESC").
		Limit(50).
		Find(&claims).Error
	if err != nil {
		log.Printf("Failed to load recent claims: %v", err)
		return 0
	}

	found := 0
	comparisons := 0
	for i := 0; i < len(claims) && comparisons < comparisonBudget; i++ {
		for j := i + 1; j < len(claims) && comparisons < comparisonBudget; j++ {
			if claims[i].ClaimType != claims[j].ClaimType {
				continue
			}
			if claims[i].ArticleID == claims[j].ArticleID {
				continue
			}
			comparisons++
			if ws.engine.CompareClaims(ws.ctx, claims[i].ID, claims[j].ID) {
				found++
				ws.notifyAll(notifications.Candidate{
					Type:     models.NotificationContradictionFound,
					Severity: string(models.SeverityHigh),
				}, "Conflicting claims detected",
					fmt.Sprintf("Two recent claims about %s contradict each other", ws.cfg.ObjectName))
			}
		}
	}
	return found
}

// notifyAll offers a candidate to every user; the filter engine decides
// per user whether it lands
func (ws *WorkerService) notifyAll(candidate notifications.Candidate, title, message string) {
	var users []models.User
	if err := ws.db.Find(&users).Error; err != nil {
		log.Printf("Failed to load users for notification fan-out: %v", err)
		return
	}

	for _, user := range users {
		_, _, err := ws.notifier.Create(notifications.CreateRequest{
			UserID:   user.ID,
			Type:     candidate.Type,
			Title:    title,
			Message:  message,
			Category: candidate.Category,
			Severity: candidate.Severity,
		})
		if err != nil {
			log.Printf("Failed to notify %s: %v", user.Handle, err)
		}
	}
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	status := map[string]interface{}{
		"running":          ws.running,
		"object":           ws.cfg.ObjectName,
		"ingest_interval":  ws.cfg.IngestInterval.String(),
		"refresh_interval": ws.cfg.RefreshInterval.String(),
		"analysis_hour":    ws.cfg.AnalysisHour,
		"llm_enabled":      ws.engine.Enabled(),
	}
	if ws.running {
		status["uptime"] = time.Since(ws.startedAt).String()
	}
	return status
}
