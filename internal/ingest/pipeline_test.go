package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"skywatch/internal/fetch"
	"skywatch/internal/models"
	"skywatch/internal/sources"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// stubFetcher returns a fixed raw article set
type stubFetcher struct {
	articles []fetch.RawArticle
}

func (s *stubFetcher) FetchAll(ctx context.Context) []fetch.RawArticle {
	return s.articles
}

func testRegistry() *sources.Registry {
	return sources.NewRegistry([]sources.Entry{
		{Name: "NASA", URL: "https://www.nasa.gov", Type: models.SourceTypeOfficialAgency, Prior: 0.95},
	})
}

func TestRunCycleInsertsArticles(t *testing.T) {
	db := setupTestDB(t)
	published := time.Now().Add(-time.Hour)
	pipeline := NewPipeline(db, &stubFetcher{articles: []fetch.RawArticle{
		{
			Title:       "New observation campaign",
			Description: "telescope data released",
			URL:         "https://example.com/obs",
			Source:      "NASA",
			PublishedAt: &published,
		},
	}}, testRegistry())

	inserted, err := pipeline.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected 1 inserted article, got %d", inserted)
	}

	var article models.Article
	if err := db.Where("url = ?", "https://example.com/obs").First(&article).Error; err != nil {
		t.Fatalf("expected article to be stored: %v", err)
	}
	if article.Category != models.CategoryScientificDiscovery {
		t.Errorf("expected category scientific_discovery, got %q", article.Category)
	}
	if article.IsAnalyzed {
		t.Error("new articles must start unanalyzed")
	}
	// 0.95 prior boosted by 1.10 and capped at 1.0
	if article.CredibilityScore != 1.0 {
		t.Errorf("expected credibility 1.0, got %v", article.CredibilityScore)
	}
}

func TestRunCycleIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	fetcher := &stubFetcher{articles: []fetch.RawArticle{
		{Title: "One", URL: "https://example.com/one", Source: "NASA"},
		{Title: "Two", URL: "https://example.com/two", Source: "NASA"},
	}}
	pipeline := NewPipeline(db, fetcher, testRegistry())

	first, err := pipeline.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("first RunCycle failed: %v", err)
	}
	if first != 2 {
		t.Errorf("expected 2 inserted on first run, got %d", first)
	}

	second, err := pipeline.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second RunCycle failed: %v", err)
	}
	if second != 0 {
		t.Errorf("expected 0 inserted on second run, got %d", second)
	}

	var count int64
	db.Model(&models.Article{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 article rows after both runs, got %d", count)
	}
}

func TestRunCycleAutoCreatesUnknownSource(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, &stubFetcher{articles: []fetch.RawArticle{
		{Title: "Wire piece", URL: "https://example.com/wire", Source: "Example Wire"},
	}}, testRegistry())

	if _, err := pipeline.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	var source models.Source
	if err := db.Where("name = ?", "Example Wire").First(&source).Error; err != nil {
		t.Fatalf("expected source to be auto-created: %v", err)
	}
	if source.CredibilityScore != 0.75 {
		t.Errorf("expected default prior 0.75, got %v", source.CredibilityScore)
	}
	if source.SourceType != models.SourceTypeNewsOutlet {
		t.Errorf("expected news_outlet type, got %q", source.SourceType)
	}
}

func TestRunCycleDoesNotRewriteExistingPrior(t *testing.T) {
	db := setupTestDB(t)
	registry := testRegistry()
	pipeline := NewPipeline(db, &stubFetcher{}, registry)

	if _, err := pipeline.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	// Admin adjusts the prior between cycles.
	if err := db.Model(&models.Source{}).Where("name = ?", "NASA").
		Update("credibility_score", 0.42).Error; err != nil {
		t.Fatalf("failed to adjust prior: %v", err)
	}

	if _, err := pipeline.RunCycle(context.Background()); err != nil {
		t.Fatalf("second RunCycle failed: %v", err)
	}

	var source models.Source
	if err := db.Where("name = ?", "NASA").First(&source).Error; err != nil {
		t.Fatalf("failed to load source: %v", err)
	}
	if source.CredibilityScore != 0.42 {
		t.Errorf("pipeline rewrote an admin-set prior: got %v", source.CredibilityScore)
	}
}

func TestRunCycleEmptyFetchIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, &stubFetcher{}, testRegistry())

	inserted, err := pipeline.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("empty cycle must not error: %v", err)
	}
	if inserted != 0 {
		t.Errorf("expected 0 inserted, got %d", inserted)
	}
}

func TestDuplicateURLInsertYieldsDuplicatedKey(t *testing.T) {
	db := setupTestDB(t)

	first := models.Article{
		ID:        uuid.New(),
		URL:       "https://example.com/race",
		Title:     "First cycle wins",
		FetchedAt: time.Now(),
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("failed to insert article: %v", err)
	}

	// A concurrent cycle inserting the same URL must surface as
	// gorm.ErrDuplicatedKey so the race-skip branches can catch it.
	clash := models.Article{
		ID:        uuid.New(),
		URL:       "https://example.com/race",
		Title:     "Second cycle loses",
		FetchedAt: time.Now(),
	}
	err := db.Create(&clash).Error
	if err == nil {
		t.Fatal("expected the unique URL index to reject the duplicate")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected gorm.ErrDuplicatedKey, got %v", err)
	}

	var count int64
	db.Model(&models.Article{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 article row, got %d", count)
	}
}

func TestRunCycleCountryTokenPrecedesTrajectory(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, &stubFetcher{articles: []fetch.RawArticle{
		{
			Title:       "China releases trajectory data",
			Description: "international analysis",
			URL:         "https://example.com/china-trajectory",
			Source:      "NASA",
		},
	}}, testRegistry())

	if _, err := pipeline.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	var article models.Article
	if err := db.Where("url = ?", "https://example.com/china-trajectory").First(&article).Error; err != nil {
		t.Fatalf("expected article to be stored: %v", err)
	}
	if article.Category != models.CategoryInternationalPerspective {
		t.Errorf("expected international_perspective, got %q", article.Category)
	}
	if article.IsAnalyzed {
		t.Error("expected is_analyzed=false at ingestion")
	}
}
