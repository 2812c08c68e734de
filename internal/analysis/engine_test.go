package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"skywatch/internal/models"

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

// fakeClient returns canned responses keyed on the system prompt
type fakeClient struct {
	extractResponse string
	compareResponse string
	err             error
	lastUserPrompt  string
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastUserPrompt = user
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(system, "extract factual claims") {
		return f.extractResponse, nil
	}
	return f.compareResponse, nil
}

func storeClaim(t *testing.T, db *gorm.DB, content string) models.Claim {
	t.Helper()
	claim := models.Claim{
		ID:                 uuid.New(),
		ArticleID:          uuid.New(),
		Content:            content,
		ClaimType:          models.ClaimTypeObservation,
		Confidence:         0.9,
		VerificationStatus: models.VerificationUnverified,
	}
	if err := db.Create(&claim).Error; err != nil {
		t.Fatalf("failed to store claim: %v", err)
	}
	return claim
}

func TestExtractClaims(t *testing.T) {
	db := setupTestDB(t)
	client := &fakeClient{extractResponse: `[
		{"text": "The object is on a hyperbolic orbit", "type": "measurement", "confidence": 0.95},
		{"text": "It may be artificial", "type": "speculation", "confidence": 0.2},
		{"text": "Bad type falls back", "type": "nonsense", "confidence": 1.7},
		{"text": "", "type": "observation", "confidence": 0.5}
	]`}
	engine := NewEngine(db, client)

	claims := engine.ExtractClaims(context.Background(), uuid.New(), "Title", "Body")

	if len(claims) != 3 {
		t.Fatalf("expected 3 claims (empty text dropped), got %d", len(claims))
	}
	if claims[0].ClaimType != models.ClaimTypeMeasurement {
		t.Errorf("expected measurement, got %q", claims[0].ClaimType)
	}
	if claims[2].ClaimType != models.ClaimTypeOther {
		t.Errorf("unknown type should fall back to other, got %q", claims[2].ClaimType)
	}
	if claims[2].Confidence != 1.0 {
		t.Errorf("confidence should clamp to 1.0, got %v", claims[2].Confidence)
	}
	for _, claim := range claims {
		if claim.VerificationStatus != models.VerificationUnverified {
			t.Errorf("claims must start unverified, got %q", claim.VerificationStatus)
		}
	}
}

func TestExtractClaimsBoundsExcerpt(t *testing.T) {
	db := setupTestDB(t)
	client := &fakeClient{extractResponse: `[]`}
	engine := NewEngine(db, client)

	body := strings.Repeat("x", 5000)
	engine.ExtractClaims(context.Background(), uuid.New(), "Title", body)

	if len(client.lastUserPrompt) > 2200 {
		t.Errorf("prompt exceeds bounded excerpt: %d chars", len(client.lastUserPrompt))
	}
}

func TestExtractClaimsFailuresAreEmpty(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"adapter error", &fakeClient{err: errors.New("boom")}},
		{"malformed JSON", &fakeClient{extractResponse: `{"not": "an array"`}},
		{"non-array JSON", &fakeClient{extractResponse: `{"text": "x"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(db, tt.client)
			if claims := engine.ExtractClaims(context.Background(), uuid.New(), "T", "B"); len(claims) != 0 {
				t.Errorf("expected no claims, got %d", len(claims))
			}
		})
	}
}

func TestExtractClaimsStripsCodeFences(t *testing.T) {
	db := setupTestDB(t)
	client := &fakeClient{extractResponse: "```json\n[{\"text\": \"fenced\", \"type\": \"observation\", \"confidence\": 0.8}]\n```"}
	engine := NewEngine(db, client)

	claims := engine.ExtractClaims(context.Background(), uuid.New(), "T", "B")
	if len(claims) != 1 || claims[0].Content != "fenced" {
		t.Errorf("expected fenced response to parse, got %+v", claims)
	}
}

func TestCompareClaimsCreatesContradiction(t *testing.T) {
	db := setupTestDB(t)
	claimA := storeClaim(t, db, "The nucleus is under 1 km wide")
	claimB := storeClaim(t, db, "The nucleus is over 20 km wide")

	client := &fakeClient{compareResponse: `{"is_contradictory": true, "contradiction_level": "major", "explanation": "Size estimates differ by more than an order of magnitude"}`}
	engine := NewEngine(db, client)

	if !engine.CompareClaims(context.Background(), claimA.ID, claimB.ID) {
		t.Fatal("expected a contradiction to be recorded")
	}

	var contradiction models.Contradiction
	if err := db.First(&contradiction).Error; err != nil {
		t.Fatalf("expected contradiction row: %v", err)
	}
	if contradiction.Level != models.ContradictionMajor {
		t.Errorf("expected major level, got %q", contradiction.Level)
	}
	if contradiction.ResolutionStatus != models.ResolutionUnresolved {
		t.Errorf("expected unresolved status, got %q", contradiction.ResolutionStatus)
	}
}

func TestCompareClaimsNegativeCases(t *testing.T) {
	db := setupTestDB(t)
	claimA := storeClaim(t, db, "a")
	claimB := storeClaim(t, db, "b")

	tests := []struct {
		name   string
		client *fakeClient
		id1    uuid.UUID
		id2    uuid.UUID
	}{
		{"level none", &fakeClient{compareResponse: `{"is_contradictory": true, "contradiction_level": "none", "explanation": ""}`}, claimA.ID, claimB.ID},
		{"not contradictory", &fakeClient{compareResponse: `{"is_contradictory": false, "contradiction_level": "major", "explanation": ""}`}, claimA.ID, claimB.ID},
		{"malformed JSON", &fakeClient{compareResponse: `nope`}, claimA.ID, claimB.ID},
		{"adapter error", &fakeClient{err: errors.New("boom")}, claimA.ID, claimB.ID},
		{"missing claim", &fakeClient{compareResponse: `{"is_contradictory": true, "contradiction_level": "major", "explanation": ""}`}, uuid.New(), claimB.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(db, tt.client)
			if engine.CompareClaims(context.Background(), tt.id1, tt.id2) {
				t.Error("expected no contradiction to be created")
			}
		})
	}

	var count int64
	db.Model(&models.Contradiction{}).Count(&count)
	if count != 0 {
		t.Errorf("expected zero contradiction rows, got %d", count)
	}
}

func TestRunPipelinePersistsClaimsAndSummary(t *testing.T) {
	db := setupTestDB(t)
	client := &fakeClient{extractResponse: `[
		{"text": "claim one", "type": "observation", "confidence": 0.8},
		{"text": "claim two", "type": "observation", "confidence": 0.6},
		{"text": "claim three", "type": "prediction", "confidence": 0.4}
	]`}
	engine := NewEngine(db, client)
	articleID := uuid.New()

	persisted := engine.RunPipeline(context.Background(), articleID, "T", "B")
	if len(persisted) != 3 {
		t.Fatalf("expected 3 persisted claims, got %d", len(persisted))
	}

	var result models.AnalysisResult
	if err := db.Where("article_id = ?", articleID).First(&result).Error; err != nil {
		t.Fatalf("expected summary row: %v", err)
	}
	if result.ClaimCount != 3 {
		t.Errorf("expected claim count 3, got %d", result.ClaimCount)
	}
	if diff := result.MeanConfidence - 0.6; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected mean confidence 0.6, got %v", result.MeanConfidence)
	}

	var histogram map[string]int
	if err := json.Unmarshal([]byte(result.TypeHistogram), &histogram); err != nil {
		t.Fatalf("histogram is not valid JSON: %v", err)
	}
	if histogram["observation"] != 2 || histogram["prediction"] != 1 {
		t.Errorf("unexpected histogram: %v", histogram)
	}
}

func TestRunPipelineWithFailingLLMStoresEmptySummary(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db, &fakeClient{err: errors.New("down")})
	articleID := uuid.New()

	persisted := engine.RunPipeline(context.Background(), articleID, "T", "B")
	if len(persisted) != 0 {
		t.Errorf("expected no claims, got %d", len(persisted))
	}

	var claimCount int64
	db.Model(&models.Claim{}).Count(&claimCount)
	if claimCount != 0 {
		t.Errorf("no partial claims may be persisted, got %d", claimCount)
	}

	var result models.AnalysisResult
	if err := db.Where("article_id = ?", articleID).First(&result).Error; err != nil {
		t.Fatalf("expected summary row even on failure: %v", err)
	}
	if result.ClaimCount != 0 || result.MeanConfidence != 0 {
		t.Errorf("expected empty summary, got %+v", result)
	}
}

func TestEngineDisabledWithoutClient(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db, nil)

	if engine.Enabled() {
		t.Error("engine without a client must report disabled")
	}
	if claims := engine.ExtractClaims(context.Background(), uuid.New(), "T", "B"); claims != nil {
		t.Errorf("expected nil claims, got %+v", claims)
	}
	if engine.CompareClaims(context.Background(), uuid.New(), uuid.New()) {
		t.Error("expected no comparison without a client")
	}
}
