// Package analysis runs the LLM-backed claim extraction and contradiction
// detection passes over stored articles.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"skywatch/internal/llm"
	"skywatch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// excerptLimit bounds how much article text is sent to the model
const excerptLimit = 2000

const extractSystemPrompt = `You extract factual claims from astronomy news coverage. ` +
	`Respond with a strict JSON array and nothing else. Each element has the shape ` +
	`{"text": string, "type": string, "confidence": number}. "type" is one of: ` +
	`observation, measurement, prediction, interpretation, speculation, attribution, ` +
	`refutation, other. "confidence" is between 0 and 1. Return [] when the text ` +
	`contains no checkable claims.`

const compareSystemPrompt = `You compare two claims about the same astronomical object and ` +
	`decide whether they contradict each other. Respond with strict JSON and nothing else: ` +
	`{"is_contradictory": bool, "contradiction_level": string, "explanation": string}. ` +
	`"contradiction_level" is one of: none, minor, moderate, major, critical.`

// Engine drives claim extraction and pairwise contradiction checks. A nil
// LLM client disables it: every operation degrades to an empty result.
type Engine struct {
	db     *gorm.DB
	client llm.Client
}

// NewEngine creates an analysis engine
func NewEngine(db *gorm.DB, client llm.Client) *Engine {
	return &Engine{
		db:     db,
		client: client,
	}
}

// Enabled reports whether an LLM client is configured
func (e *Engine) Enabled() bool {
	return e.client != nil
}

// claimPayload mirrors one element of the extraction response
type claimPayload struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// ExtractClaims asks the model for the claims in an article's text and
// returns unsaved claim drafts. Any call or parse failure yields an empty
// slice; the engine never surfaces LLM errors.
func (e *Engine) ExtractClaims(ctx context.Context, articleID uuid.UUID, title, body string) []models.Claim {
	if e.client == nil {
		return nil
	}

	prompt := fmt.Sprintf("Title: %s\n\nText:\n%s", title, excerpt(body))
	raw, err := e.client.Complete(ctx, extractSystemPrompt, prompt)
	if err != nil {
		log.Printf("analysis: claim extraction failed for %s: %v", articleID, err)
		return nil
	}

	var payloads []claimPayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payloads); err != nil {
		log.Printf("analysis: malformed extraction response for %s: %v", articleID, err)
		return nil
	}

	var claims []models.Claim
	for _, payload := range payloads {
		text := strings.TrimSpace(payload.Text)
		if text == "" {
			continue
		}
		claimType := models.ClaimType(payload.Type)
		if !claimType.IsValid() {
			claimType = models.ClaimTypeOther
		}
		claims = append(claims, models.Claim{
			ID:                 uuid.New(),
			ArticleID:          articleID,
			Content:            text,
			ClaimType:          claimType,
			Confidence:         clamp01(payload.Confidence),
			VerificationStatus: models.VerificationUnverified,
		})
	}
	return claims
}

// comparePayload mirrors the comparison response
type comparePayload struct {
	IsContradictory    bool   `json:"is_contradictory"`
	ContradictionLevel string `json:"contradiction_level"`
	Explanation        string `json:"explanation"`
}

// CompareClaims asks the model whether two stored claims contradict each
// other and records a Contradiction when they do. It reports whether a
// record was created. Missing claims, malformed output and adapter failures
// all return false without creating anything.
func (e *Engine) CompareClaims(ctx context.Context, claimID1, claimID2 uuid.UUID) bool {
	if e.client == nil {
		return false
	}

	var claimA, claimB models.Claim
	if err := e.db.Where("id = ?", claimID1).First(&claimA).Error; err != nil {
		log.Printf("analysis: claim %s not found: %v", claimID1, err)
		return false
	}
	if err := e.db.Where("id = ?", claimID2).First(&claimB).Error; err != nil {
		log.Printf("analysis: claim %s not found: %v", claimID2, err)
		return false
	}

	prompt := fmt.Sprintf("Claim A: %s\n\nClaim B: %s", claimA.Content, claimB.Content)
	raw, err := e.client.Complete(ctx, compareSystemPrompt, prompt)
	if err != nil {
		log.Printf("analysis: comparison failed for %s/%s: %v", claimID1, claimID2, err)
		return false
	}

	var payload comparePayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		log.Printf("analysis: malformed comparison response: %v", err)
		return false
	}

	level := models.ContradictionLevel(payload.ContradictionLevel)
	if !payload.IsContradictory || !level.IsValid() {
		return false
	}

	contradiction := models.Contradiction{
		ID:               uuid.New(),
		ClaimAID:         claimA.ID,
		ClaimBID:         claimB.ID,
		Level:            level,
		Explanation:      payload.Explanation,
		ResolutionStatus: models.ResolutionUnresolved,
	}
	if err := e.db.Create(&contradiction).Error; err != nil {
		log.Printf("analysis: failed to store contradiction: %v", err)
		return false
	}

	return true
}

// RunPipeline extracts and persists the claims for one article, then stores
// a summary record (claim count, per-type histogram, mean confidence). Each
// stage failure is isolated; the returned claims are whatever made it into
// the store. The article's analyzed flag is the caller's to manage.
func (e *Engine) RunPipeline(ctx context.Context, articleID uuid.UUID, title, body string) []models.Claim {
	drafts := e.ExtractClaims(ctx, articleID, title, body)

	var persisted []models.Claim
	for _, claim := range drafts {
		if err := e.db.Create(&claim).Error; err != nil {
			log.Printf("analysis: failed to store claim for %s: %v", articleID, err)
			continue
		}
		persisted = append(persisted, claim)
	}

	if err := e.storeSummary(articleID, persisted); err != nil {
		log.Printf("analysis: failed to store summary for %s: %v", articleID, err)
	}

	return persisted
}

// storeSummary aggregates the run's stats into an AnalysisResult row
func (e *Engine) storeSummary(articleID uuid.UUID, claims []models.Claim) error {
	histogram := make(map[string]int)
	total := 0.0
	for _, claim := range claims {
		histogram[string(claim.ClaimType)]++
		total += claim.Confidence
	}

	mean := 0.0
	if len(claims) > 0 {
		mean = total / float64(len(claims))
	}

	encoded, err := json.Marshal(histogram)
	if err != nil {
		return err
	}

	result := models.AnalysisResult{
		ID:             uuid.New(),
		ArticleID:      articleID,
		ClaimCount:     len(claims),
		TypeHistogram:  string(encoded),
		MeanConfidence: mean,
	}
	return e.db.Create(&result).Error
}

// UnanalyzedArticles returns up to limit articles awaiting analysis
func (e *Engine) UnanalyzedArticles(limit int) ([]models.Article, error) {
	var articles []models.Article
	err := e.db.Where("is_analyzed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&articles).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return articles, nil
}

// excerpt bounds body text to the first excerptLimit runes
func excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptLimit {
		return body
	}
	return string(runes[:excerptLimit])
}

// stripCodeFences removes a wrapping markdown code block, which chat models
// add despite instructions
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
