package notifications

import (
	"testing"
	"time"

	"skywatch/internal/models"
)

// at builds a time.Time whose local clock reads the given HH:MM
func at(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		t.Fatalf("bad test clock %q: %v", clock, err)
	}
	return parsed
}

func defaultPrefs() *Prefs {
	return &Prefs{
		Toast:          true,
		Center:         true,
		NewArticles:    true,
		Alerts:         true,
		Contradictions: true,
		SourceUpdates:  true,
	}
}

func TestInQuietHours(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		start    string
		end      string
		expected bool
	}{
		{"wraparound inside late", "23:00", "22:00", "08:00", true},
		{"wraparound inside early", "03:30", "22:00", "08:00", true},
		{"wraparound outside", "14:00", "22:00", "08:00", false},
		{"same day inside", "14:30", "09:00", "17:00", true},
		{"same day outside", "08:59", "09:00", "17:00", false},
		{"same day start inclusive", "09:00", "09:00", "17:00", true},
		{"same day end inclusive", "17:00", "09:00", "17:00", true},
		{"wraparound start inclusive", "22:00", "22:00", "08:00", true},
		{"wraparound end inclusive", "08:00", "22:00", "08:00", true},
		{"degenerate equal bounds match", "13:00", "13:00", "13:00", true},
		{"degenerate equal bounds miss", "13:01", "13:00", "13:00", false},
		{"empty bounds never match", "13:00", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inQuietHours(tt.now, tt.start, tt.end)
			if got != tt.expected {
				t.Errorf("inQuietHours(%q, %q, %q) = %v, want %v",
					tt.now, tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

func TestShouldDeliverFailsOpenWithoutPrefs(t *testing.T) {
	candidates := []Candidate{
		{Type: models.NotificationAlertTriggered, Severity: "critical"},
		{Type: models.NotificationArticleNew, Category: "speculation"},
		{Type: models.NotificationSystem},
	}
	for _, candidate := range candidates {
		if !ShouldDeliver(candidate, nil, at(t, "03:00")) {
			t.Errorf("expected delivery with no preference record for %+v", candidate)
		}
	}
}

func TestShouldDeliverBothChannelsDisabled(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Toast = false
	prefs.Center = false

	if ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "12:00")) {
		t.Error("expected refusal when both channels are disabled")
	}
}

func TestShouldDeliverOneChannelSuffices(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Toast = false

	if !ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "12:00")) {
		t.Error("expected delivery with the notification center still enabled")
	}
}

func TestShouldDeliverQuietHours(t *testing.T) {
	prefs := defaultPrefs()
	prefs.DNDEnabled = true
	prefs.DNDStart = "22:00"
	prefs.DNDEnd = "08:00"

	if ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "23:30")) {
		t.Error("expected suppression inside quiet hours")
	}
	if !ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "12:00")) {
		t.Error("expected delivery outside quiet hours")
	}

	prefs.DNDEnabled = false
	if !ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "23:30")) {
		t.Error("expected delivery when do-not-disturb is off")
	}
}

func TestShouldDeliverPerTypeToggles(t *testing.T) {
	tests := []struct {
		name     string
		disable  func(*Prefs)
		candType models.NotificationType
	}{
		{"alerts", func(p *Prefs) { p.Alerts = false }, models.NotificationAlertTriggered},
		{"new articles", func(p *Prefs) { p.NewArticles = false }, models.NotificationArticleNew},
		{"contradictions", func(p *Prefs) { p.Contradictions = false }, models.NotificationContradictionFound},
		{"source updates", func(p *Prefs) { p.SourceUpdates = false }, models.NotificationSourceUpdate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := defaultPrefs()
			tt.disable(prefs)
			if ShouldDeliver(Candidate{Type: tt.candType}, prefs, at(t, "12:00")) {
				t.Errorf("expected refusal for %q with its toggle off", tt.candType)
			}
			// Other types are unaffected by this toggle.
			if !ShouldDeliver(Candidate{Type: models.NotificationSystem}, prefs, at(t, "12:00")) {
				t.Error("unrelated type should still be delivered")
			}
		})
	}
}

func TestShouldDeliverAlertToggleBeatsEverythingElse(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Alerts = false
	prefs.Severities = map[string]struct{}{"critical": {}}

	candidate := Candidate{Type: models.NotificationAlertTriggered, Severity: "critical"}
	if ShouldDeliver(candidate, prefs, at(t, "12:00")) {
		t.Error("expected refusal: enable_alerts=false even though severity is allowed")
	}
}

func TestShouldDeliverCategoryAllowList(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Categories = map[string]struct{}{"trajectory": {}}

	if ShouldDeliver(Candidate{Type: models.NotificationArticleNew, Category: "speculation"}, prefs, at(t, "12:00")) {
		t.Error("expected refusal for category outside the allow-list")
	}
	if !ShouldDeliver(Candidate{Type: models.NotificationArticleNew, Category: "trajectory"}, prefs, at(t, "12:00")) {
		t.Error("expected delivery for an allowed category")
	}
	// Candidates without a category pass a configured category filter.
	if !ShouldDeliver(Candidate{Type: models.NotificationArticleNew}, prefs, at(t, "12:00")) {
		t.Error("expected delivery for candidate without a category")
	}
}

func TestShouldDeliverSeverityAllowList(t *testing.T) {
	prefs := defaultPrefs()
	prefs.Severities = map[string]struct{}{"high": {}, "critical": {}}

	if ShouldDeliver(Candidate{Type: models.NotificationAlertTriggered, Severity: "low"}, prefs, at(t, "12:00")) {
		t.Error("expected refusal for severity outside the allow-list")
	}
	if !ShouldDeliver(Candidate{Type: models.NotificationAlertTriggered, Severity: "critical"}, prefs, at(t, "12:00")) {
		t.Error("expected delivery for an allowed severity")
	}
}

func TestPrefsFromModel(t *testing.T) {
	model := &models.NotificationPreference{
		EnableToastNotifications: true,
		EnableNotificationCenter: false,
		EnableNewArticles:        true,
		EnableAlerts:             false,
		EnableContradictions:     true,
		EnableSourceUpdates:      true,
		CategoryFilter:           `["trajectory","debunking"]`,
		SeverityFilter:           ``,
		DoNotDisturbEnabled:      true,
		DoNotDisturbStart:        "21:00",
		DoNotDisturbEnd:          "07:00",
	}

	prefs := PrefsFromModel(model)
	if prefs == nil {
		t.Fatal("expected non-nil prefs")
	}
	if len(prefs.Categories) != 2 {
		t.Errorf("expected 2 allowed categories, got %d", len(prefs.Categories))
	}
	if prefs.Severities != nil {
		t.Error("empty severity filter should parse as unconfigured")
	}
	if prefs.Alerts {
		t.Error("alert toggle should carry over")
	}

	if PrefsFromModel(nil) != nil {
		t.Error("nil model should map to nil prefs")
	}
}

func TestPrefsFromModelMalformedAllowList(t *testing.T) {
	model := &models.NotificationPreference{
		EnableToastNotifications: true,
		CategoryFilter:           `{not json`,
	}
	prefs := PrefsFromModel(model)
	if prefs.Categories != nil {
		t.Error("malformed allow-list should be treated as unconfigured")
	}
}
