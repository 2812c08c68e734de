// Package notifications decides which alerts reach a user and delivers
// the ones that do.
package notifications

import (
	"encoding/json"
	"time"

	"skywatch/internal/models"
)

// Candidate is a notification waiting on a delivery decision. Category and
// Severity are optional; empty means unset.
type Candidate struct {
	Type     models.NotificationType
	Category string
	Severity string
}

// Prefs is the typed view of one user's preference row. The JSON allow-list
// columns are parsed here, at the store boundary; a nil set means the filter
// is not configured.
type Prefs struct {
	Toast  bool
	Center bool

	NewArticles    bool
	Alerts         bool
	Contradictions bool
	SourceUpdates  bool

	Categories map[string]struct{}
	Severities map[string]struct{}

	DNDEnabled bool
	DNDStart   string
	DNDEnd     string
}

// PrefsFromModel builds the typed view from a stored preference row.
// A malformed allow-list is treated as unconfigured rather than blocking
// everything. Returns nil for a nil row, which ShouldDeliver reads as
// "no preferences: deliver".
func PrefsFromModel(m *models.NotificationPreference) *Prefs {
	if m == nil {
		return nil
	}
	return &Prefs{
		Toast:          m.EnableToastNotifications,
		Center:         m.EnableNotificationCenter,
		NewArticles:    m.EnableNewArticles,
		Alerts:         m.EnableAlerts,
		Contradictions: m.EnableContradictions,
		SourceUpdates:  m.EnableSourceUpdates,
		Categories:     parseAllowList(m.CategoryFilter),
		Severities:     parseAllowList(m.SeverityFilter),
		DNDEnabled:     m.DoNotDisturbEnabled,
		DNDStart:       m.DoNotDisturbStart,
		DNDEnd:         m.DoNotDisturbEnd,
	}
}

// parseAllowList decodes a JSON string array into a set
func parseAllowList(encoded string) map[string]struct{} {
	if encoded == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

// ShouldDeliver decides whether a candidate reaches the user. The gates run
// in a fixed order and short-circuit on the first refusal:
// missing preferences fail open; both channels off refuses; quiet hours
// refuse; the per-type toggle refuses; then the category and severity
// allow-lists refuse candidates carrying a value outside the list.
func ShouldDeliver(candidate Candidate, prefs *Prefs, now time.Time) bool {
	if prefs == nil {
		return true
	}

	if !prefs.Toast && !prefs.Center {
		return false
	}

	if prefs.DNDEnabled && inQuietHours(now.Format("15:04"), prefs.DNDStart, prefs.DNDEnd) {
		return false
	}

	switch candidate.Type {
	case models.NotificationArticleNew:
		if !prefs.NewArticles {
			return false
		}
	case models.NotificationAlertTriggered:
		if !prefs.Alerts {
			return false
		}
	case models.NotificationContradictionFound:
		if !prefs.Contradictions {
			return false
		}
	case models.NotificationSourceUpdate:
		if !prefs.SourceUpdates {
			return false
		}
	}

	if prefs.Categories != nil && candidate.Category != "" {
		if _, ok := prefs.Categories[candidate.Category]; !ok {
			return false
		}
	}

	if prefs.Severities != nil && candidate.Severity != "" {
		if _, ok := prefs.Severities[candidate.Severity]; !ok {
			return false
		}
	}

	return true
}

// inQuietHours reports whether now falls inside the [start, end] window.
// All three are HH:MM strings compared lexicographically, which orders
// correctly for zero-padded 24h times. A window with start < end covers the
// same day; start > end wraps past midnight, so the window is the union of
// [start, 24:00) and [00:00, end]. Both bounds are inclusive. Equal bounds
// collapse to a single-instant window rather than the full day the
// wraparound formula would give.
func inQuietHours(now, start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	if start == end {
		return now == start
	}
	if start < end {
		return now >= start && now <= end
	}
	return now >= start || now <= end
}
