package classify

import (
	"testing"

	"skywatch/internal/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		body     string
		expected models.Category
	}{
		{"debunking", "Astronomers debunk alien ship rumor", "", models.CategoryDebunking},
		{"timeline", "A timeline of the flyby", "", models.CategoryTimelineEvent},
		{"international", "China tracks the visitor", "", models.CategoryInternationalPerspective},
		{"trajectory", "New orbit solution published", "", models.CategoryTrajectory},
		{"composition", "Spectra reveal chemical makeup", "nickel element detected", models.CategoryComposition},
		{"activity cue in body", "Brightening reported", "strong outgassing near perihelion", models.CategoryActivity},
		{"government", "Agency issues official update", "", models.CategoryGovernmentStatement},
		{"speculation", "A new theory about its origin", "", models.CategorySpeculation},
		{"discovery", "Telescope survey spots new detail", "", models.CategoryScientificDiscovery},
		{"no match", "Quiet week", "nothing notable", models.CategoryOther},
		{"case insensitive", "DEBUNK: the viral video", "", models.CategoryDebunking},
		{"debunk beats trajectory", "NASA debunks trajectory rumor", "orbit path analysis", models.CategoryDebunking},
		{"international beats trajectory", "China releases trajectory data", "international analysis", models.CategoryInternationalPerspective},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.title, tt.body)
			if got != tt.expected {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.title, tt.body, got, tt.expected)
			}
		})
	}
}

// TestCategorizeRulePrecedence verifies that for every pair of rules the
// earlier one wins when keywords from both appear in the same text.
func TestCategorizeRulePrecedence(t *testing.T) {
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			text := rules[i].keywords[0] + " " + rules[j].keywords[0]
			got := Categorize(text, "")
			if got != rules[i].category {
				t.Errorf("Categorize(%q) = %q, want earlier rule %q to win over %q",
					text, got, rules[i].category, rules[j].category)
			}
			// Same pair with the later rule's keyword in the title and the
			// earlier one in the body; position must not matter.
			got = Categorize(rules[j].keywords[0], rules[i].keywords[0])
			if got != rules[i].category {
				t.Errorf("Categorize(%q, %q) = %q, want %q",
					rules[j].keywords[0], rules[i].keywords[0], got, rules[i].category)
			}
		}
	}
}

func TestCategorizeEmptyText(t *testing.T) {
	if got := Categorize("", ""); got != models.CategoryOther {
		t.Errorf("Categorize of empty text = %q, want %q", got, models.CategoryOther)
	}
}
