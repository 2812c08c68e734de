// Package classify assigns a topic category to article text using an
// ordered keyword rule list.
package classify

import (
	"strings"

	"skywatch/internal/models"
)

// rule pairs a category with the keywords that select it
type rule struct {
	category models.Category
	keywords []string
}

// rules is evaluated top to bottom; the first match wins. The order is
// deliberate: debunking coverage of a trajectory rumor is still debunking,
// and a foreign agency's trajectory release is international coverage first.
var rules = []rule{
	{models.CategoryDebunking, []string{"debunk", "false", "incorrect"}},
	{models.CategoryTimelineEvent, []string{"timeline", "chronology", "sequence"}},
	{models.CategoryInternationalPerspective, []string{"china", "russia", "japan", "india", "international"}},
	{models.CategoryTrajectory, []string{"trajectory", "orbit", "path"}},
	{models.CategoryComposition, []string{"composition", "chemical", "element"}},
	{models.CategoryActivity, []string{"activity", "outgassing", "tail"}},
	{models.CategoryGovernmentStatement, []string{"government", "statement", "official"}},
	{models.CategorySpeculation, []string{"speculation", "theory", "claim"}},
	{models.CategoryScientificDiscovery, []string{"discovery", "observation", "telescope"}},
}

// Categorize maps article text to a topic category. Matching is
// case-insensitive substring search over title and body together;
// text matching no rule falls through to "other".
func Categorize(title, body string) models.Category {
	text := strings.ToLower(title + " " + body)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(text, keyword) {
				return r.category
			}
		}
	}
	return models.CategoryOther
}
