package plugin

import (
	"fmt"
	"strings"

	"github.com/H4M5TER/steaminfo/internal/locale"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

// AutoSelect decides whether a candidate can be chosen without prompting.
// A single candidate always wins. With fuzzy enabled, the rank-1 candidate
// wins when its name contains the search term, case-insensitively.
func AutoSelect(candidates []steam.Candidate, fuzzy bool, term string) (steam.Candidate, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}
	if fuzzy && len(candidates) > 1 {
		name := strings.ToLower(candidates[0].Name)
		needle := strings.ToLower(strings.TrimSpace(term))
		if needle != "" && strings.Contains(name, needle) {
			return candidates[0], true
		}
	}
	return steam.Candidate{}, false
}

// FormatCandidateList renders the numbered disambiguation prompt, 1-based,
// in storefront relevance order.
func FormatCandidateList(candidates []steam.Candidate, loc locale.Localizer) string {
	var b strings.Builder
	b.WriteString(loc.Text("select.header"))
	for i, c := range candidates {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, c.Name))
	}
	return b.String()
}
