// Package fields implements the custom-field discovery subsystem: the
// match scorer that maps semantic field names (storyPoints, epicLink, …)
// onto a Jira instance's opaque custom field ids, the discovery
// orchestrator that resolves a batch of names for one project, and the
// request-scoped resolver used by every tool that needs a field id.
package fields

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/jira"
)

// Greenhopper custom type identifiers. These are stable across Jira
// Cloud instances and identify agile fields regardless of display name.
const (
	EpicLinkCustomType = "com.pyxis.greenhopper.jira:gh-epic-link"
	SprintCustomType   = "com.pyxis.greenhopper.jira:gh-sprint"
)

// Base confidence per match rule. Rules are mutually exclusive per
// candidate: the first one that applies wins, then type bonuses add on
// top and the total is clamped to 100.
const (
	exactMatchConfidence  = 100
	patternConfidence     = 80
	clauseNameConfidence  = 70
	fuzzyMaxConfidence    = 60
	fuzzyMinSimilarity    = 0.6
	numericTypeBonus      = 10
	customTypeBonus       = 20
	maxConfidence         = 100
)

// Match is one scored candidate for a semantic field name.
type Match struct {
	Field      jira.Field
	Confidence int
	Reason     string
}

// fieldPatterns maps each vocabulary key to name patterns ordered from
// most to least specific. Keys outside this table still get exact,
// clause-name, and fuzzy matching.
var fieldPatterns = map[string][]*regexp.Regexp{
	"storyPoints": {
		regexp.MustCompile(`(?i)story\s*points?`),
		regexp.MustCompile(`(?i)\bpoints?\b`),
		regexp.MustCompile(`(?i)estimate`),
	},
	"epicLink": {
		regexp.MustCompile(`(?i)epic\s*link`),
		regexp.MustCompile(`(?i)\bepic\b`),
		regexp.MustCompile(`(?i)parent\s*link`),
	},
	"acceptanceCriteria": {
		regexp.MustCompile(`(?i)acceptance\s*criteria`),
		regexp.MustCompile(`(?i)acceptance`),
		regexp.MustCompile(`(?i)\bcriteria\b`),
		regexp.MustCompile(`(?i)definition\s*of\s*done`),
	},
	"sprint": {
		regexp.MustCompile(`(?i)\bsprint\b`),
		regexp.MustCompile(`(?i)iteration`),
	},
	"dueDate": {
		regexp.MustCompile(`(?i)due\s*date`),
		regexp.MustCompile(`(?i)deadline`),
		regexp.MustCompile(`(?i)target\s*date`),
	},
	"origination": {
		regexp.MustCompile(`(?i)origination`),
		regexp.MustCompile(`(?i)\borigin\b`),
		regexp.MustCompile(`(?i)\bsource\b`),
	},
	"product": {
		regexp.MustCompile(`(?i)\bproduct\b`),
		regexp.MustCompile(`(?i)application`),
	},
	"category": {
		regexp.MustCompile(`(?i)categor(y|ies)`),
		regexp.MustCompile(`(?i)classification`),
	},
}

// KnownFieldNames returns the vocabulary keys with registered patterns,
// sorted for stable help text.
func KnownFieldNames() []string {
	names := make([]string, 0, len(fieldPatterns))
	for name := range fieldPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchField scores every catalog field against one semantic field name
// and returns the plausible candidates, highest confidence first. Ties
// keep catalog order. Fields that match no rule are excluded.
func MatchField(fieldName string, available []jira.Field) []Match {
	patterns := fieldPatterns[fieldName]
	lowerName := strings.ToLower(fieldName)

	var matches []Match
	for _, field := range available {
		m, ok := scoreField(field, lowerName, patterns)
		if !ok {
			continue
		}
		matches = append(matches, m)
	}

	sortMatches(matches)
	return matches
}

// sortMatches orders by confidence descending; ties keep their current
// (catalog) order.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
}

// scoreField applies the match rules to one candidate. Exactly one of
// the four base rules fires; the type bonus then layers on top.
func scoreField(field jira.Field, lowerName string, patterns []*regexp.Regexp) (Match, bool) {
	confidence := 0
	reason := ""

	switch {
	case strings.ToLower(field.Name) == lowerName:
		confidence = exactMatchConfidence
		reason = "exact name match"
	case matchesAny(field.Name, patterns):
		confidence = patternConfidence
		reason = "name pattern match"
	case clauseNameContains(field.ClauseNames, lowerName):
		confidence = clauseNameConfidence
		reason = "clause name match"
	default:
		sim := similarity(strings.ToLower(field.Name), lowerName)
		if sim <= fuzzyMinSimilarity {
			return Match{}, false
		}
		confidence = int(sim*fuzzyMaxConfidence + 0.5)
		reason = fmt.Sprintf("fuzzy name match (%.0f%% similar)", sim*100)
	}

	confidence, reason = applyTypeBonus(field, lowerName, confidence, reason)
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return Match{Field: field, Confidence: confidence, Reason: reason}, true
}

// applyTypeBonus boosts candidates whose schema corroborates the semantic
// key. Vendor custom types identify epic link and sprint fields outright,
// so those override the match reason.
func applyTypeBonus(field jira.Field, lowerName string, confidence int, reason string) (int, string) {
	switch lowerName {
	case "storypoints":
		if field.SchemaType() == "number" {
			confidence += numericTypeBonus
		}
	case "epiclink":
		if field.CustomType() == EpicLinkCustomType {
			confidence += customTypeBonus
			reason = "epic link field type"
		}
	case "sprint":
		if field.CustomType() == SprintCustomType {
			confidence += customTypeBonus
			reason = "sprint field type"
		}
	}
	return confidence, reason
}

func matchesAny(name string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func clauseNameContains(clauseNames []string, lowerName string) bool {
	for _, clause := range clauseNames {
		if strings.Contains(strings.ToLower(clause), lowerName) {
			return true
		}
	}
	return false
}

// similarity is 1 − levenshtein(a,b)/max(len(a),len(b)). Both inputs are
// expected lower-cased. Two empty strings are fully similar.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with unit cost for insert, delete,
// and substitute, using a rolling single-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[len(b)]
}

// NormalizeFieldName converts a display name into a stable lookup key:
// lower-cased, non-alphanumeric runs collapsed to one underscore, no
// leading or trailing underscore. "Story Points (dev)" → "story_points_dev".
func NormalizeFieldName(name string) string {
	var sb strings.Builder
	lastUnderscore := true // suppresses a leading underscore
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(sb.String(), "_")
}
