// Package parser extracts structured filter criteria (disaster category,
// country, year) from a free-text analysis prompt using whole-word matching
// against a fixed vocabulary.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Categories is the known disaster vocabulary, checked in declaration order.
// When a prompt mentions two categories the first one in this list wins; the
// behavior on such prompts is intentionally left loose, callers wanting a
// specific answer should disambiguate the prompt.
var Categories = []string{
	"volcanic activity",
	"flood",
	"storm",
	"earthquake",
	"wildfire",
	"epidemic",
	"mass movement (wet)",
	"infestation",
	"extreme temperature",
	"drought",
	"mass movement (dry)",
}

// Countries covers the Americas region of the source dataset, checked in
// declaration order like Categories.
var Countries = []string{
	"guatemala", "brazil", "united states of america", "colombia", "argentina",
	"peru", "bolivia (plurinational state of)", "ecuador", "french guiana",
	"uruguay", "mexico", "chile", "nicaragua", "costa rica", "paraguay",
	"panama", "belize", "cuba", "jamaica", "puerto rico",
	"venezuela (bolivarian republic of)", "haiti", "dominican republic",
	"barbados", "grenada", "saint vincent and the grenadines", "bermuda",
	"saint lucia", "united states virgin islands", "martinique",
	"turks and caicos islands", "antigua and barbuda", "british virgin islands",
	"canada", "el salvador", "cayman islands", "bahamas", "honduras",
	"trinidad and tobago", "dominica", "guadeloupe", "guyana", "suriname",
	"saint kitts and nevis", "anguilla", "saint barthélemy",
	"saint martin (french part)", "sint maarten (dutch part)", "montserrat",
}

const (
	minYear = 2000
	maxYear = 2025
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	yearRe       = regexp.MustCompile(`\b(20[0-2][0-9])\b`)

	categoryRes = compileVocabulary(Categories)
	countryRes  = compileVocabulary(Countries)
)

func compileVocabulary(terms []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return res
}

// LocationResolver maps a prompt to a known country when the vocabulary
// match comes up empty. The nlp package provides an entity-extraction backed
// implementation; tests leave it nil.
type LocationResolver func(prompt string) string

// Parse extracts (category, country, year) from a prompt. Each field is
// independently optional and returned empty/nil when absent. Years outside
// 2000-2025 are ignored rather than reported. Parse has no side effects.
func Parse(prompt string) (category, country string, year *int) {
	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(prompt), " "))

	for i, re := range categoryRes {
		if re.MatchString(normalized) {
			category = Categories[i]
			break
		}
	}

	for i, re := range countryRes {
		if re.MatchString(normalized) {
			country = Countries[i]
			break
		}
	}

	if m := yearRe.FindString(normalized); m != "" {
		y, err := strconv.Atoi(m)
		if err == nil && y >= minYear && y <= maxYear {
			year = &y
		}
	}

	return category, country, year
}
