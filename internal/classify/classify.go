// Package classify labels headlines with one of a small fixed category set
// using keyword heuristics.
package classify

import "strings"

// Categories, in classification priority order.
const (
	Economy = "economy"
	Health  = "health"
	Defense = "defense"
	General = "general"
)

// Keyword lists are checked in a fixed order and the first match wins, so an
// article mentioning both rates and vaccines is "economy". The order must not
// change: classification has to stay reproducible across runs.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{Economy, []string{
		"economy", "economic", "inflation", "interest rate", "rates",
		"federal reserve", "fed", "stock", "market", "wall street",
		"jobs report", "unemployment", "gdp", "tariff", "earnings",
		"recession", "prices",
	}},
	{Health, []string{
		"health", "hospital", "vaccine", "virus", "disease", "outbreak",
		"medicare", "medicaid", "doctor", "patients", "fda", "drug",
		"cancer", "medical",
	}},
	{Defense, []string{
		"defense", "military", "pentagon", "troops", "war", "missile",
		"nato", "army", "navy", "air force", "weapons", "airstrike",
		"ceasefire",
	}},
}

// Simple maps a headline to a category from its title and description.
// Matching is case-insensitive substring containment over the concatenated
// text; unmatched text is General.
func Simple(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return General
}
