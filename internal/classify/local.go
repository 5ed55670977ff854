package classify

import (
	"fmt"
	"sort"
	"strings"

	"calassist/internal/model"
)

// Local fallback scoring. The keyword tables are deliberately plain
// package data so they can be inspected and tested on their own rather
// than being buried inside the scoring loop.

const (
	// localBaseConfidence is reported when nothing matches at all.
	localBaseConfidence = 0.35
	// localConfidenceCap keeps local results strictly below the top of
	// the range a remote result may report.
	localConfidenceCap = 0.75
	// titleWeightFactor doubles keyword hits found in the title.
	titleWeightFactor = 2
)

// keywordWeights maps a keyword to its score contribution.
type keywordWeights map[string]int

var categoryKeywords = map[model.Category]keywordWeights{
	model.CategoryBusiness: {
		"meeting":      3,
		"standup":      3,
		"client":       3,
		"interview":    3,
		"presentation": 3,
		"sprint":       2,
		"review":       2,
		"deadline":     2,
		"team":         2,
		"project":      2,
		"report":       2,
		"budget":       2,
		"sync":         2,
		"office":       2,
		"call":         2,
		"work":         2,
		"planning":     1,
	},
	model.CategoryHobby: {
		"practice":    3,
		"guitar":      3,
		"hiking":      3,
		"band":        3,
		"hobby":       3,
		"painting":    2,
		"game":        2,
		"gaming":      2,
		"music":       2,
		"song":        2,
		"songs":       2,
		"climbing":    2,
		"photography": 2,
		"chess":       2,
		"football":    2,
		"gym":         2,
		"play":        1,
	},
	model.CategoryPersonal: {
		"doctor":      3,
		"dentist":     3,
		"birthday":    3,
		"family":      3,
		"errand":      3,
		"errands":     3,
		"haircut":     3,
		"appointment": 2,
		"groceries":   2,
		"shopping":    2,
		"visit":       2,
		"dinner":      2,
		"vacation":    2,
		"bank":        2,
		"cleaning":    2,
		"kids":        2,
	},
}

// tieOrder fixes the priority when categories score equal:
// Business > Hobby > Personal.
var tieOrder = []model.Category{
	model.CategoryBusiness,
	model.CategoryHobby,
	model.CategoryPersonal,
}

// classifyLocal scores title+description against the keyword tables and
// returns a Classification with Source = Local. It never fails.
func classifyLocal(title, description string) model.Classification {
	titleTokens := tokenize(title)
	descTokens := tokenize(description)

	scores := make(map[model.Category]int, len(categoryKeywords))
	matched := make(map[model.Category][]string, len(categoryKeywords))

	for cat, words := range categoryKeywords {
		seen := make(map[string]bool)
		for _, tok := range titleTokens {
			if w, ok := words[tok]; ok && !seen[tok] {
				seen[tok] = true
				scores[cat] += w * titleWeightFactor
				matched[cat] = append(matched[cat], tok)
			}
		}
		for _, tok := range descTokens {
			if w, ok := words[tok]; ok && !seen[tok] {
				seen[tok] = true
				scores[cat] += w
				matched[cat] = append(matched[cat], tok)
			}
		}
	}

	best := model.CategoryPersonal
	bestScore := 0
	for _, cat := range tieOrder {
		// Strict greater-than keeps the fixed tie order.
		if scores[cat] > bestScore {
			best = cat
			bestScore = scores[cat]
		}
	}

	if bestScore == 0 {
		return model.Classification{
			Category:   model.CategoryPersonal,
			Confidence: localBaseConfidence,
			Rationale:  "local keyword fallback: no keywords matched, defaulting to personal",
			Source:     model.SourceLocal,
		}
	}

	conf := localBaseConfidence + 0.05*float64(bestScore)
	if conf > localConfidenceCap {
		conf = localConfidenceCap
	}

	words := matched[best]
	sort.Strings(words)

	return model.Classification{
		Category:   best,
		Confidence: conf,
		Rationale: fmt.Sprintf("local keyword fallback: matched %s keywords: %s",
			best, strings.Join(words, ", ")),
		Source: model.SourceLocal,
	}
}

// tokenize lowercases the text and splits it on anything that is not a
// letter or digit.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		}
		return true
	})
}
