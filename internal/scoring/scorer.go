// Package scoring computes confidence scores for creation events.
package scoring

import (
	"strings"
	"unicode/utf8"

	"solana-launch-alerts/internal/domain"
)

// DefaultThreshold is the minimum score that triggers an alert.
const DefaultThreshold = 70

// DefaultDenylist holds name substrings that forfeit the name bonus.
var DefaultDenylist = []string{"scam"}

// Scorer combines metadata quality and creator reputation into a 0-100 score.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	denylist []string
}

// NewScorer creates a scorer. A nil denylist uses DefaultDenylist;
// an empty non-nil slice disables the check.
func NewScorer(denylist []string) *Scorer {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	cleaned := make([]string, 0, len(denylist))
	for _, s := range denylist {
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return &Scorer{denylist: cleaned}
}

// NameOK reports whether name is longer than 3 characters and free of denylisted substrings.
// Matching is case-sensitive.
func (s *Scorer) NameOK(name string) bool {
	if utf8.RuneCountInString(name) <= 3 {
		return false
	}
	for _, bad := range s.denylist {
		if strings.Contains(name, bad) {
			return false
		}
	}
	return true
}

// SymbolOK reports whether symbol is longer than 1 character.
func SymbolOK(symbol string) bool {
	return utf8.RuneCountInString(symbol) > 1
}

// URIOK reports whether uri is an https JSON document.
func URIOK(uri string) bool {
	return strings.HasPrefix(uri, "https://") && strings.HasSuffix(uri, ".json")
}

// Score computes the score from decoded fields and a resolved reputation flag.
func (s *Scorer) Score(event *domain.CreationEvent, reputable bool) domain.Score {
	score := domain.Score{
		Name:       s.NameOK(event.Name),
		Symbol:     SymbolOK(event.Symbol),
		URI:        URIOK(event.URI),
		Reputation: reputable,
	}
	score.Total = Total(score)
	return score
}

// Evaluate scores an event against a reputation lookup outcome.
// A failed lookup counts as not reputable.
func (s *Scorer) Evaluate(event *domain.CreationEvent, reputation domain.Lookup[bool]) domain.Score {
	return s.Score(event, reputation.Ok() && reputation.Value)
}

// Total sums the points of the passing signals.
func Total(score domain.Score) int {
	total := 0
	if score.Name {
		total += domain.NamePoints
	}
	if score.Symbol {
		total += domain.SymbolPoints
	}
	if score.URI {
		total += domain.URIPoints
	}
	if score.Reputation {
		total += domain.ReputationPoints
	}
	return total
}

// Meets reports whether score clears the alert threshold.
func Meets(score, threshold int) bool {
	return score >= threshold
}
