package scoring

import (
	"math"
	"strings"
)

var personalDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"icloud.com":  true,
	"hotmail.com": true,
}

var disposableDomains = map[string]bool{
	"mailinator.com":   true,
	"tempmail.com":     true,
	"10minutemail.com": true,
}

// ScoreEmail rates an address's suitability for outreach on a 1-5 scale.
// Three independent sub-scores are summed, then rounded and clamped:
//
//   - person: 0 for role inboxes, 2 for anything that looks like a person
//   - domain: 1 for a custom business domain, 0.5 for personal webmail,
//     0 for disposable mail hosts
//   - name pattern: 1 for first.last / first_last, 0.5 for a single
//     lowercase word, 0 otherwise
//
// An address without an @ scores 1.
func ScoreEmail(email string) int {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return 1
	}

	var raw float64

	if !IsRoleLocal(local) {
		raw += 2
	}

	switch {
	case personalDomains[domain]:
		raw += 0.5
	case disposableDomains[domain]:
		// no contribution
	default:
		raw += 1
	}

	raw += namePatternScore(local)

	score := int(math.Round(raw))
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return score
}

// namePatternScore rewards local parts shaped like a person's name.
func namePatternScore(local string) float64 {
	if first, last, ok := splitName(local, '.'); ok && isAlphaLower(first) && isAlphaLower(last) {
		return 1
	}
	if first, last, ok := splitName(local, '_'); ok && isAlphaLower(first) && isAlphaLower(last) {
		return 1
	}
	if isAlphaLower(local) {
		return 0.5
	}
	return 0
}

// splitName splits local on a single occurrence of sep into two non-empty
// halves.
func splitName(local string, sep byte) (string, string, bool) {
	if strings.Count(local, string(sep)) != 1 {
		return "", "", false
	}
	first, last, _ := strings.Cut(local, string(sep))
	if first == "" || last == "" {
		return "", "", false
	}
	return first, last, true
}

func isAlphaLower(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// BestEmail returns the highest-scoring address and its score. Ties go to
// the lexicographically first address so the choice is stable across runs.
// An empty list returns ("", 0).
func BestEmail(emails []string) (string, int) {
	best := ""
	bestScore := 0
	for _, email := range emails {
		score := ScoreEmail(email)
		if score > bestScore || (score == bestScore && best != "" && email < best) {
			best = email
			bestScore = score
		}
	}
	return best, bestScore
}
