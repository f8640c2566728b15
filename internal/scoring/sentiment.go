package scoring

import (
	"math"
	"strings"
)

// sentimentLexicon maps words to polarity contributions in [-1, 1].
// Deliberately small: review text in this domain is short and plain,
// and the score only needs to separate clearly unhappy customers from
// clearly happy ones.
var sentimentLexicon = map[string]float64{
	"amazing":      1.0,
	"excellent":    1.0,
	"outstanding":  1.0,
	"perfect":      1.0,
	"love":         0.9,
	"loved":        0.9,
	"fantastic":    0.9,
	"wonderful":    0.9,
	"best":         0.8,
	"great":        0.8,
	"awesome":      0.8,
	"friendly":     0.6,
	"helpful":      0.6,
	"good":         0.5,
	"nice":         0.5,
	"professional": 0.5,
	"clean":        0.4,
	"recommend":    0.7,
	"recommended":  0.7,
	"fast":         0.3,
	"fine":         0.2,
	"okay":         0.1,
	"ok":           0.1,

	"mediocre":       -0.3,
	"slow":           -0.4,
	"expensive":      -0.3,
	"overpriced":     -0.5,
	"disappointing":  -0.6,
	"disappointed":   -0.6,
	"poor":           -0.6,
	"bad":            -0.6,
	"unprofessional": -0.7,
	"dirty":          -0.7,
	"rude":           -0.8,
	"awful":          -0.9,
	"terrible":       -0.9,
	"horrible":       -0.9,
	"worst":          -1.0,
	"scam":           -1.0,
	"avoid":          -0.8,
	"never":          -0.2,
	"waste":          -0.7,
	"broken":         -0.5,
	"late":           -0.3,
	"wrong":          -0.4,
}

// negators flip the polarity of a sentiment word appearing within the
// following two tokens ("not good", "never coming back").
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"dont":    true,
	"don't":   true,
	"didnt":   true,
	"didn't":  true,
	"wasnt":   true,
	"wasn't":  true,
	"isnt":    true,
	"isn't":   true,
	"wont":    true,
	"won't":   true,
	"cant":    true,
	"can't":   true,
	"couldnt": true,
	"hardly":  true,
}

const tokenCutset = ".,!?;:()[]\"'"

// Polarity computes a sentiment polarity in [-1, 1] for a piece of review
// text. Empty or unmatched text is neutral (0).
func Polarity(text string) float64 {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	var matched int
	for i, raw := range tokens {
		token := strings.Trim(raw, tokenCutset)
		weight, ok := sentimentLexicon[token]
		if !ok {
			continue
		}
		if negatedAt(tokens, i) {
			weight = -weight
		}
		sum += weight
		matched++
	}
	if matched == 0 {
		return 0
	}

	p := sum / float64(matched)
	return math.Max(-1, math.Min(1, p))
}

// negatedAt reports whether one of the two tokens preceding index i is a
// negator.
func negatedAt(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if negators[strings.Trim(tokens[j], tokenCutset)] {
			return true
		}
	}
	return false
}

// ScoreReview rescales the polarity of one review onto a 1-5 scale,
// rounded to two decimals. Empty text scores exactly 3.0.
func ScoreReview(text string) float64 {
	p := Polarity(text)
	return round2(((p+1)/2)*4 + 1)
}

// ScoreReviews averages ScoreReview over the given review texts and
// returns the mean alongside a per-review breakdown. Callers cap the input
// themselves and substitute a neutral 3.0 for an empty list instead of
// calling with no reviews.
func ScoreReviews(texts []string) (float64, map[string]float64) {
	perReview := make(map[string]float64, len(texts))
	var sum float64
	for _, text := range texts {
		score := ScoreReview(text)
		perReview[text] = score
		sum += score
	}
	if len(texts) == 0 {
		return 0, perReview
	}
	return round2(sum / float64(len(texts))), perReview
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
