// Package scoring holds the pure scoring rules, one per module kind. Every
// function is total: degenerate input scores 0 rather than failing.
package scoring

import "strings"

const (
	// OrientationQuestions is the fixed number of orientation prompts.
	OrientationQuestions = 5
	// DigitSpanMaxConsecutiveMisses stops digit presentation when reached.
	DigitSpanMaxConsecutiveMisses = 2
	// MemoryTrials is the fixed number of immediate-memory trials.
	MemoryTrials = 3
	// MaxBalanceErrorsPerTrial caps counted errors in one stance trial.
	MaxBalanceErrorsPerTrial = 10
	// BalanceTrialSeconds is the observation window for one stance.
	BalanceTrialSeconds = 20
	// MaxSymptomRating is the upper bound of one symptom's severity rating.
	MaxSymptomRating = 6
)

// Orientation counts correctly answered orientation questions, one point each.
func Orientation(correct []bool) int {
	score := 0
	for _, c := range correct {
		if c {
			score++
		}
	}
	return score
}

// NormalizeDigits strips every non-digit rune from a raw response.
func NormalizeDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReverseDigits returns the character-for-character reverse of a digit string.
func ReverseDigits(digits string) string {
	runes := []rune(digits)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// DigitSpanMatch reports whether a response is the exact character reverse of
// the presented sequence. Comparison is per character, not numeric, so
// repeated digits keep their positions. Empty presented sequences never match.
func DigitSpanMatch(presented, response string) bool {
	presented = NormalizeDigits(presented)
	if presented == "" {
		return false
	}
	return NormalizeDigits(response) == ReverseDigits(presented)
}

// NormalizeWord lowercases a recalled word and strips everything that is not
// a letter, so "Elbow," and "elbow" compare equal.
func NormalizeWord(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WordRecall scores one recall attempt against the presented list: the size
// of the normalized set intersection, capped at the list length. Recall order
// is irrelevant and duplicate recalls collapse to one.
func WordRecall(presented, recalled []string) int {
	if len(presented) == 0 {
		return 0
	}
	want := make(map[string]bool, len(presented))
	for _, w := range presented {
		if n := NormalizeWord(w); n != "" {
			want[n] = true
		}
	}
	matched := make(map[string]bool, len(recalled))
	for _, w := range recalled {
		n := NormalizeWord(w)
		if want[n] {
			matched[n] = true
		}
	}
	score := len(matched)
	if score > len(presented) {
		score = len(presented)
	}
	return score
}

// BalanceTrial clamps one stance trial's counted errors into scoring range.
func BalanceTrial(errors int) int {
	if errors < 0 {
		return 0
	}
	if errors > MaxBalanceErrorsPerTrial {
		return MaxBalanceErrorsPerTrial
	}
	return errors
}

// BalanceTotal sums clamped stance trial errors.
func BalanceTotal(errorsPerTrial []int) int {
	total := 0
	for _, e := range errorsPerTrial {
		total += BalanceTrial(e)
	}
	return total
}

// Symptoms derives the two symptom sub-scores from raw 0-6 ratings: the
// number of symptoms reported at all, and the severity total. Out-of-range
// ratings are clamped rather than rejected.
func Symptoms(ratings []int) (reported, severity int) {
	for _, r := range ratings {
		if r < 0 {
			r = 0
		}
		if r > MaxSymptomRating {
			r = MaxSymptomRating
		}
		if r > 0 {
			reported++
			severity += r
		}
	}
	return reported, severity
}
