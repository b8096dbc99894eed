// Package evaluation scores a learner utterance against a target phrase.
//
// The scoring is a deliberately coarse token-overlap heuristic, not real
// speech assessment: the four component scores are proxy signals and their
// exact thresholds are part of the contract consumed by the session loop.
package evaluation

import (
	"regexp"
	"strings"

	"github.com/phrazzld/parla-api/internal/domain"
)

// tokenRe matches word tokens. Non-letter characters act as separators;
// apostrophes are retained as part of a token ("don't" stays one token).
var tokenRe = regexp.MustCompile(`[a-zA-Z']+`)

// Result holds the four component scores of a scored utterance.
type Result struct {
	Meaning       int // 0-2: token overlap with the target
	Form          int // 0-2: exact-order match vs partial overlap
	Pronunciation int // 0-1: produced any tokens at all
	Fluency       int // 0-1: no trailing pause marker
}

// Total returns the summed score, range 0-7.
func (r Result) Total() int {
	return r.Meaning + r.Form + r.Pronunciation + r.Fluency
}

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	matches := tokenRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.ToLower(m))
	}
	return tokens
}

// compareTokens returns the meaning and form scores for the predicted
// tokens against the target tokens.
func compareTokens(predicted, target []string) (meaning, form int) {
	if len(predicted) == 0 {
		return 0, 0
	}

	targetSet := make(map[string]struct{}, len(target))
	for _, tok := range target {
		targetSet[tok] = struct{}{}
	}

	seen := make(map[string]struct{}, len(predicted))
	overlap := 0
	for _, tok := range predicted {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := targetSet[tok]; ok {
			overlap++
		}
	}

	required := len(target) / 2
	if required < 1 {
		required = 1
	}
	switch {
	case overlap >= required:
		meaning = 2
	case overlap > 0:
		meaning = 1
	}

	switch {
	case equalTokens(predicted, target):
		form = 2
	case overlap > 0:
		form = 1
	}
	return meaning, form
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Evaluate scores an utterance against the target phrase. It is a pure
// function: same inputs always produce the same result.
func Evaluate(utterance, targetPhrase string) Result {
	utterTokens := Tokenize(utterance)
	targetTokens := Tokenize(targetPhrase)

	meaning, form := compareTokens(utterTokens, targetTokens)

	pronunciation := 0
	if len(utterTokens) > 0 {
		pronunciation = 1
	}

	// A trailing "..." signals a pause or incomplete thought. Empty
	// utterances score 0 here as well.
	fluency := 0
	if utterance != "" && !strings.HasSuffix(strings.TrimSpace(utterance), "...") {
		fluency = 1
	}

	return Result{
		Meaning:       meaning,
		Form:          form,
		Pronunciation: pronunciation,
		Fluency:       fluency,
	}
}

// OutcomeForScore maps a total score to its discrete outcome:
// total <= 2 fails, 3-4 is partial, 5 and above passes.
func OutcomeForScore(total int) domain.Outcome {
	switch {
	case total <= 2:
		return domain.OutcomeFail
	case total <= 4:
		return domain.OutcomePartial
	default:
		return domain.OutcomePass
	}
}
