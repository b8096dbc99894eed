package tutor

import (
	"fmt"

	"github.com/phrazzld/parla-api/internal/domain"
)

// Review card presentation constants. Review cards get a longer timebox
// than scheduled prompts so the retry feels unhurried.
const (
	reviewRubric  = "Repeat with clear words. Encourage and stay positive."
	reviewTimebox = 15 // seconds
)

// passMessages are the fixed praise variants for a passing utterance; one
// is chosen by the injected PRNG.
var passMessages = []string{
	`Awesome! "%s"!`,
	`Great job saying "%s"!`,
	`High five! You said "%s".`,
}

// buildFeedback returns the feedback line and the Chinese scaffold hint for
// an outcome. Passing utterances get praise and no scaffold.
func (s *serviceImpl) buildFeedback(outcome domain.Outcome, targetPhrase string) (text, scaffold string) {
	switch outcome {
	case domain.OutcomeFail:
		return fmt.Sprintf(`Let's try again. Say: "%s".`, targetPhrase),
			"我们一起慢慢说：" + targetPhrase
	case domain.OutcomePartial:
		return fmt.Sprintf(`Good try! One more time: "%s".`, targetPhrase),
			"再练一次：" + targetPhrase
	default:
		return fmt.Sprintf(passMessages[s.intn(len(passMessages))], targetPhrase), ""
	}
}

// reviewCard builds the simplified retry prompt shown after a failed
// attempt. It reuses the same target phrase; the pending activity stays
// active so the learner retries it.
func reviewCard(pending *domain.PendingActivity) *domain.Activity {
	return &domain.Activity{
		ItemID:       pending.ItemID,
		PromptText:   "Let's say it slowly: " + pending.TargetPhrase,
		TargetPhrase: pending.TargetPhrase,
		Rubric:       reviewRubric,
		TimeboxSec:   reviewTimebox,
		ScaffoldCN:   "试试：" + pending.TargetPhrase,
	}
}
