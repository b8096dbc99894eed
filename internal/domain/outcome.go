package domain

// Outcome represents the discrete result of evaluating a learner's response
// against the target phrase.
type Outcome string

// Possible outcome values.
const (
	OutcomeFail    Outcome = "fail"
	OutcomePartial Outcome = "partial"
	OutcomePass    Outcome = "pass"
)

// Valid reports whether the outcome is one of the three recognized values.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeFail, OutcomePartial, OutcomePass:
		return true
	default:
		return false
	}
}
