package entity

// Requirement expresses how the passcode step participates in the
// authentication flow it is attached to.
type Requirement int16

const (
	// RequirementUnknown means the requirement was not recognized.
	RequirementUnknown Requirement = 0

	// RequirementRequired means the step is mandatory. A wrong code fails
	// the step and arms the resubmission throttle.
	RequirementRequired Requirement = 1

	// RequirementAlternative means the step is one of several ways to pass.
	// A wrong code only marks the step attempted so a sibling can run.
	RequirementAlternative Requirement = 2

	// RequirementConditional means the step runs only when applicable and a
	// wrong code marks it attempted, same as an alternative.
	RequirementConditional Requirement = 3
)

func (r Requirement) String() string {
	switch r {
	case RequirementRequired:
		return "required"
	case RequirementAlternative:
		return "alternative"
	case RequirementConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// RequirementFromString parses a requirement name, returning
// RequirementUnknown for anything unrecognized.
func RequirementFromString(s string) Requirement {
	switch s {
	case "required":
		return RequirementRequired
	case "alternative":
		return RequirementAlternative
	case "conditional":
		return RequirementConditional
	default:
		return RequirementUnknown
	}
}

// Outcome is the result of evaluating a submitted passcode.
type Outcome int16

const (
	// OutcomeUnknown means the submission could not be evaluated.
	OutcomeUnknown Outcome = 0

	// OutcomeAccepted means the code matched before its expiry.
	OutcomeAccepted Outcome = 1

	// OutcomeExpired means the code matched but its validity window passed.
	OutcomeExpired Outcome = 2

	// OutcomeInvalid means the code did not match on a mandatory step.
	OutcomeInvalid Outcome = 3

	// OutcomeAttempted means the code did not match on an alternative or
	// conditional step; the flow may continue with a sibling step.
	OutcomeAttempted Outcome = 4
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExpired:
		return "expired"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeAttempted:
		return "attempted"
	default:
		return "unknown"
	}
}
