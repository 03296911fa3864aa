package conversation

import "maintenance-agent/internal/domain"

// FallbackInstruction is returned for any status this package does not know.
const FallbackInstruction = "Continue monitoring the conversation for new information."

var instructions = map[domain.Status]string{
	domain.StatusSchedulingRequest: "Check the requested date against the maintenance schedule, then reply " +
		"asking for the RAMS document and the names of the engineers attending.",
	domain.StatusAwaitingRamsAndEngineerNames: "Reply asking for the RAMS document and the full names of the engineers attending.",
	domain.StatusAwaitingRams:                 "Engineer names received. Reply asking for the RAMS document.",
	domain.StatusAwaitingEngineerNames:        "RAMS received. Reply asking for the full names of the engineers attending.",
	domain.StatusConversationComplete: "RAMS and engineer names received. Check the engineers' inductions " +
		"and confirm the maintenance booking.",
}

// InstructionFor returns the next action for status, matched case-insensitively.
func InstructionFor(status string) string {
	st, ok := domain.ParseStatus(status)
	if !ok {
		return FallbackInstruction
	}
	return instructions[st]
}
