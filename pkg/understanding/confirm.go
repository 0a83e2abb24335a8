package understanding

import "ZeroConfigAssistant/internal/entity"

// ConfirmationThreshold is the lowest confidence accepted without asking the user.
const ConfirmationThreshold = 0.7

const (
	ConfirmationLead   = "I'm not sure I understood. Do you want this? "
	AcceptedMessage    = "Okay, I'll take care of it."
	CancelledMessage   = "Okay, I'm cancelling this action."
	DefaultDescription = "Command processed successfully."
)

func NeedsConfirmation(r entity.FinalResult) bool {
	return r.Confidence < ConfirmationThreshold
}

func ConfirmationPrompt(r entity.FinalResult) string {
	return ConfirmationLead + Describe(r)
}
