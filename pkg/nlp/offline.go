package nlp

import (
	"strings"

	"ZeroConfigAssistant/internal/entity"
)

const (
	OfflineEmailMessage    = "Offline mode: I can't access your emails right now."
	OfflineCalendarMessage = "Offline mode: I can't access your calendar right now."
	OfflineUnknownMessage  = "Offline mode: command not recognized locally."
)

// MatchOffline is the coarse classifier used when the backend is unreachable.
// It only names the command family and never extracts parameters.
func MatchOffline(text string) entity.OfflineResult {
	folded := fold(text)

	result := entity.OfflineResult{
		CommandType: entity.CommandUnknown,
		Params:      entity.Params{},
		Message:     OfflineUnknownMessage,
		Offline:     true,
	}

	switch {
	case offlineSummaryVerb.MatchString(folded) && strings.Contains(folded, "email"):
		result.CommandType = entity.CommandEmailSummary
		result.Message = OfflineEmailMessage
	case offlineBlockVerb.MatchString(folded) && offlineBlockFor.MatchString(folded):
		result.CommandType = entity.CommandCalendarBlock
		result.Message = OfflineCalendarMessage
	}

	return result
}
