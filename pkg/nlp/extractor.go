package nlp

import (
	"strconv"
	"strings"

	"ZeroConfigAssistant/internal/entity"
)

// Extract classifies text with fixed keyword rules. It never fails: text that
// matches no rule yields an empty command type and empty params.
//
// Rules are tried in order and the first one that matches wins:
// email summary, calendar block, calendar event.
func Extract(text string) entity.Classification {
	folded := fold(text)

	switch {
	case isEmailSummary(folded):
		return entity.Classification{
			CommandType: entity.CommandEmailSummary,
			Params:      extractEmailSummary(text),
		}
	case blockShape.MatchString(folded):
		return entity.Classification{
			CommandType: entity.CommandCalendarBlock,
			Params:      extractCalendarBlock(text, folded),
		}
	case isCalendarEvent(folded):
		return entity.Classification{
			CommandType: entity.CommandCalendarEvent,
			Params:      extractCalendarEvent(text, folded),
		}
	}

	return entity.Classification{CommandType: "", Params: entity.Params{}}
}

func isEmailSummary(folded string) bool {
	for _, cue := range emailSummaryCues {
		if strings.Contains(folded, cue) {
			return true
		}
	}
	return false
}

func isCalendarEvent(folded string) bool {
	return eventType(folded) != "" && eventConnector.MatchString(folded)
}

func extractEmailSummary(text string) entity.Params {
	params := entity.Params{}

	if m := fromCapture.FindStringSubmatch(text); m != nil {
		if from := strings.TrimSpace(m[1]); from != "" {
			params["from"] = from
		}
	}

	return params
}

func extractCalendarBlock(text, folded string) entity.Params {
	params := entity.Params{}

	if m := blockDuration.FindStringSubmatch(folded); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil {
			params["duration"] = hours
		}
	}

	if project := projectName(text); project != "" {
		params["project"] = project
	}

	if date := relativeDate(folded); date != "" {
		params["date"] = date
	}

	if reminder := reminderChannel(folded); reminder != "" {
		params["reminder"] = reminder
	}

	return params
}

func extractCalendarEvent(text, folded string) entity.Params {
	params := entity.Params{
		"eventType": eventType(folded),
	}

	if m := participantsCapture.FindStringSubmatch(text); m != nil {
		if participants := strings.TrimSpace(m[1]); participants != "" {
			params["participants"] = participants
		}

		var emails []string
		for _, email := range strings.Split(m[2], ",") {
			if email = strings.TrimSpace(email); email != "" {
				emails = append(emails, email)
			}
		}
		if len(emails) > 0 {
			params["emails"] = emails
		}
	}

	if date := relativeDate(folded); date != "" {
		params["date"] = date
	}

	switch {
	case noonKeyword.MatchString(folded):
		params["time"] = "12:00"
	case eveningKeyword.MatchString(folded):
		params["time"] = "19:00"
	}

	for _, day := range weekdays {
		if day.pattern.MatchString(folded) {
			params["weekday"] = day.name
			break
		}
	}

	return params
}

// projectName reads the words after "pour le projet" / "for the project" up to
// the first stop word.
func projectName(text string) string {
	m := projectCapture.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	var words []string
	for _, word := range strings.Fields(m[1]) {
		if projectStopWords[fold(word)] {
			break
		}
		words = append(words, word)
	}

	return strings.Join(words, " ")
}

func relativeDate(folded string) string {
	switch {
	case tomorrowKeyword.MatchString(folded):
		return "tomorrow"
	case todayKeyword.MatchString(folded):
		return "today"
	}
	return ""
}

func reminderChannel(folded string) string {
	m := reminderChannelCapture.FindStringSubmatch(folded)
	if m == nil {
		return ""
	}

	channel := m[1]
	if channel == "" {
		channel = m[2]
	}
	if channel == "sms" {
		return "sms"
	}
	return "email"
}

func eventType(folded string) string {
	for _, kw := range eventKeywords {
		if kw.pattern.MatchString(folded) {
			return kw.eventType
		}
	}
	return ""
}
