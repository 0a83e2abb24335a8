package understanding

import (
	"fmt"
	"strings"

	"ZeroConfigAssistant/internal/entity"
)

var commandLabels = map[string]string{
	entity.CommandEmailSummary:  "Email summary",
	entity.CommandCalendarBlock: "Calendar block",
	entity.CommandCalendarEvent: "Calendar event",
	entity.CommandUnknown:       "Unknown command",
}

var paramLabels = map[string]string{
	"from":         "From",
	"duration":     "Duration (hours)",
	"project":      "Project",
	"date":         "Date",
	"reminder":     "Reminder",
	"eventType":    "Event type",
	"participants": "Participants",
	"emails":       "Emails",
	"time":         "Time",
	"weekday":      "Day",
}

// CommandLabel returns a display name for a command type. Unknown types are returned unchanged.
func CommandLabel(commandType string) string {
	if commandType == "" {
		return commandLabels[entity.CommandUnknown]
	}
	if label, ok := commandLabels[commandType]; ok {
		return label
	}
	return commandType
}

func ParamLabel(name string) string {
	if label, ok := paramLabels[name]; ok {
		return label
	}
	return name
}

// Describe renders a one sentence summary of what the assistant is about to do.
func Describe(r entity.FinalResult) string {
	switch r.CommandType {
	case entity.CommandEmailSummary:
		if from := r.Params.String("from"); from != "" {
			return fmt.Sprintf("I will summarize your emails from %s.", from)
		}
		return "I will summarize your emails."

	case entity.CommandCalendarBlock:
		var sb strings.Builder
		sb.WriteString("I will block ")
		if duration := FormatValue(r.Params["duration"]); duration != "" {
			sb.WriteString(duration)
			sb.WriteString(" hours")
		} else {
			sb.WriteString("time")
		}
		if date := r.Params.String("date"); date != "" {
			sb.WriteString(" on ")
			sb.WriteString(date)
		}
		if project := r.Params.String("project"); project != "" {
			sb.WriteString(" for project ")
			sb.WriteString(project)
		}
		sb.WriteString(".")
		return sb.String()

	case entity.CommandCalendarEvent:
		eventType := r.Params.String("eventType")
		if eventType == "" {
			eventType = "event"
		}
		when := r.Params.String("weekday")
		if when == "" {
			when = r.Params.String("date")
		}
		if when == "" {
			when = "soon"
		}
		if participants := r.Params.String("participants"); participants != "" {
			return fmt.Sprintf("I will create a %s with %s for %s.", eventType, participants, when)
		}
		return fmt.Sprintf("I will create a %s for %s.", eventType, when)
	}

	return DefaultDescription
}

// FormatValue renders a param value for display. Nil renders as "".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
