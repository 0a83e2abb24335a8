package entity

import "time"

type CommandOrigin string

const (
	OriginVoice CommandOrigin = "voice"
	OriginTyped CommandOrigin = "typed"
)

// Command is one captured user utterance.
type Command struct {
	Text        string        `json:"text"`
	Origin      CommandOrigin `json:"origin"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

func NewCommand(text string, origin CommandOrigin) Command {
	return Command{
		Text:        text,
		Origin:      origin,
		SubmittedAt: time.Now(),
	}
}

const (
	CommandEmailSummary  = "email_summary"
	CommandCalendarBlock = "calendar_block"
	CommandCalendarEvent = "calendar_event"
	CommandUnknown       = "unknown"
)

// Params maps parameter names to values. Values are strings except
// "duration" (int hours) and "emails" ([]string).
type Params map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String returns the string value stored under key, or "" when absent or not a string.
func (p Params) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Classification is the provisional, rule-based guess for a command.
type Classification struct {
	CommandType string `json:"commandType"`
	Params      Params `json:"params"`
}

// Enrichment is the JSON shape the language model is asked to return.
type Enrichment struct {
	CommandType string   `json:"commandType"`
	Params      Params   `json:"params"`
	Suggestions []string `json:"suggestions"`
	Confidence  *float64 `json:"confidence"`
}

// FinalResult is what the voice-command route returns.
type FinalResult struct {
	CommandType string   `json:"commandType"`
	Params      Params   `json:"params"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
	Processed   bool     `json:"processed"`
}

const (
	SourceGemini   = "gemini"
	SourceOpenAI   = "openai"
	SourceFallback = "fallback"
)

// AnalyzeResult is the raw model reply and where it came from.
type AnalyzeResult struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

// OfflineResult is produced locally when the backend cannot be reached.
type OfflineResult struct {
	CommandType string `json:"commandType"`
	Params      Params `json:"params"`
	Message     string `json:"message"`
	Offline     bool   `json:"offline"`
}
