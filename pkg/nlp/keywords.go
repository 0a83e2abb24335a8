package nlp

import "regexp"

// Every pattern below runs on folded text unless its name ends in "Capture".
var (
	emailSummaryCues = []string{
		"resume mes emails",
		"resumer mes emails",
		"summarize my emails",
		"summarise my emails",
	}

	fromCapture = regexp.MustCompile(`(?i)(?:^|\s)(?:de|from)\s+([\p{L}\p{N}\s]+?)[\s.!?]*$`)

	blockShape    = regexp.MustCompile(`(?:bloque.*h.*pour|block.*h.*for)`)
	blockDuration = regexp.MustCompile(`\b(?:bloque|block)\s+(\d+)\s*h`)

	projectCapture = regexp.MustCompile(`(?i)(?:pour\s+le\s+projet|for\s+(?:the\s+)?project)\s+([\p{L}\p{N}\s]+)`)

	// A project name ends at the first of these words.
	projectStopWords = map[string]bool{
		"demain": true, "aujourd": true, "aujourdhui": true,
		"tomorrow": true, "today": true,
		"avec": true, "with": true,
		"rappel": true, "reminder": true,
		"et": true, "and": true,
	}

	tomorrowKeyword = regexp.MustCompile(`\b(?:demain|tomorrow)\b`)
	todayKeyword    = regexp.MustCompile(`\b(?:aujourd'?hui|today)\b`)

	// The channel must sit next to the cue: "rappel sms", "sms reminder".
	reminderChannelCapture = regexp.MustCompile(`\b(?:(?:rappel|reminder)\s+(sms|e-?mail)|(sms|e-?mail)\s+reminder)\b`)

	eventConnector = regexp.MustCompile(`\b(?:avec|with)\b`)
	noonKeyword    = regexp.MustCompile(`\b(?:midi|noon)\b`)
	eveningKeyword = regexp.MustCompile(`\b(?:soir|evening)\b`)

	participantsCapture = regexp.MustCompile(`(?i)\b(?:avec|with)\s+([^(]+)\(([^)]+)\)`)

	offlineSummaryVerb = regexp.MustCompile(`\b(?:resumer?|summari[sz]e)\b`)
	offlineBlockVerb   = regexp.MustCompile(`\b(?:bloque|block)\b`)
	offlineBlockFor    = regexp.MustCompile(`\b(?:pour|for)\b`)
)

type eventKeyword struct {
	pattern   *regexp.Regexp
	eventType string
}

// Checked in order, the first hit names the event type.
var eventKeywords = []eventKeyword{
	{regexp.MustCompile(`\b(?:dejeuner|lunch)\b`), "lunch"},
	{regexp.MustCompile(`\b(?:diner|dinner)\b`), "dinner"},
	{regexp.MustCompile(`\b(?:rendez-vous|rendez vous|appointment)\b`), "meeting"},
	{regexp.MustCompile(`\b(?:reunion|meeting)\b`), "meeting"},
}

type weekday struct {
	name    string
	pattern *regexp.Regexp
}

// Fixed Monday..Sunday order: the first day in this list that appears wins,
// regardless of where it sits in the sentence.
var weekdays = []weekday{
	{"monday", regexp.MustCompile(`\b(?:lundi|monday)\b`)},
	{"tuesday", regexp.MustCompile(`\b(?:mardi|tuesday)\b`)},
	{"wednesday", regexp.MustCompile(`\b(?:mercredi|wednesday)\b`)},
	{"thursday", regexp.MustCompile(`\b(?:jeudi|thursday)\b`)},
	{"friday", regexp.MustCompile(`\b(?:vendredi|friday)\b`)},
	{"saturday", regexp.MustCompile(`\b(?:samedi|saturday)\b`)},
	{"sunday", regexp.MustCompile(`\b(?:dimanche|sunday)\b`)},
}
