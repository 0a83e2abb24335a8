package client

import (
	"bufio"
	"strings"
)

type EventKind int

const (
	EventFinal EventKind = iota
	EventInterim
	EventStart
	EventStop
)

// Event is one thing the recognizer heard.
type Event struct {
	Kind EventKind
	Text string
}

// Recognizer stands in for a speech engine. Next blocks until the next event
// and returns io.EOF when the input is exhausted.
type Recognizer interface {
	Next() (Event, error)
}

const (
	interimPrefix = "~"
	startCommand  = ":start"
	stopCommand   = ":stop"
)

type lineRecognizer struct {
	in *bufio.Reader
}

// NewLineRecognizer turns input lines into events. A plain line is a final
// transcript, a line starting with "~" is an interim one, and ":start" /
// ":stop" toggle listening. Blank lines are skipped.
func NewLineRecognizer(in *bufio.Reader) Recognizer {
	return &lineRecognizer{in: in}
}

func (r *lineRecognizer) Next() (Event, error) {
	for {
		line, err := r.in.ReadString('\n')
		text := strings.TrimSpace(line)

		if text != "" {
			return parseLine(text), nil
		}
		if err != nil {
			return Event{}, err
		}
	}
}

func parseLine(text string) Event {
	switch {
	case strings.EqualFold(text, startCommand):
		return Event{Kind: EventStart}
	case strings.EqualFold(text, stopCommand):
		return Event{Kind: EventStop}
	case strings.HasPrefix(text, interimPrefix):
		return Event{Kind: EventInterim, Text: strings.TrimSpace(strings.TrimPrefix(text, interimPrefix))}
	}
	return Event{Kind: EventFinal, Text: text}
}
