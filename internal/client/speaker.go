package client

import (
	"fmt"
	"io"
)

// Speaker stands in for speech synthesis.
type Speaker interface {
	Speak(text string)
}

type textSpeaker struct {
	out io.Writer
}

// NewTextSpeaker "speaks" by writing the utterance to out.
func NewTextSpeaker(out io.Writer) Speaker {
	return &textSpeaker{out: out}
}

func (s *textSpeaker) Speak(text string) {
	fmt.Fprintf(s.out, "» %s\n", text)
}

type nopSpeaker struct{}

func NewNopSpeaker() Speaker { return nopSpeaker{} }

func (nopSpeaker) Speak(string) {}
