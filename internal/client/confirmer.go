package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user to accept or reject a low-confidence result.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

var (
	yesAnswers = map[string]bool{"y": true, "yes": true, "o": true, "oui": true}
	noAnswers  = map[string]bool{"n": true, "no": true, "non": true}
)

const maxConfirmAttempts = 3

type lineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer reads yes/no answers from in. Only an explicit yes accepts;
// end of input counts as a refusal.
func NewLineConfirmer(in *bufio.Reader, out io.Writer) Confirmer {
	return &lineConfirmer{in: in, out: out}
}

func (c *lineConfirmer) Confirm(ctx context.Context, _ string) (bool, error) {
	for attempt := 0; attempt < maxConfirmAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))

		switch {
		case yesAnswers[answer]:
			return true, nil
		case noAnswers[answer]:
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		fmt.Fprintln(c.out, "Please answer yes or no.")
	}

	return false, nil
}
