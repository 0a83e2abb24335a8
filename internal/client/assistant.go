package client

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/nlp"
	"ZeroConfigAssistant/pkg/understanding"
)

type State string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
)

func (s State) Label() string {
	switch s {
	case StateListening:
		return "listening..."
	case StateProcessing:
		return "processing..."
	}
	return "waiting"
}

// Outcome is what became of one command.
type Outcome string

const (
	OutcomeActioned    Outcome = "actioned"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeOffline     Outcome = "offline"
	OutcomeFailed      Outcome = "failed"
	OutcomeNotSignedIn Outcome = "not_signed_in"
)

const (
	NotSignedInMessage  = "You are not signed in. Run `assistant login` first."
	NotListeningMessage = "Not listening. Type :start to resume."
)

type Assistant struct {
	log       *logrus.Logger
	api       API
	sessions  SessionSource
	presenter Presenter
	speaker   Speaker
	confirmer Confirmer

	mu    sync.Mutex
	state State
}

func NewAssistant(log *logrus.Logger, api API, sessions SessionSource, presenter Presenter, speaker Speaker, confirmer Confirmer) *Assistant {
	return &Assistant{
		log:       log,
		api:       api,
		sessions:  sessions,
		presenter: presenter,
		speaker:   speaker,
		confirmer: confirmer,
		state:     StateIdle,
	}
}

func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assistant) setState(state State) {
	a.mu.Lock()
	changed := a.state != state
	a.state = state
	a.mu.Unlock()

	if changed {
		a.presenter.ShowStatus(state)
	}
}

// restoreState leaves processing for previous, unless listening was toggled
// while the command was in flight.
func (a *Assistant) restoreState(previous State) {
	a.mu.Lock()
	if a.state != StateProcessing {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.setState(previous)
}

func (a *Assistant) StartListening() {
	a.setState(StateListening)
}

// StopListening only changes what happens to the next transcript. A command
// already sent to the backend runs to completion.
func (a *Assistant) StopListening() {
	a.setState(StateIdle)
}

// ProcessCommand sends one command through the backend and handles the answer:
// confirmation when confidence is low, offline fallback when the backend is
// unreachable. API errors are shown and returned.
func (a *Assistant) ProcessCommand(ctx context.Context, cmd entity.Command) (Outcome, error) {
	log := a.log.WithFields(logrus.Fields{
		"origin": cmd.Origin,
	})

	session, err := a.sessions.Load()
	if err != nil {
		log.WithError(err).Debug("[client.ProcessCommand] no usable session")
		a.presenter.ShowError(NotSignedInMessage)
		return OutcomeNotSignedIn, err
	}

	previous := a.State()
	a.setState(StateProcessing)
	defer a.restoreState(previous)

	result, err := a.api.VoiceCommand(ctx, session.Token, cmd.Text)
	if err != nil {
		if IsTransportError(err) {
			log.WithError(err).Warn("[client.ProcessCommand] backend unreachable, using offline rules")
			a.presenter.ShowError(err.Error())
			a.fallback(cmd.Text)
			return OutcomeOffline, nil
		}

		log.WithError(err).Error("[client.ProcessCommand] backend rejected command")
		a.presenter.ShowError(err.Error())
		return OutcomeFailed, err
	}

	a.presenter.ShowResult(*result)
	a.speaker.Speak(understanding.Describe(*result))

	if !understanding.NeedsConfirmation(*result) {
		return OutcomeActioned, nil
	}

	return a.confirm(ctx, *result)
}

// Analyze sends a free-form prompt. There is no offline answer for it.
func (a *Assistant) Analyze(ctx context.Context, prompt string) (*entity.AnalyzeResult, error) {
	session, err := a.sessions.Load()
	if err != nil {
		a.presenter.ShowError(NotSignedInMessage)
		return nil, err
	}

	result, err := a.api.Analyze(ctx, session.Token, prompt)
	if err != nil {
		a.presenter.ShowError(err.Error())
		return nil, err
	}

	a.presenter.ShowMessage(result.Response)
	return result, nil
}

func (a *Assistant) confirm(ctx context.Context, result entity.FinalResult) (Outcome, error) {
	prompt := understanding.ConfirmationPrompt(result)
	a.speaker.Speak(prompt)
	a.presenter.ShowPrompt(prompt)

	accepted, err := a.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return OutcomeCancelled, err
	}

	if accepted {
		a.speaker.Speak(understanding.AcceptedMessage)
		a.presenter.ShowMessage(understanding.AcceptedMessage)
		return OutcomeActioned, nil
	}

	a.speaker.Speak(understanding.CancelledMessage)
	a.presenter.ShowMessage(understanding.CancelledMessage)
	return OutcomeCancelled, nil
}

func (a *Assistant) fallback(text string) {
	result := nlp.MatchOffline(text)
	a.presenter.ShowOffline(result)
	a.speaker.Speak(result.Message)
}

// Listen feeds recognizer events through the assistant until the input ends.
// ctx is checked between events only; a Next blocked on input is not
// interrupted. Failed commands are reported and listening continues.
func (a *Assistant) Listen(ctx context.Context, rec Recognizer) error {
	a.StartListening()
	defer a.StopListening()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		event, err := rec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch event.Kind {
		case EventStart:
			a.StartListening()
		case EventStop:
			a.StopListening()
		case EventInterim:
			if a.State() == StateListening {
				a.presenter.ShowInterim(event.Text)
			}
		case EventFinal:
			if a.State() != StateListening {
				a.presenter.ShowMessage(NotListeningMessage)
				continue
			}
			outcome, err := a.ProcessCommand(ctx, entity.NewCommand(event.Text, entity.OriginVoice))
			a.log.WithFields(logrus.Fields{
				"outcome": outcome,
			}).Debug("[client.Listen] command handled")
			if err != nil && errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}
