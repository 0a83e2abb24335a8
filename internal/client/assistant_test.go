package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/nlp"
	"ZeroConfigAssistant/pkg/understanding"
)

type fakeAPI struct {
	result   *entity.FinalResult
	analyze  *entity.AnalyzeResult
	err      error
	commands []string
	tokens   []string
}

func (f *fakeAPI) VoiceCommand(_ context.Context, token, command string) (*entity.FinalResult, error) {
	f.commands = append(f.commands, command)
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

func (f *fakeAPI) Analyze(_ context.Context, token, _ string) (*entity.AnalyzeResult, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.analyze, nil
}

type fakeSessions struct {
	session *entity.AuthSession
	err     error
}

func (f *fakeSessions) Load() (*entity.AuthSession, error) {
	return f.session, f.err
}

type recordingPresenter struct {
	results  []entity.FinalResult
	offline  []entity.OfflineResult
	prompts  []string
	messages []string
	errors   []string
	states   []State
	interim  []string
}

func (p *recordingPresenter) ShowResult(r entity.FinalResult)    { p.results = append(p.results, r) }
func (p *recordingPresenter) ShowOffline(r entity.OfflineResult) { p.offline = append(p.offline, r) }
func (p *recordingPresenter) ShowPrompt(text string)             { p.prompts = append(p.prompts, text) }
func (p *recordingPresenter) ShowMessage(text string)            { p.messages = append(p.messages, text) }
func (p *recordingPresenter) ShowError(text string)              { p.errors = append(p.errors, text) }
func (p *recordingPresenter) ShowStatus(state State)             { p.states = append(p.states, state) }
func (p *recordingPresenter) ShowInterim(text string)            { p.interim = append(p.interim, text) }

type recordingSpeaker struct {
	said []string
}

func (s *recordingSpeaker) Speak(text string) { s.said = append(s.said, text) }

type scriptedConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *scriptedConfirmer) Confirm(context.Context, string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

type fixture struct {
	assistant *Assistant
	api       *fakeAPI
	presenter *recordingPresenter
	speaker   *recordingSpeaker
	confirmer *scriptedConfirmer
}

func newFixture(api *fakeAPI, sessions SessionSource, confirm bool) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		api:       api,
		presenter: &recordingPresenter{},
		speaker:   &recordingSpeaker{},
		confirmer: &scriptedConfirmer{answer: confirm},
	}
	f.assistant = NewAssistant(logger, api, sessions, f.presenter, f.speaker, f.confirmer)
	return f
}

func signedIn() SessionSource {
	return &fakeSessions{session: &entity.AuthSession{
		Token:     "id-token",
		Email:     "owner@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
}

var blockResult = entity.FinalResult{
	CommandType: entity.CommandCalendarBlock,
	Params:      entity.Params{"duration": 2, "project": "Apollo", "date": "tomorrow"},
	Suggestions: []string{},
	Confidence:  0.9,
	Processed:   true,
}

func TestConfidentResultIsActioned(t *testing.T) {
	f := newFixture(&fakeAPI{result: &blockResult}, signedIn(), false)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("bloque 2h pour le projet Apollo demain", entity.OriginTyped))

	require.NoError(t, err)
	assert.Equal(t, OutcomeActioned, outcome)
	assert.Equal(t, []string{"id-token"}, f.api.tokens)
	assert.Len(t, f.presenter.results, 1)
	assert.Equal(t, []string{"I will block 2 hours on tomorrow for project Apollo."}, f.speaker.said)
	assert.Zero(t, f.confirmer.asked)
	assert.Equal(t, StateIdle, f.assistant.State())
}

func TestLowConfidenceAccepted(t *testing.T) {
	low := blockResult
	low.Confidence = 0.3
	f := newFixture(&fakeAPI{result: &low}, signedIn(), true)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("bloque 2h pour x", entity.OriginTyped))

	require.NoError(t, err)
	assert.Equal(t, OutcomeActioned, outcome)
	assert.Equal(t, 1, f.confirmer.asked)
	assert.Equal(t, []string{understanding.ConfirmationPrompt(low)}, f.presenter.prompts)
	assert.Equal(t, understanding.AcceptedMessage, f.speaker.said[len(f.speaker.said)-1])
}

func TestLowConfidenceRejectedDoesNotRerun(t *testing.T) {
	low := blockResult
	low.Confidence = 0.699
	f := newFixture(&fakeAPI{result: &low}, signedIn(), false)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("bloque 2h pour x", entity.OriginTyped))

	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Len(t, f.api.commands, 1)
	assert.Equal(t, understanding.CancelledMessage, f.speaker.said[len(f.speaker.said)-1])
	assert.Equal(t, []string{understanding.CancelledMessage}, f.presenter.messages)
}

func TestTransportErrorFallsBackOffline(t *testing.T) {
	api := &fakeAPI{err: &TransportError{Err: errors.New("connection refused")}}
	f := newFixture(api, signedIn(), false)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("Résume mes emails", entity.OriginVoice))

	require.NoError(t, err)
	assert.Equal(t, OutcomeOffline, outcome)
	require.Len(t, f.presenter.offline, 1)
	assert.Equal(t, entity.CommandEmailSummary, f.presenter.offline[0].CommandType)
	assert.Equal(t, []string{nlp.OfflineEmailMessage}, f.speaker.said)
	assert.Len(t, f.presenter.errors, 1)
}

func TestAPIErrorIsShownNotFallback(t *testing.T) {
	api := &fakeAPI{err: &APIError{Status: 403, Message: "Forbidden"}}
	f := newFixture(api, signedIn(), false)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("Résume mes emails", entity.OriginVoice))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Empty(t, f.presenter.offline)
	assert.Equal(t, []string{"API error: 403 Forbidden"}, f.presenter.errors)
}

func TestNotSignedInSkipsBackend(t *testing.T) {
	f := newFixture(&fakeAPI{result: &blockResult}, &fakeSessions{err: ErrNotSignedIn}, false)

	outcome, err := f.assistant.ProcessCommand(context.Background(), entity.NewCommand("x", entity.OriginTyped))

	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, OutcomeNotSignedIn, outcome)
	assert.Empty(t, f.api.commands)
	assert.Equal(t, []string{NotSignedInMessage}, f.presenter.errors)
}

func TestAnalyzeShowsResponse(t *testing.T) {
	api := &fakeAPI{analyze: &entity.AnalyzeResult{Response: "Hello", Source: entity.SourceGemini}}
	f := newFixture(api, signedIn(), false)

	result, err := f.assistant.Analyze(context.Background(), "Say hello")

	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Response)
	assert.Equal(t, []string{"Hello"}, f.presenter.messages)
}

func TestListenTogglesAndProcessesFinals(t *testing.T) {
	f := newFixture(&fakeAPI{result: &blockResult}, signedIn(), false)
	input := strings.Join([]string{
		"~ bloque",
		"bloque 2h pour le projet Apollo",
		":stop",
		"ignored while stopped",
		"~ also ignored",
		":start",
		"bloque 3h pour le projet Zeus",
	}, "\n")

	err := f.assistant.Listen(context.Background(), NewLineRecognizer(bufio.NewReader(strings.NewReader(input))))

	require.NoError(t, err)
	assert.Equal(t, []string{"bloque 2h pour le projet Apollo", "bloque 3h pour le projet Zeus"}, f.api.commands)
	assert.Equal(t, []string{"bloque"}, f.presenter.interim)
	assert.Equal(t, []string{NotListeningMessage}, f.presenter.messages)
	assert.Equal(t, StateIdle, f.assistant.State())
	assert.Equal(t, []State{
		StateListening, StateProcessing, StateListening,
		StateIdle,
		StateListening, StateProcessing, StateListening,
		StateIdle,
	}, f.presenter.states)
}

func TestListenStopsOnCanceledContext(t *testing.T) {
	f := newFixture(&fakeAPI{result: &blockResult}, signedIn(), false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.assistant.Listen(ctx, NewLineRecognizer(bufio.NewReader(strings.NewReader("bloque 2h pour x\n"))))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.api.commands)
}
