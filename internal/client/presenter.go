package client

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/understanding"
)

const (
	ThemePlain  = "plain"
	ThemeStyled = "styled"
)

// Theme decides how each kind of line looks. The plain theme leaves text untouched.
type Theme struct {
	Name       string
	Heading    lipgloss.Style
	Label      lipgloss.Style
	Suggestion lipgloss.Style
	Prompt     lipgloss.Style
	Offline    lipgloss.Style
	Error      lipgloss.Style
	Status     lipgloss.Style
	Interim    lipgloss.Style
}

var (
	accent      = lipgloss.Color("#8BC34A")
	primary     = lipgloss.Color("#2196F3")
	warning     = lipgloss.Color("#FFC107")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#7a8599")
)

func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name:       ThemePlain,
		Heading:    s,
		Label:      s,
		Suggestion: s,
		Prompt:     s,
		Offline:    s,
		Error:      s,
		Status:     s,
		Interim:    s,
	}
}

func StyledTheme() Theme {
	return Theme{
		Name:       ThemeStyled,
		Heading:    lipgloss.NewStyle().Bold(true).Foreground(primary),
		Label:      lipgloss.NewStyle().Foreground(muted),
		Suggestion: lipgloss.NewStyle().Italic(true).Foreground(accent),
		Prompt:     lipgloss.NewStyle().Bold(true).Foreground(warning),
		Offline:    lipgloss.NewStyle().Foreground(warning),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(destructive),
		Status:     lipgloss.NewStyle().Foreground(accent),
		Interim:    lipgloss.NewStyle().Faint(true),
	}
}

func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", ThemePlain:
		return PlainTheme(), nil
	case ThemeStyled:
		return StyledTheme(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (want %s or %s)", name, ThemePlain, ThemeStyled)
}

type Presenter interface {
	ShowResult(r entity.FinalResult)
	ShowOffline(r entity.OfflineResult)
	ShowPrompt(text string)
	ShowMessage(text string)
	ShowError(text string)
	ShowStatus(state State)
	ShowInterim(text string)
}

type terminalPresenter struct {
	out   io.Writer
	theme Theme
}

func NewPresenter(out io.Writer, theme Theme) Presenter {
	return &terminalPresenter{out: out, theme: theme}
}

func (p *terminalPresenter) ShowResult(r entity.FinalResult) {
	p.line(p.theme.Heading.Render(understanding.CommandLabel(r.CommandType)))

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p.line(fmt.Sprintf("  %s %s", p.theme.Label.Render(understanding.ParamLabel(k)+":"), understanding.FormatValue(r.Params[k])))
	}

	if len(r.Suggestions) > 0 {
		p.line(p.theme.Label.Render("Suggestions:"))
		for _, s := range r.Suggestions {
			p.line("  - " + p.theme.Suggestion.Render(s))
		}
	}
}

func (p *terminalPresenter) ShowOffline(r entity.OfflineResult) {
	p.line(p.theme.Offline.Render("[offline] " + understanding.CommandLabel(r.CommandType)))
	p.line(r.Message)
}

func (p *terminalPresenter) ShowPrompt(text string) {
	p.line(p.theme.Prompt.Render(text) + " [y/n]")
}

func (p *terminalPresenter) ShowMessage(text string) {
	p.line(text)
}

func (p *terminalPresenter) ShowError(text string) {
	p.line(p.theme.Error.Render("Error: " + text))
}

func (p *terminalPresenter) ShowStatus(state State) {
	p.line(p.theme.Status.Render("(" + state.Label() + ")"))
}

func (p *terminalPresenter) ShowInterim(text string) {
	p.line(p.theme.Interim.Render("… " + text))
}

func (p *terminalPresenter) line(s string) {
	fmt.Fprintln(p.out, s)
}
