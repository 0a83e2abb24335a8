package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"ZeroConfigAssistant/internal/client"
	"ZeroConfigAssistant/internal/entity"
	"ZeroConfigAssistant/pkg/google"
	jwtPkg "ZeroConfigAssistant/pkg/jwt"
	"ZeroConfigAssistant/pkg/utils"
)

const verifyTimeout = 10 * time.Second

var (
	loginToken  string
	clientID    string
	redirectURL string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a Google ID token",
	Long: `Sign in with Google.

Without --token the Google consent URL is printed; open it, finish the sign in
and paste the ID token it returns. The token is checked against Google's
token-info endpoint before it is stored.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.NewSessionStore(sessionFile).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := client.NewSessionStore(sessionFile).Load()
		switch {
		case errors.Is(err, client.ErrNotSignedIn):
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		case errors.Is(err, client.ErrSessionExpired):
			fmt.Fprintln(cmd.OutOrStdout(), "Session expired. Run `assistant login` again.")
			return nil
		case err != nil:
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (expires %s)\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <text...>",
	Short: "Send one typed command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		assistant, err := newAssistant(cmd, in)
		if err != nil {
			return err
		}

		_, err = assistant.ProcessCommand(cmd.Context(), entity.NewCommand(strings.Join(args, " "), entity.OriginTyped))
		return err
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <prompt...>",
	Short: "Send a free-form prompt to the model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, err := newAssistant(cmd, bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return err
		}

		_, err = assistant.Analyze(cmd.Context(), strings.Join(args, " "))
		return err
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Continuous mode: every input line is a spoken command",
	Long: `Continuous mode. Each input line is treated as a final transcript.
Lines starting with "~" are interim transcripts and are only displayed.
":stop" pauses listening and ":start" resumes it. End input to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		assistant, err := newAssistant(cmd, in)
		if err != nil {
			return err
		}

		err = assistant.Listen(cmd.Context(), client.NewLineRecognizer(in))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Google ID token (skips the consent URL)")
	loginCmd.Flags().StringVar(&clientID, "client-id", os.Getenv("GOOGLE_CLIENT_ID"), "Google OAuth client ID")
	loginCmd.Flags().StringVar(&redirectURL, "redirect-url", envOr("ASSISTANT_REDIRECT_URL", defaultAPIURL), "OAuth redirect URL registered for the client")
}

// newAssistant wires the client for one command. Confirmation answers and
// transcripts share the same reader.
func newAssistant(cmd *cobra.Command, in *bufio.Reader) (*client.Assistant, error) {
	theme, err := client.ThemeByName(themeName)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()

	return client.NewAssistant(
		logger,
		client.NewAPI(apiURL, nil),
		client.NewSessionStore(sessionFile),
		client.NewPresenter(out, theme),
		client.NewTextSpeaker(out),
		client.NewLineConfirmer(in, out),
	), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	token := strings.TrimSpace(loginToken)
	if token == "" {
		if clientID == "" {
			return errors.New("--client-id (or GOOGLE_CLIENT_ID) is required to build the sign in URL")
		}

		state, err := utils.New().NewULIDFromTimestamp(time.Now())
		if err != nil {
			return fmt.Errorf("failed to create login state: %w", err)
		}

		fmt.Fprintln(out, "Open this URL and sign in with Google:")
		fmt.Fprintln(out, google.LoginURL(clientID, redirectURL, state))
		fmt.Fprint(out, "Paste the ID token: ")

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return fmt.Errorf("no token read: %w", err)
		}
		token = strings.TrimSpace(line)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	var opts []option.ClientOption
	if endpoint := os.Getenv("GOOGLE_TOKENINFO_ENDPOINT"); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	verifier, err := google.NewVerifier(ctx, opts...)
	if err != nil {
		return err
	}

	info, err := verifier.Verify(ctx, token)
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt, err := jwtPkg.ExpiryFromIDToken(token, now)
	if err != nil {
		logger.WithError(err).Debug("[assistant.login] using default session lifetime")
	}

	email := info.Email
	if email == "" {
		email = jwtPkg.EmailFromIDToken(token)
	}

	session := entity.AuthSession{
		Token:        token,
		Email:        email,
		ExpiresAt:    expiresAt,
		AuthProvider: entity.AuthProviderGoogle,
	}

	if err := client.NewSessionStore(sessionFile).Save(session); err != nil {
		return err
	}

	fmt.Fprintf(out, "Signed in as %s.\n", email)
	return nil
}
