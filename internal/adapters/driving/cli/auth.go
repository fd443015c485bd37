package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to sync favourites",
	Long: `Sign in with your estately user ID and access token.

The session is stored in ~/.estately/config.toml with owner-only
permissions. ESTATELY_USER_ID and ESTATELY_TOKEN override it.

Examples:
  estately auth login --user u-123        # prompts for the token
  estately auth login --user u-123 --token "$TOKEN"
  estately auth status
  estately auth logout`,
}

var (
	authLoginUser  string
	authLoginToken string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user",
	RunE:  runAuthStatus,
}

// readSecret reads a token without echo. Tests replace it.
var readSecret = readPassword

func init() {
	authLoginCmd.Flags().StringVarP(&authLoginUser, "user", "u", "", "user ID")
	authLoginCmd.Flags().StringVar(&authLoginToken, "token", "", "access token (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	user := strings.TrimSpace(authLoginUser)
	if user == "" {
		cmd.Print("User ID: ")
		user = readLine(cmd.InOrStdin())
	}
	token := authLoginToken
	if token == "" {
		cmd.Print("Access token (leave empty if none): ")
		token = readSecret(cmd.InOrStdin())
		cmd.Println()
	}

	if err := sessionService.Login(user, token); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if favoriteService != nil {
		if err := favoriteService.Sync(cmd.Context()); err != nil {
			cmd.Printf("Signed in as %s, but favourites could not be loaded: %v\n", user, err)
			return nil
		}
		cmd.Printf("Signed in as %s (%d favourites)\n", user, len(favoriteService.Liked()))
		return nil
	}
	cmd.Printf("Signed in as %s\n", user)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if err := sessionService.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Signed out.")
	if sessionService.Current().IsSignedIn() {
		cmd.Println("Note: ESTATELY_USER_ID is still set in the environment.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	sess := sessionService.Current()
	if !sess.IsSignedIn() {
		cmd.Println("Not signed in.")
		return nil
	}
	cmd.Printf("Signed in as %s\n", sess.UserID)
	if sess.Token != "" {
		cmd.Printf("Token: %s\n", maskToken(sess.Token))
	} else {
		cmd.Println("Token: (not set)")
	}
	return nil
}

func readLine(r io.Reader) string {
	input, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(input)
}

func readPassword(r io.Reader) string {
	// Read without echo when attached to a terminal
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(r)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
