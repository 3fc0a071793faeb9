package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/forms"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the logistics API",
		Long: "Sign in with a user code and password. The session is stored in the data\n" +
			"directory and shared with 'shipdesk serve'. Prompts for missing values; the\n" +
			"password is read without echo when stdin is a terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, pass, err := promptCredentials(cmd, username, password)
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app.App) error {
				sess, err := a.Auth(printer(cmd)).Login(cmd.Context(), forms.LoginForm{Username: user, Password: pass})
				if fe, ok := forms.AsFieldErrors(err); ok {
					for _, field := range fe.Fields() {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, fe.Get(field))
					}
					return errors.New("invalid input")
				}
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.User.DisplayName(), sess.User.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "User code (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted; visible in shell history)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := a.Auth(printer(cmd)).Logout(cmd.Context()); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

// promptCredentials fills in missing values from stdin.
func promptCredentials(cmd *cobra.Command, username, password string) (string, string, error) {
	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)
	out := cmd.ErrOrStderr()

	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := readLine(reader)
		if err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		username = line
	}

	if password == "" {
		fmt.Fprint(out, "Password: ")
		if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", "", fmt.Errorf("read password: %w", err)
			}
			password = string(b)
		} else {
			line, err := readLine(reader)
			if err != nil {
				return "", "", fmt.Errorf("read password: %w", err)
			}
			password = line
		}
	}

	return username, password, nil
}

// readLine returns one line without its terminator. A final line without a
// newline is accepted; EOF yields "".
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
