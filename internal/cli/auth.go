package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/session"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the local login session",
		Long: `Manage the login session used when sharing diagrams through a
sketchgraph server.

Your session is stored in ~/.config/sketchgraph/sessions/`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authWhoamiCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var (
		name  string
		email string
		token string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Create a local login session",
		Long: `Create a local login session with a name and an access token for
the diagram server. Missing values are prompted for.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cliStore, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}

			if existing, err := cliStore.Current(ctx); err == nil && existing != nil {
				printInfo("Already logged in as %s", existing.User.Name)
				printDetail("Run 'sketchgraph auth logout' first to re-authenticate")
				return nil
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if name == "" {
				if name, err = promptLine(reader, "Name"); err != nil {
					return err
				}
			}
			if token == "" {
				if token, err = promptLine(reader, "Token"); err != nil {
					return err
				}
			}
			if name == "" || token == "" {
				return fmt.Errorf("name and token are required")
			}

			sess, err := cliStore.Login(ctx, token, session.User{Name: name, Email: email})
			if err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			printSuccess("Logged in as %s", sess.User.Name)
			printDetail("Session expires %s", sess.ExpiresAt.Format("Jan 2, 2006"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address (optional)")
	cmd.Flags().StringVar(&token, "token", "", "server access token")

	return cmd
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored login session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliStore, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := cliStore.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// authWhoamiCommand creates the whoami subcommand.
func (c *CLI) authWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current login session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliStore, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}

			sess, err := cliStore.Current(cmd.Context())
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			if sess == nil {
				return fmt.Errorf("not logged in (run 'sketchgraph auth login' first)")
			}

			printSuccess("Login Session")
			printKeyValue("Name", sess.User.Name)
			if sess.User.Email != "" {
				printKeyValue("Email", sess.User.Email)
			}
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			return nil
		},
	}
}

func promptLine(r *bufio.Reader, label string) (string, error) {
	printInline("%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr)
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
