// ABOUTME: Account commands: register, login, logout, whoami
// ABOUTME: Prompts for missing credentials and keeps the session in the config dir

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/models"
	"github.com/spf13/cobra"
)

var (
	emailFlag    string
	passwordFlag string
	confirmFlag  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a new account. Passwords must be at least 6 characters.

Registration does not sign you in; run 'todoctl login' afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		in := credentialsInput{Email: emailFlag, Password: passwordFlag, Confirm: confirmFlag}
		if in.Password != "" && !cmd.Flags().Changed("confirm") {
			in.Confirm = in.Password
		}
		if exitCode := runRegister(ctx, os.Stdout, in); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		in := credentialsInput{Email: emailFlag, Password: passwordFlag}
		if exitCode := runLogin(ctx, os.Stdout, in); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user as the backend sees it",
	Long:  `Fetch the current user from the backend and refresh the cached profile.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runWhoami(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&emailFlag, "email", "", "Account email (prompted if omitted)")
		c.Flags().StringVar(&passwordFlag, "password", "", "Account password (prompted if omitted)")
	}
	registerCmd.Flags().StringVar(&confirmFlag, "confirm", "", "Password confirmation (defaults to --password)")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}

// runRegister creates an account and returns exit code
func runRegister(ctx context.Context, w io.Writer, in credentialsInput) int {
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}

	auth := controller.NewAuth(a.client.Auth, a.store)
	if err := auth.Activate(); err != nil {
		return fail(w, err)
	}
	if err := askCredentials(&in, true, nil); err != nil {
		return fail(w, err)
	}

	user, err := auth.Register(ctx, controller.RegisterForm{Email: in.Email, Password: in.Password, Confirm: in.Confirm})
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, user)
	} else {
		fmt.Fprintf(w, "Registered %s (id %d). Run 'todoctl login' to sign in.\n", user.Email, user.ID)
	}
	return exitOK
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, in credentialsInput) int {
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}

	auth := controller.NewAuth(a.client.Auth, a.store)
	if err := auth.Activate(); err != nil {
		return fail(w, err)
	}
	if err := askCredentials(&in, false, a.recent.List()); err != nil {
		return fail(w, err)
	}

	user, err := auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		return fail(w, err)
	}
	if err := a.recent.Add(user.Email); err != nil {
		slog.Debug("Failed to record recent account", "error", err)
	}

	if IsJSONOutput() {
		writeJSON(w, user)
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", user.Email, user.Role())
	}
	return exitOK
}

// runLogout clears the session and returns exit code
func runLogout(w io.Writer) int {
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}

	if err := controller.NewAuth(a.client.Auth, a.store).Logout(); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]bool{"authenticated": false})
	} else {
		fmt.Fprintln(w, "Logged out")
	}
	return exitOK
}

// runWhoami re-validates the session and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}

	user, err := controller.NewAuth(a.client.Auth, a.store).Refresh(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, user)
	} else {
		fmt.Fprintln(w, formatUserHuman(user))
	}
	return exitOK
}

// formatUserHuman formats a user record for human readability
func formatUserHuman(u *models.User) string {
	return fmt.Sprintf(`ID:       %d
Email:    %s
Role:     %s
Created:  %s`, u.ID, u.Email, u.Role(), formatTime(u.CreatedAt))
}
