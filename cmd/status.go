// ABOUTME: Status command for the todoctl CLI
// ABOUTME: Shows local session state and the token's claims without contacting the backend

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/models"
	"github.com/spf13/cobra"
)

var requireAdmin bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session state",
	Long: `Display whether a session is stored, who it belongs to, and whether it is an admin session.

Token claims are decoded for display only; the signature is not verified and
expiry is enforced by the backend.

Exit codes:
  0 - Signed in (and an admin, with --require-admin)
  1 - Not signed in, or not an admin with --require-admin
  2 - Error (configuration)`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runStatus(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&requireAdmin, "require-admin", false, "Exit 1 unless the session is an admin session")
}

// tokenInfo is what can be read from a token without verifying it
type tokenInfo struct {
	Decoded   bool       `json:"decoded"`
	UserID    *int       `json:"user_id,omitempty"`
	IsAdmin   *bool      `json:"is_admin,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// statusReport is the status command's output
type statusReport struct {
	Authenticated bool         `json:"authenticated"`
	Privileged    bool         `json:"privileged"`
	User          *models.User `json:"user,omitempty"`
	Token         *tokenInfo   `json:"token,omitempty"`
	ConfigDir     string       `json:"config_dir"`
	APIURL        string       `json:"api_url"`
	Transport     string       `json:"transport"`
}

// runStatus reports local session state and returns exit code
func runStatus(w io.Writer) int {
	a, err := newApp()
	if err != nil {
		return fail(w, err)
	}

	report := statusReport{
		Authenticated: a.guard.IsAuthenticated(),
		Privileged:    a.guard.IsPrivileged(),
		ConfigDir:     a.cfg.ConfigDir,
		APIURL:        a.cfg.APIURL,
		Transport:     a.cfg.Transport,
	}
	if user, ok := a.guard.CurrentUser(); ok {
		report.User = &user
	}
	if token, ok := a.store.Token(); ok {
		report.Token = inspectToken(token, time.Now())
	}

	if IsJSONOutput() {
		writeJSON(w, report)
	} else {
		fmt.Fprintln(w, formatStatusHuman(report))
	}

	var guardErr error
	if requireAdmin {
		guardErr = a.guard.RequirePrivileged()
	} else {
		guardErr = a.guard.RequireAuthenticated()
	}
	if guardErr != nil {
		return exitRejected
	}
	return exitOK
}

// inspectToken decodes claims without verifying the signature. Opaque
// tokens are reported as not decoded.
func inspectToken(raw string, now time.Time) *tokenInfo {
	info := &tokenInfo{}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(raw), claims); err != nil {
		return info
	}
	info.Decoded = true

	if v, ok := claims["user_id"].(float64); ok {
		id := int(v)
		info.UserID = &id
	}
	if v, ok := claims["is_admin"].(bool); ok {
		info.IsAdmin = &v
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
		info.Expired = now.After(t)
	}
	return info
}

// formatStatusHuman formats the status report for human readability
func formatStatusHuman(r statusReport) string {
	if !r.Authenticated {
		return fmt.Sprintf(`Session:   %s
Backend:   %s (%s)
Run 'todoctl login' to sign in.`, authz.ErrNotAuthenticated, r.APIURL, r.Transport)
	}

	user := "unknown (cached profile missing or unreadable)"
	if r.User != nil {
		user = fmt.Sprintf("%s (id %d)", r.User.Email, r.User.ID)
	}
	role := "user"
	if r.Privileged {
		role = "admin"
	}

	out := fmt.Sprintf(`Session:   signed in
User:      %s
Role:      %s
Backend:   %s (%s)`, user, role, r.APIURL, r.Transport)

	if r.Token != nil && r.Token.Decoded && r.Token.ExpiresAt != nil {
		state := "valid"
		if r.Token.Expired {
			state = "expired"
		}
		out += fmt.Sprintf("\nToken:     expires %s [%s]", formatTime(*r.Token.ExpiresAt), state)
	}
	return out
}

// formatTime renders a timestamp, or "-" when unset
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
