// ABOUTME: Login and registration forms as an embeddable bubbletea model
// ABOUTME: Wraps a huh form and emits a message when submitted or cancelled

package authform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/todoctl/internal/tui/icons"
	"github.com/markalston/todoctl/internal/tui/styles"
)

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmittedMsg is sent when the user completes the form
type SubmittedMsg struct {
	Mode     Mode
	Email    string
	Password string
	Confirm  string
}

// CancelledMsg is sent when the user presses esc
type CancelledMsg struct {
	Mode Mode
}

// SwitchMsg asks the app to show the other form
type SwitchMsg struct {
	To Mode
}

// Form is the credentials form
type Form struct {
	mode        Mode
	form        *huh.Form
	suggestions []string
	width       int

	// Field values bound to the huh inputs
	email    string
	password string
	confirm  string
}

// createTheme returns the huh theme used by the credential forms
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a form in the given mode with email prefilled. Suggestions
// are offered for the email field; without a prefill the login form
// starts with the most recent one.
func New(mode Mode, email string, suggestions []string) *Form {
	f := &Form{mode: mode, email: email, suggestions: suggestions}
	if f.email == "" && mode == ModeLogin && len(suggestions) > 0 {
		f.email = suggestions[0]
	}
	f.form = f.build()
	return f
}

// Reset clears the secrets and rebuilds the form, keeping the email
func (f *Form) Reset() tea.Cmd {
	f.password = ""
	f.confirm = ""
	f.form = f.build()
	return f.form.Init()
}

// Mode returns the form's mode
func (f *Form) Mode() Mode {
	return f.mode
}

// Email returns the current email value
func (f *Form) Email() string {
	return f.email
}

func (f *Form) build() *huh.Form {
	email := huh.NewInput().
		Title("Email").
		Placeholder("you@example.com").
		Suggestions(f.suggestions).
		Value(&f.email)
	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&f.password)

	var group *huh.Group
	if f.mode == ModeRegister {
		confirm := huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&f.confirm)
		group = huh.NewGroup(email, password, confirm).
			Title("Create an account").
			Description("Passwords must be at least 6 characters")
	} else {
		group = huh.NewGroup(email, password).
			Title(icons.Lock.String() + " Sign in")
	}

	return huh.NewForm(group).
		WithTheme(createTheme()).
		WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			mode := f.mode
			return f, func() tea.Msg { return CancelledMsg{Mode: mode} }
		case "ctrl+n":
			to := ModeRegister
			if f.mode == ModeRegister {
				to = ModeLogin
			}
			return f, func() tea.Msg { return SwitchMsg{To: to} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submitted := SubmittedMsg{
			Mode:     f.mode,
			Email:    strings.TrimSpace(f.email),
			Password: f.password,
			Confirm:  f.confirm,
		}
		return f, func() tea.Msg { return submitted }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(f.form.View())
	sb.WriteString("\n")

	hint := "ctrl+n create an account"
	if f.mode == ModeRegister {
		hint = "ctrl+n back to sign in"
	}
	sb.WriteString(styles.Help.Render(hint))
	return sb.String()
}
