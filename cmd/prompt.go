// ABOUTME: Interactive prompts for missing credentials and confirmations
// ABOUTME: Built on huh forms; replaceable in tests

package cmd

import (
	"github.com/charmbracelet/huh"
	"github.com/markalston/todoctl/internal/controller"
)

// credentialsInput holds values gathered from flags and prompts
type credentialsInput struct {
	Email    string
	Password string
	Confirm  string
}

// askCredentials fills in whatever in is missing. withConfirm adds a
// password confirmation field for registration.
var askCredentials = func(in *credentialsInput, withConfirm bool, suggestions []string) error {
	var fields []huh.Field
	if in.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Suggestions(suggestions).
			Value(&in.Email))
	}
	if in.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password))
		if withConfirm {
			fields = append(fields, huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&in.Confirm))
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// askConfirm asks a yes/no question; an aborted prompt counts as no
var askConfirm = func(prompt string) bool {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return err == nil && ok
}

// confirmer returns the confirmation to use, honoring --yes
func confirmer() controller.ConfirmFunc {
	if assumeYes {
		return func(string) bool { return true }
	}
	return askConfirm
}
