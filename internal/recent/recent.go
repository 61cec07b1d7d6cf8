// ABOUTME: Remembers recently used login emails
// ABOUTME: Stored as JSON in the config directory and offered as suggestions

package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxAccounts is the maximum number of emails to keep
const MaxAccounts = 5

const fileName = "recent.json"

// Accounts manages the list of recently used login emails, newest first
type Accounts struct {
	configDir string
	emails    []string
}

type recentData struct {
	Emails []string `json:"emails"`
}

// New creates an Accounts manager rooted at configDir
func New(configDir string) *Accounts {
	return &Accounts{configDir: configDir}
}

func (a *Accounts) path() string {
	return filepath.Join(a.configDir, fileName)
}

// Load reads the list from disk. A missing or unreadable file is an empty list.
func (a *Accounts) Load() ([]string, error) {
	data, err := os.ReadFile(a.path())
	if os.IsNotExist(err) {
		a.emails = []string{}
		return a.emails, nil
	}
	if err != nil {
		return nil, err
	}

	var stored recentData
	if err := json.Unmarshal(data, &stored); err != nil {
		// Invalid JSON, start fresh
		a.emails = []string{}
		return a.emails, nil
	}

	a.emails = make([]string, 0, len(stored.Emails))
	for _, email := range stored.Emails {
		if email = strings.TrimSpace(email); email != "" {
			a.emails = append(a.emails, email)
		}
	}
	return a.emails, nil
}

// Save writes emails to disk, keeping at most MaxAccounts
func (a *Accounts) Save(emails []string) error {
	if err := os.MkdirAll(a.configDir, 0700); err != nil {
		return err
	}

	if len(emails) > MaxAccounts {
		emails = emails[:MaxAccounts]
	}
	a.emails = emails

	data, err := json.MarshalIndent(recentData{Emails: emails}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.path(), data, 0600)
}

// Add moves email to the front of the list, inserting it if new
func (a *Accounts) Add(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if a.emails == nil {
		if _, err := a.Load(); err != nil {
			a.emails = []string{}
		}
	}

	emails := make([]string, 0, len(a.emails)+1)
	emails = append(emails, email)
	for _, e := range a.emails {
		if !strings.EqualFold(e, email) {
			emails = append(emails, e)
		}
	}
	return a.Save(emails)
}

// List returns the current list, loading it on first use
func (a *Accounts) List() []string {
	if a.emails == nil {
		a.Load()
	}
	return a.emails
}
