// Package cli implements the repairdesk client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/avelez/repairdesk/internal/client/api"
	"github.com/avelez/repairdesk/internal/client/iocli"
	"github.com/avelez/repairdesk/internal/client/session"
)

// SessionStore is what the commands need from the session state machine.
type SessionStore interface {
	Login(ctx context.Context, creds session.Credentials) error
	Register(ctx context.Context, data session.RegisterData) error
	Logout(ctx context.Context)
	Rehydrate(ctx context.Context) bool
	ValidateCurrentSession(ctx context.Context) bool
	IsAuthenticated() bool
	CurrentUser() *session.User
}

// WorkshopAPI is the protected part of the server API the commands call.
type WorkshopAPI interface {
	ListClients(ctx context.Context) ([]api.WorkshopClient, error)
}

// FaultSink receives failures of protected calls.
type FaultSink interface {
	Handle(ctx context.Context, err error)
}

// Notifier is the deduplicated toast surface for command-level feedback.
type Notifier interface {
	SessionExpired()
}

// ErrUnknownCommand is returned by Run for a command it does not know;
// the caller decides whether to print usage.
var ErrUnknownCommand = errors.New("unknown command")

// Passwords are the non-interactive password sources, in the order they
// are tried after the REPAIRDESK_PASSWORD environment variable.
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	sessions  SessionStore
	workshop  WorkshopAPI
	faults    FaultSink
	ui        Notifier
	passwords Passwords
}

func New(io iocli.IO, sessions SessionStore, workshop WorkshopAPI, faults FaultSink, ui Notifier, passwords Passwords) *Cli {
	return &Cli{
		io:        io,
		sessions:  sessions,
		workshop:  workshop,
		faults:    faults,
		ui:        ui,
		passwords: passwords,
	}
}

// Run dispatches a command. The returned error is the command's failure;
// usage errors for unknown commands are reported by the caller.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "clients":
		return c.runClients(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// readPassword retrieves the password from sources in priority order:
// the REPAIRDESK_PASSWORD environment variable, a password file, the
// command-line flag, and finally an interactive prompt.
func (c *Cli) readPassword(prompt string) (string, error) {
	if env := os.Getenv("REPAIRDESK_PASSWORD"); env != "" {
		return env, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// requireSession rehydrates and validates the session before a protected
// command runs. A session that existed but failed validation gets a
// session-expired toast; never having been signed in does not.
func (c *Cli) requireSession(ctx context.Context) error {
	if !c.sessions.IsAuthenticated() {
		c.sessions.Rehydrate(ctx)
	}
	wasAuthenticated := c.sessions.IsAuthenticated()
	if !c.sessions.ValidateCurrentSession(ctx) {
		if wasAuthenticated {
			c.ui.SessionExpired()
		}
		return fmt.Errorf("not authenticated. Please run 'repairdesk login' first")
	}
	return nil
}

func PrintUsage() {
	fmt.Println("RepairDesk Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  repairdesk [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --server URL           Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH              Path to local database")
	fmt.Println("  --storage NAME         Local storage backend: bolt or sqlite (default: bolt)")
	fmt.Println("  --config PATH          Path to config file")
	fmt.Println("  --password PASSWORD    Password (not recommended, use env var or file)")
	fmt.Println("  --password-file PATH   Path to file containing the password")
	fmt.Println()
	fmt.Println("Password Priority (highest to lowest):")
	fmt.Println("  1. REPAIRDESK_PASSWORD environment variable")
	fmt.Println("  2. --password-file (file path)")
	fmt.Println("  3. --password (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register    Register a new account")
	fmt.Println("  login       Sign in to the server")
	fmt.Println("  logout      Sign out and clear the local session")
	fmt.Println("  status      Show the current session")
	fmt.Println("  clients     List the workshop's clients")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  repairdesk login")
	fmt.Println("  repairdesk --server https://workshop.example.com login")
	fmt.Println("  export REPAIRDESK_PASSWORD='mySecretPassword'")
	fmt.Println("  repairdesk clients")
}
