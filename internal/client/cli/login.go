package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelez/repairdesk/internal/client/session"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	err = c.sessions.Login(ctx, session.Credentials{
		Username: username,
		Password: password,
	})
	switch {
	case err == nil:
	case errors.Is(err, session.ErrInvalidCredentials):
		return fmt.Errorf("login failed: check your username and password")
	case errors.Is(err, session.ErrNetwork):
		return fmt.Errorf("login failed: unable to contact the server")
	default:
		return fmt.Errorf("login failed: %w", err)
	}

	user := c.sessions.CurrentUser()

	c.io.Println()
	c.io.Println("✓ Login successful!")
	if user != nil {
		c.io.Printf("Signed in as: %s (%s)\n", user.Username, user.Role)
	}
	return nil
}
