package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelez/repairdesk/internal/client/session"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Register ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	fullName, err := c.io.ReadInput("Full name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Creating account...")

	err = c.sessions.Register(ctx, session.RegisterData{
		Username: username,
		Password: password,
		FullName: fullName,
	})
	switch {
	case err == nil:
	case errors.Is(err, session.ErrInvalidCredentials):
		return fmt.Errorf("registration rejected: %w", err)
	case errors.Is(err, session.ErrNetwork):
		return fmt.Errorf("registration failed: unable to contact the server")
	default:
		return fmt.Errorf("registration failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Account created, you are now signed in.")
	return nil
}
