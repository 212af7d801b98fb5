package cli

import "context"

func (c *Cli) runLogout(ctx context.Context) error {
	if !c.sessions.IsAuthenticated() {
		c.sessions.Rehydrate(ctx)
	}

	// Logout never fails locally: the session is gone even if the server
	// could not be told.
	c.sessions.Logout(ctx)

	c.io.Println("✓ Signed out.")
	return nil
}
