package cli

import "context"

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	if !c.sessions.IsAuthenticated() {
		c.sessions.Rehydrate(ctx)
	}

	if !c.sessions.ValidateCurrentSession(ctx) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'repairdesk login' to sign in.")
		return nil
	}

	user := c.sessions.CurrentUser()

	c.io.Println("Status: Authenticated")
	if user != nil {
		c.io.Printf("Username: %s\n", user.Username)
		c.io.Printf("Role:     %s\n", user.Role)
	}
	return nil
}
