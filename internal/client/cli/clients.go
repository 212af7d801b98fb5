package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runClients(ctx context.Context) error {
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	c.io.Println("=== Workshop Clients ===")
	c.io.Println()

	clients, err := c.workshop.ListClients(ctx)
	if err != nil {
		c.faults.Handle(ctx, err)
		return fmt.Errorf("failed to list clients")
	}

	if len(clients) == 0 {
		c.io.Println("No clients found.")
		return nil
	}

	c.io.Printf("Found %d client(s):\n", len(clients))
	c.io.Println()
	for i, cl := range clients {
		c.io.Printf("%d. %s\n", i+1, cl.FullName)
		c.io.Printf("   ID:    %s\n", cl.ID)
		c.io.Printf("   Phone: %s\n", cl.Phone)
		if cl.Email != "" {
			c.io.Printf("   Email: %s\n", cl.Email)
		}
		c.io.Println()
	}
	return nil
}
