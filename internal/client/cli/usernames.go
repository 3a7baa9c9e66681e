package cli

import (
	"context"
	"errors"

	clientapi "github.com/iudanet/authcache/internal/client/api"
)

// RunUsernames печатает список зарегистрированных пользователей
func (c *Cli) RunUsernames(ctx context.Context) error {
	names, err := c.apiClient.Usernames(ctx)
	if err != nil {
		if errors.Is(err, clientapi.ErrNoUsers) {
			c.io.Println("No users registered yet.")
			return nil
		}
		return err
	}

	c.io.Printf("Registered users (%d):\n", len(names))
	for _, name := range names {
		c.io.Printf("  %s\n", name)
	}
	return nil
}
