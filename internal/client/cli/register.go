package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/authcache/pkg/api"
)

// RunRegister спрашивает логин и пароль и регистрирует пользователя
func (c *Cli) RunRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, password, err := c.readCredentials()
	if err != nil {
		return err
	}

	// Подтверждение пароля
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Registering user...")

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Username: %s\n", resp.Username)
	c.io.Println()
	c.io.Println("Please run 'authcache login' to get a session token.")

	return nil
}
