package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/authcache/internal/validation"
	"github.com/iudanet/authcache/pkg/api"
)

// RunLogin спрашивает логин и пароль и печатает токен сессии
func (c *Cli) RunLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, password, err := c.readCredentials()
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Println()
	// токен последней строкой, чтобы его было удобно забрать через tail -n1
	c.io.Println(resp.Token)

	return nil
}

// readCredentials читает username и пароль и проверяет, что оба не пустые
func (c *Cli) readCredentials() (string, string, error) {
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	if err := validation.ValidateCredentials(username, password); err != nil {
		return "", "", err
	}
	return username, password, nil
}
