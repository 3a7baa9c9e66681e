package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iudanet/authcache/internal/client/iocli"
	"github.com/iudanet/authcache/pkg/api"
)

// ErrUnknownCommand возвращается для неизвестной команды
var ErrUnknownCommand = errors.New("unknown command")

// APIClient описывает вызовы сервера, нужные командам CLI
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Usernames(ctx context.Context) ([]string, error)
}

type Cli struct {
	apiClient APIClient
	io        iocli.IO
}

// New создает CLI поверх API клиента и терминала
func New(apiClient APIClient, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		io:        io,
	}
}

// Run выполняет одну команду
func (c *Cli) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return c.RunRegister(ctx)
	case "login":
		return c.RunLogin(ctx)
	case "usernames":
		return c.RunUsernames(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// PrintUsage печатает справку
func PrintUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `AuthCache Client

Usage:
  authcache [OPTIONS] COMMAND

Options:
  -version                Show version information
  -server URL             Server URL (default: http://localhost:3000)

Commands:
  register                Register new user
  login                   Login and print session token
  usernames               List registered usernames

Examples:
  authcache register
  authcache -server http://auth.local:3000 login
  echo -e "alice\nsecret123" | authcache login
`)
}
