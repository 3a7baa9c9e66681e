package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost стоимость bcrypt по умолчанию
const DefaultCost = 10

var (
	// ErrPasswordMismatch пароль не соответствует хешу
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrPasswordTooLong bcrypt не принимает пароли длиннее 72 байт
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// PasswordHasher хеширует и проверяет пароли через bcrypt
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создает hasher с заданной стоимостью
// Ноль означает DefaultCost, иначе стоимость должна лежать в диапазоне [bcrypt.MinCost, bcrypt.MaxCost]
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Cost возвращает стоимость bcrypt
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash возвращает соленый bcrypt хеш пароля
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify сравнивает пароль с сохраненным хешем за постоянное время
// Любое расхождение, включая поврежденный хеш, возвращает ErrPasswordMismatch
func (h *PasswordHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordMismatch, err)
	}
	return nil
}
