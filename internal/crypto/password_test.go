package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name     string
		cost     int
		wantCost int
		wantErr  bool
	}{
		{name: "zero means default", cost: 0, wantCost: DefaultCost},
		{name: "default cost", cost: DefaultCost, wantCost: DefaultCost},
		{name: "min cost", cost: bcrypt.MinCost, wantCost: bcrypt.MinCost},
		{name: "below min", cost: bcrypt.MinCost - 1, wantErr: true},
		{name: "above max", cost: bcrypt.MaxCost + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewPasswordHasher(tt.cost)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, h.Cost())
		})
	}
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, h.Verify("secret", hash))
	assert.ErrorIs(t, h.Verify("wrong", hash), ErrPasswordMismatch)
	assert.ErrorIs(t, h.Verify("secret", "not-a-bcrypt-hash"), ErrPasswordMismatch)
}

func TestPasswordHasher_Salted(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	// Один и тот же пароль дает разные хеши
	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, h.Verify("secret", first))
	assert.NoError(t, h.Verify("secret", second))
}

func TestPasswordHasher_HashErrors(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash("")
	assert.Error(t, err)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
