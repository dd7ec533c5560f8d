package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abc12345!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)

	assert.True(t, CheckPassword("Abc12345!", hash))
	assert.False(t, CheckPassword("abc12345!", hash))
	assert.False(t, CheckPassword("", hash))
	// 坏哈希只返回 false
	assert.False(t, CheckPassword("Abc12345!", "not-a-hash"))
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("Abc12345!", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want bool
	}{
		{"all classes", "Abc12345!", true},
		{"too short", "Ab1!", false},
		{"no upper", "abc12345!", false},
		{"no lower", "ABC12345!", false},
		{"no digit", "Abcdefgh!", false},
		{"no special", "Abc123456", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.pw))
		})
	}
}

func TestNewTempSecret(t *testing.T) {
	const alphabet = secretUpper + secretLower + secretDigits + secretSpecial

	for i := 0; i < 50; i++ {
		s, err := NewTempSecret()
		require.NoError(t, err)
		require.Len(t, s, TempSecretLen)

		assert.True(t, strings.ContainsAny(s, secretUpper), "missing uppercase: %q", s)
		assert.True(t, strings.ContainsAny(s, secretLower), "missing lowercase: %q", s)
		assert.True(t, strings.ContainsAny(s, secretDigits), "missing digit: %q", s)
		assert.True(t, strings.ContainsAny(s, secretSpecial), "missing special: %q", s)
		for _, r := range s {
			assert.Contains(t, alphabet, string(r))
		}
		// 临时口令必须直接满足注册密码的强度规则
		assert.True(t, StrongPassword(s))
	}
}

func TestNewTempSecretNotConstant(t *testing.T) {
	a, err := NewTempSecret()
	require.NoError(t, err)
	b, err := NewTempSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
