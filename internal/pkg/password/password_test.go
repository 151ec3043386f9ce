package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/goodspace/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLegal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"ok", "P@ssw0rd!", true},
		{"ok minimal", "a1!aaaaa", true},
		{"too short", "a1!a", false},
		{"too long", strings.Repeat("a", 70) + "1!x", false},
		{"no digit", "Password!", false},
		{"no letter", "12345678!", false},
		{"no symbol", "Passw0rd", false},
		{"whitespace", "P@ss w0rd", false},
		{"non ascii", "P@ssw0rdé", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLegal(tc.raw))
		})
	}
}

func TestHashAndMatches(t *testing.T) {
	h, err := Hash("P@ssw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "P@ssw0rd!", h)
	assert.True(t, strings.HasPrefix(h, "$2"), "hash should be self-describing")

	ok, err := Matches("P@ssw0rd!", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches("wrong-pass1!", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltPerPassword(t *testing.T) {
	h1, err := Hash("P@ssw0rd!")
	require.NoError(t, err)
	h2, err := Hash("P@ssw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestMatches_MalformedHash(t *testing.T) {
	_, err := Matches("P@ssw0rd!", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedHash))
}
