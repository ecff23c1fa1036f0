package auth

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runDevToken(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"devtoken"}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestDevTokenCommand(t *testing.T) {
	t.Parallel()

	out, err := runDevToken(t, "--project-id", "wedding-dev", "--user-id", "u1", "--email", "h@example.com", "--role", "hotel", "--hotel-id", "h1")
	require.NoError(t, err)
	require.Len(t, strings.Split(out, "."), 2)

	_, err = runDevToken(t, "--project-id", "wedding-dev", "--user-id", "u1", "--email", "h@example.com", "--role", "hotel")
	require.ErrorContains(t, err, "hotelID is required")
}

func TestDevTokenCommandHeader(t *testing.T) {
	t.Parallel()

	out, err := runDevToken(t, "--project-id", "wedding-dev", "--user-id", "u1", "--email", "ops@example.com", "--role", "admin", "--header")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Authorization: Bearer "))
}
