package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	mgr := NewManager("test-secret")

	signed, err := mgr.Issue("strava-access-token")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	session, err := mgr.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "strava-access-token", session.AccessToken)
	assert.Equal(t, Identity("strava-access-token"), session.Identity)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	mgr := NewManager("test-secret")

	signed, err := mgr.Issue("strava-access-token")
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = mgr.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	signed, err := NewManager("secret-a").Issue("tok")
	require.NoError(t, err)

	_, err = NewManager("secret-b").Verify(signed)
	assert.Error(t, err)
}

func TestIdentityIsStableAndShort(t *testing.T) {
	a := Identity("token")
	b := Identity("token")
	c := Identity("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16) // hex of the first 8 hash bytes
}
