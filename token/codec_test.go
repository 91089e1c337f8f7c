package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/etlabapp/gateway/internal/errors"
	"github.com/etlabapp/gateway/token"
)

const (
	testSecret   = "test-secret-1234"
	testUsername = "student42"
)

func newTestCodec() *token.Codec {
	return token.NewCodec(testSecret, 24*time.Hour)
}

func TestIssueValidateRoundTrip(t *testing.T) {
	codec := newTestCodec()

	raw, err := codec.Issue(testUsername)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	require.True(t, codec.Validate(raw))

	username, err := codec.Username(raw)
	require.NoError(t, err)
	require.Equal(t, testUsername, username)
}

func TestIssueRequiresUsername(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.Issue("")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec()

	issuedAt := time.Now().Add(-25 * time.Hour)
	token.NowTimeFunc = func() time.Time { return issuedAt }
	raw, err := codec.Issue(testUsername)
	token.NowTimeFunc = time.Now
	require.NoError(t, err)

	require.False(t, codec.Validate(raw))

	// The subject is still readable from an expired token.
	username, err := codec.Username(raw)
	require.NoError(t, err)
	require.Equal(t, testUsername, username)
}

func TestValidateFailsClosed(t *testing.T) {
	codec := newTestCodec()

	require.False(t, codec.Validate(""))
	require.False(t, codec.Validate("not-a-token"))
	require.False(t, codec.Validate("aaa.bbb.ccc"))
}

func TestUsernameRejectsBadSignature(t *testing.T) {
	codec := newTestCodec()
	otherCodec := token.NewCodec("a-different-secret", 24*time.Hour)

	raw, err := otherCodec.Issue(testUsername)
	require.NoError(t, err)

	_, err = codec.Username(raw)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	require.False(t, codec.Validate(raw))
}

func TestExpiresAt(t *testing.T) {
	codec := newTestCodec()

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return issuedAt }
	raw, err := codec.Issue(testUsername)
	token.NowTimeFunc = time.Now
	require.NoError(t, err)

	expiry, err := codec.ExpiresAt(raw)
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(24*time.Hour).Unix(), expiry.Unix())
}
