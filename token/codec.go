package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/etlabapp/gateway/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Codec issues and verifies the gateway's own bearer tokens using
// symmetric HMAC-SHA256. Tokens are self-contained: username in "sub",
// issue and expiry instants, and a unique "jti".
//
// Validate and Username are deliberately separate operations: Username
// verifies the signature but not the expiry, so a caller can still read
// who an expired token belonged to. Anything that grants access must call
// Validate first.
type Codec struct {
	secret []byte
	expiry time.Duration
}

// NewCodec creates a codec with the given process-wide secret and token
// validity window.
func NewCodec(secret string, expiry time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue creates a signed token embedding the username, valid from now
// until now plus the configured expiry.
func (c *Codec) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.Wrap(apperrors.ErrValidation, "[Codec Issue] username is required")
	}

	now := NowTimeFunc()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(c.expiry).Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

// Validate reports whether the token is well formed, carries a valid
// signature, and has not expired. It fails closed: any parse or
// verification problem yields false.
func (c *Codec) Validate(rawToken string) bool {
	claims, err := c.verifiedClaims(rawToken)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return NowTimeFunc().Before(exp.Time)
}

// Username extracts the subject from a signed token. The signature must
// verify; expiry is not checked here, callers establish trust with
// Validate.
func (c *Codec) Username(rawToken string) (string, error) {
	claims, err := c.verifiedClaims(rawToken)
	if err != nil {
		return "", err
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.Wrap(apperrors.ErrInvalidToken, "[Codec Username] missing subject claim")
	}
	return sub, nil
}

// ExpiresAt returns the token's expiry instant. Used by the login path to
// echo the original expiry when an already-issued token is returned.
func (c *Codec) ExpiresAt(rawToken string) (time.Time, error) {
	claims, err := c.verifiedClaims(rawToken)
	if err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.Wrap(apperrors.ErrInvalidToken, "[Codec ExpiresAt] missing expiry claim")
	}
	return exp.Time, nil
}

// verifiedClaims parses a token and checks the signature only. Claims
// validation (exp, nbf) is skipped so Username can read expired tokens.
func (c *Codec) verifiedClaims(rawToken string) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(rawToken, c.verificationKey)
	if err != nil || !token.Valid {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "[Codec verifiedClaims] parse failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "[Codec verifiedClaims] error extracting claims")
	}
	return claims, nil
}

func (c *Codec) verificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}
