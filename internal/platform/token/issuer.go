// Package token builds and validates the session credential: an HS256
// JWT whose single data claim is the encrypted identity payload.
// Every successful verification re-issues the token with a fresh expiry,
// giving sessions a sliding window.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"social_backend/internal/feature/user/domain/entity"
	"social_backend/internal/platform/crypt"
)

// DefaultTTL is the validity window for a freshly issued session token.
const DefaultTTL = 7 * 24 * time.Hour

// dataClaim is the JWT claim carrying the encrypted payload.
const dataClaim = "data"

var (
	// ErrTokenInvalid is returned when a token is malformed or its
	// signature does not verify.
	ErrTokenInvalid = errors.New("token is not valid")

	// ErrTokenExpired is returned when a token's validity window has
	// passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrStaleToken is returned when the identity snapshot embedded in a
	// token no longer matches the stored user, e.g. after a password
	// change. The caller must sign in again.
	ErrStaleToken = errors.New("token no longer matches stored user")
)

// Payload is the identity snapshot embedded (encrypted) in every session
// token. Password carries the bcrypt hash at issuance time; a later
// password change makes every outstanding token stale.
type Payload struct {
	UserID   string `json:"userID"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSource provides the user lookup needed to cross-check a token
// against the stored record. The interface is defined here, by the
// consumer, and satisfied by the user repository.
type UserSource interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Issuer issues, verifies and renews session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	cipher *crypt.Cipher
	users  UserSource
}

// NewIssuer creates an Issuer with the given signing secret, validity
// window, payload cipher and user lookup.
func NewIssuer(secret string, ttl time.Duration, cipher *crypt.Cipher, users UserSource) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		cipher: cipher,
		users:  users,
	}
}

// Issue serializes and encrypts the identity payload, then wraps the
// ciphertext in a signed JWT with a fresh expiry.
func (i *Issuer) Issue(userID, email, passwordHash string) (string, error) {
	raw, err := json.Marshal(Payload{UserID: userID, Email: email, Password: passwordHash})
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload: %w", err)
	}
	enc, err := i.cipher.Encrypt(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return i.sign(enc)
}

// sign wraps an already-encrypted payload in a signed envelope.
func (i *Issuer) sign(encryptedPayload string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		dataClaim: encryptedPayload,
		"exp":     now.Add(i.ttl).Unix(),
		"iat":     now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the
// decrypted identity payload. It returns ErrTokenExpired past the
// validity window and ErrTokenInvalid for every other verification
// failure.
func (i *Issuer) Verify(raw string) (Payload, error) {
	enc, err := i.parse(raw)
	if err != nil {
		return Payload{}, err
	}
	return i.decode(enc)
}

// parse validates the envelope and returns the encrypted payload claim.
func (i *Issuer) parse(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	enc, ok := claims[dataClaim].(string)
	if !ok || enc == "" {
		return "", fmt.Errorf("%w: missing data claim", ErrTokenInvalid)
	}
	return enc, nil
}

// decode decrypts and unmarshals the payload claim.
func (i *Issuer) decode(encryptedPayload string) (Payload, error) {
	plain, err := i.cipher.Decrypt(encryptedPayload)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(plain), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: malformed payload", ErrTokenInvalid)
	}
	return p, nil
}

// VerifyAndRenew verifies a token, cross-checks the embedded identity
// snapshot against the stored user, and re-issues the same encrypted
// payload with a fresh expiry. A mismatch in password hash or email
// yields ErrStaleToken.
//
// Revocation is lazy: a changed password is only detected here, at next
// use. An outstanding token is never proactively revoked and stays
// usable until its natural expiry.
func (i *Issuer) VerifyAndRenew(ctx context.Context, raw string) (string, error) {
	enc, err := i.parse(raw)
	if err != nil {
		return "", err
	}
	p, err := i.decode(enc)
	if err != nil {
		return "", err
	}

	user, err := i.users.FindByID(ctx, p.UserID)
	if err != nil {
		// A deleted user is indistinguishable from a stale credential
		// as far as the client is concerned.
		return "", fmt.Errorf("%w: %v", ErrStaleToken, err)
	}
	if user.Password != p.Password || user.Email != p.Email {
		return "", ErrStaleToken
	}

	// Re-sign the same ciphertext; only the window moves.
	return i.sign(enc)
}
