// Package auth implements the credential primitives of the service:
// signed access/refresh tokens, password hashing, and refresh-token digests.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/listora/listora/internal/common"
)

// TokenType discriminates the kinds of tokens the issuer mints so one kind
// can never be presented in place of another.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeVerify  TokenType = "verify"
)

// Claims is the set of signed statements carried by every token: subject
// (user id), issued-at, expiry, a unique jti, and the token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"typ"`
}

// Issuer mints and verifies HS256-signed tokens. The optional key id is
// emitted as the "kid" header so the signing secret can be versioned.
type Issuer struct {
	secret     []byte
	keyID      string
	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
}

func NewIssuer(secret []byte, keyID string, accessTTL, refreshTTL, verifyTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     secret,
		keyID:      keyID,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		verifyTTL:  verifyTTL,
	}
}

// RefreshTTL returns the configured refresh token lifetime. The session
// service uses it as the validity of stored refresh records.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// AccessToken mints a short-lived access token for userID.
func (i *Issuer) AccessToken(userID string) (string, error) {
	return i.sign(userID, TokenTypeAccess, i.accessTTL)
}

// RefreshToken mints a long-lived refresh token for userID.
func (i *Issuer) RefreshToken(userID string) (string, error) {
	return i.sign(userID, TokenTypeRefresh, i.refreshTTL)
}

// VerificationToken mints the token that gates the email-verification
// transition for userID.
func (i *Issuer) VerificationToken(userID string) (string, error) {
	return i.sign(userID, TokenTypeVerify, i.verifyTTL)
}

func (i *Issuer) sign(userID string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	})
	if i.keyID != "" {
		token.Header["kid"] = i.keyID
	}
	return token.SignedString(i.secret)
}

// Verify parses tokenString, checks signature and expiry, and enforces the
// expected token type. Every failure comes back as common.ErrInvalidToken so
// callers cannot tell which check rejected the token.
func (i *Issuer) Verify(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// ExtractUserID returns the subject of the token, signature permitting,
// even when the token has already expired.
func (i *Issuer) ExtractUserID(tokenString string) (string, error) {
	claims, err := i.parseUnchecked(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Expiry returns the expiry timestamp embedded in the token. The signature
// is still verified; only claim validation (expiry) is skipped.
func (i *Issuer) Expiry(tokenString string) (time.Time, error) {
	claims, err := i.parseUnchecked(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, common.ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's expiry lies in the past. Tokens that
// cannot be parsed or verified count as expired.
func (i *Issuer) IsExpired(tokenString string) bool {
	exp, err := i.Expiry(tokenString)
	if err != nil {
		return true
	}
	return exp.Before(time.Now())
}

func (i *Issuer) parseUnchecked(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, i.keyFunc)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (i *Issuer) keyFunc(*jwt.Token) (any, error) {
	return i.secret, nil
}
