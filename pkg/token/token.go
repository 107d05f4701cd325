package token

import (
	"errors"
	"time"

	"clinic-appointment-service/config"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized is the single outcome for every validation failure:
	// bad signature, expired token, or role mismatch. The specific cause is
	// not exposed to callers.
	ErrUnauthorized = errors.New("invalid, expired, or wrong-role token")

	// ErrMalformed is returned when a token cannot be parsed at all.
	ErrMalformed = errors.New("malformed token")
)

type Claims struct {
	Subject string      `json:"sub_id"`
	Role    entity.Role `json:"role"`
	TokenID string      `json:"token_id"`
	jwt.RegisteredClaims
}

// Authority issues and validates role-bound tokens. Tokens are stateless;
// nothing is stored at issuance and every call re-verifies the signature,
// expiry, and role.
type Authority struct {
	config config.JWTConfig
}

func NewAuthority(cfg config.JWTConfig) *Authority {
	return &Authority{config: cfg}
}

// Issue produces a signed credential binding subject to role. Expiry is
// fixed at issuance. The returned token ID identifies this credential in the
// session store.
func (a *Authority) Issue(subject string, role entity.Role) (string, string, error) {
	tokenID := uuid.New().String()
	claims := Claims{
		Subject: subject,
		Role:    role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(a.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

// Validate verifies the signature and expiry and requires the embedded role
// to exactly equal requiredRole. An admin token does not satisfy a
// doctor-required check; there is no role hierarchy.
func (a *Authority) Validate(tokenString string, requiredRole entity.Role) (*Claims, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.Role != requiredRole {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Inspect verifies the signature and expiry and returns the claims without
// pinning a role, for operations open to every authenticated caller. The
// embedded role must still be one of the known roles.
func (a *Authority) Inspect(tokenString string) (*Claims, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !claims.Role.IsValid() {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// ExtractSubject resolves the caller identity from the token without a role
// check, for self-scoped reads.
func (a *Authority) ExtractSubject(tokenString string) (string, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

// Expiry returns the configured token lifetime.
func (a *Authority) Expiry() time.Duration {
	return a.config.Expiry
}

func (a *Authority) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(a.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
