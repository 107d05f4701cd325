package usecase

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/service"
	"clinic-appointment-service/pkg/token"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// AccessGate is the single precondition check in front of every privileged
// operation. Require validates the token for the exact role and confirms the
// session has not been revoked; on any failure the caller gets
// ErrUnauthorized and nothing downstream runs. No other component performs
// role checks.
type AccessGate struct {
	log       *logrus.Logger
	authority *token.Authority
	sessions  service.SessionStore
}

func NewAccessGate(log *logrus.Logger, authority *token.Authority, sessions service.SessionStore) *AccessGate {
	return &AccessGate{
		log:       log,
		authority: authority,
		sessions:  sessions,
	}
}

// Require validates tokenString for exactly the given role and returns the
// verified claims. The failure cause (bad signature, expiry, role mismatch,
// revoked session) is logged internally but collapsed into ErrUnauthorized
// for the caller.
func (g *AccessGate) Require(ctx context.Context, tokenString string, role entity.Role) (*token.Claims, error) {
	claims, err := g.authority.Validate(tokenString, role)
	if err != nil {
		g.log.Debugf("Token rejected for role %s: %+v", role, err)
		return nil, ErrUnauthorized
	}

	active, err := g.sessions.IsActive(ctx, claims.Subject, claims.TokenID)
	if err != nil {
		g.log.Warnf("Failed to check session state: %+v", err)
		return nil, err
	}
	if !active {
		g.log.Debugf("Token revoked for subject %s", claims.Subject)
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// RequireAny accepts a token carrying any of the known roles, for reads open
// to every authenticated caller. Session revocation still applies.
func (g *AccessGate) RequireAny(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := g.authority.Inspect(tokenString)
	if err != nil {
		g.log.Debugf("Token rejected: %+v", err)
		return nil, ErrUnauthorized
	}

	active, err := g.sessions.IsActive(ctx, claims.Subject, claims.TokenID)
	if err != nil {
		g.log.Warnf("Failed to check session state: %+v", err)
		return nil, err
	}
	if !active {
		g.log.Debugf("Token revoked for subject %s", claims.Subject)
		return nil, ErrUnauthorized
	}

	return claims, nil
}
