// Package auth issues and verifies bearer tokens and resolves them to principals.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	"github.com/itsatony/sensorhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const (
	audienceAccess = "sensorhub:access"
	audienceReset  = "sensorhub:password-reset"
	TokenType      = "bearer"
)

// Level is the privilege a route requires.
type Level int

const (
	LevelUser Level = iota
	LevelSuperuser
)

func (l Level) String() string {
	if l == LevelSuperuser {
		return "superuser"
	}
	return "user"
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	User    models.User
	TokenID string
}

// UserID returns the principal's user id as a string.
func (p *Principal) UserID() string {
	return p.User.ID.String()
}

// Options configures a Gate.
type Options struct {
	SecretKey         string
	AccessTokenExpire time.Duration
	ResetTokenExpire  time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Gate authenticates bearer tokens against the user store and an optional lease store.
type Gate struct {
	users  repository.UserRepository
	leases repository.TokenStore
	secret []byte
	opts   Options
}

// NewGate creates a gate. leases may be nil, in which case tokens are stateless
// and logout is a no-op.
func NewGate(users repository.UserRepository, leases repository.TokenStore, opts Options) *Gate {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Gate{
		users:  users,
		leases: leases,
		secret: []byte(opts.SecretKey),
		opts:   opts,
	}
}

// IssueAccessToken signs an access token for user and records its lease.
func (g *Gate) IssueAccessToken(ctx context.Context, user *models.User) (*models.Token, error) {
	now := g.opts.Now()
	tokenID := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ID:        tokenID,
		Audience:  jwt.ClaimStrings{audienceAccess},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.opts.AccessTokenExpire)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign access token", err)
	}

	if g.leases != nil {
		if err := g.leases.Grant(ctx, claims.Subject, tokenID, g.opts.AccessTokenExpire); err != nil {
			return nil, errors.NewUnavailableError("failed to record token lease", err)
		}
	}

	nuts.L.Debugf("[Auth] Issued access token %s for user %s", tokenID, claims.Subject)
	return &models.Token{AccessToken: signed, TokenType: TokenType}, nil
}

// Authenticate resolves a bearer token to an active principal.
// Missing, invalid, expired or revoked tokens and unknown users are 401; inactive users are 400.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, errors.NewAuthError("Not authenticated", nil)
	}

	claims, err := g.parse(token, audienceAccess)
	if err != nil {
		return nil, errors.NewAuthError("Could not validate credentials", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.NewAuthError("Could not validate credentials", err)
	}

	if g.leases != nil {
		active, err := g.leases.IsActive(ctx, claims.Subject, claims.ID)
		if err != nil {
			return nil, errors.NewUnavailableError("token lease store unavailable", err)
		}
		if !active {
			return nil, errors.NewAuthError("Token has been revoked", nil)
		}
	}

	user, err := g.users.Get(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewAuthError("User not found", err)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.NewValidationError("Inactive user", nil)
	}

	return &Principal{User: *user, TokenID: claims.ID}, nil
}

// Authorize reports whether p holds at least the required level.
func (g *Gate) Authorize(p *Principal, level Level) bool {
	if p == nil || !p.User.IsActive {
		return false
	}
	switch level {
	case LevelUser:
		return true
	case LevelSuperuser:
		return p.User.IsSuperuser
	}
	return false
}

// Require turns Authorize into an error: 401 without a principal, 403 when the level is too low.
func (g *Gate) Require(p *Principal, level Level) error {
	if p == nil {
		return errors.NewAuthError("Not authenticated", nil)
	}
	if !g.Authorize(p, level) {
		return errors.NewAuthorizationError("The user doesn't have enough privileges", nil)
	}
	return nil
}

// Revoke drops the lease of the principal's current token.
func (g *Gate) Revoke(ctx context.Context, p *Principal) error {
	if g.leases == nil || p == nil || p.TokenID == "" {
		return nil
	}
	if err := g.leases.Revoke(ctx, p.UserID(), p.TokenID); err != nil {
		return errors.NewUnavailableError("failed to revoke token", err)
	}
	return nil
}

// RevokeAll drops every lease held by userID.
func (g *Gate) RevokeAll(ctx context.Context, userID string) error {
	if g.leases == nil {
		return nil
	}
	if err := g.leases.RevokeAll(ctx, userID); err != nil {
		return errors.NewUnavailableError("failed to revoke tokens", err)
	}
	return nil
}

// IssueResetToken signs a password-reset token whose subject is the email address.
func (g *Gate) IssueResetToken(email string) (string, error) {
	now := g.opts.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{audienceReset},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.opts.ResetTokenExpire)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", errors.NewInternalError("failed to sign reset token", err)
	}
	return signed, nil
}

// VerifyResetToken returns the email a reset token was issued for.
func (g *Gate) VerifyResetToken(token string) (string, error) {
	claims, err := g.parse(token, audienceReset)
	if err != nil || claims.Subject == "" {
		return "", errors.NewValidationError("Invalid token", err)
	}
	return claims.Subject, nil
}

func (g *Gate) parse(token, audience string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.opts.Now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", stderrors.New("missing authorization header")
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}
