package identity

import (
	"context"
	"errors"
	"fmt"

	idToken "github.com/xyz-asif/strayrescue/internal/pkg/jwt"
	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

// Claims is what a verified bearer token tells us about the caller.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Verifier validates a bearer token issued by the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// JWTVerifier accepts HS256 tokens signed with the shared secret.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	claims, err := idToken.ValidateToken(token, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return &Claims{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// Resolver turns a verified token into an Actor, falling back to the stored
// profile when the token does not carry a role.
type Resolver struct {
	verifier Verifier
	profiles *Repository
}

func NewResolver(verifier Verifier, profiles *Repository) *Resolver {
	return &Resolver{verifier: verifier, profiles: profiles}
}

// Resolve verifies token and returns the caller.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Actor, error) {
	if r.verifier == nil {
		return nil, errors.New("no token verifier configured")
	}

	claims, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthorized)
	}

	return r.actorFor(ctx, claims.UserID, claims.Role), nil
}

// ResolveDebug builds an Actor from raw debug headers. Development only.
func (r *Resolver) ResolveDebug(ctx context.Context, userID, role string) *Actor {
	return r.actorFor(ctx, userID, role)
}

func (r *Resolver) actorFor(ctx context.Context, userID, rawRole string) *Actor {
	if role, err := ParseRole(rawRole); err == nil {
		return &Actor{ID: userID, Role: role}
	}

	if r.profiles != nil {
		p, err := r.profiles.GetByID(ctx, userID)
		if err == nil && p != nil {
			if role, err := ParseRole(string(p.Role)); err == nil {
				return &Actor{ID: userID, Role: role}
			}
		}
	}

	// Users without a recorded role are plain citizens.
	return &Actor{ID: userID, Role: RoleCitizen}
}
