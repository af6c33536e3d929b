// Package auth verifies bearer tokens and carries the caller through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
)

// RoleValidator grants access to every sheet and to the validate/reject workflow.
const RoleValidator = "validator"

type Claims struct {
	GivenName  string   `json:"given_name,omitempty"`
	FamilyName string   `json:"family_name,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Sign issues an HS256 token for actor valid for ttl.
func (a *Authenticator) Sign(actor expense.Actor, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		GivenName:  actor.FirstName,
		FamilyName: actor.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	if actor.Validator {
		claims.Roles = []string{RoleValidator}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses token and returns the actor it was issued for.
func (a *Authenticator) Verify(token string) (expense.Actor, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return expense.Actor{}, fmt.Errorf("verifying token: %w", err)
	}

	if claims.Subject == "" {
		return expense.Actor{}, errors.New("verifying token: missing subject")
	}

	return expense.Actor{
		UserID:    claims.Subject,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Validator: slices.Contains(claims.Roles, RoleValidator),
	}, nil
}

// Middleware rejects requests without a valid bearer token.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httputil.Detail(w, http.StatusUnauthorized, "missing bearer token")

			return
		}

		actor, err := a.Verify(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			httputil.Detail(w, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

type actorKey struct{}

func WithActor(ctx context.Context, actor expense.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the authenticated caller. Handlers behind Middleware always have one.
func ActorFrom(ctx context.Context) (expense.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(expense.Actor)
	return actor, ok
}
