// Package identity wraps the external identity provider (Firebase
// Authentication) used by the admin routes.
package identity

import (
	"context"
	"errors"
)

const AdminClaim = "admin"

var ErrDisabled = errors.New("identity provider is not configured")

// Token is the verified subset of a provider ID token.
type Token struct {
	UID    string
	Claims map[string]interface{}
}

// IsAdmin reports whether the admin custom claim is set to true.
func (t *Token) IsAdmin() bool {
	if t == nil {
		return false
	}
	v, ok := t.Claims[AdminClaim].(bool)
	return ok && v
}

type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
	DeleteUser(ctx context.Context, uid string) error
	SetAdminClaim(ctx context.Context, uid string) error
}

// Disabled is used when no service account is configured. Every call fails
// with ErrDisabled.
type Disabled struct{}

func (Disabled) VerifyIDToken(context.Context, string) (*Token, error) { return nil, ErrDisabled }
func (Disabled) DeleteUser(context.Context, string) error             { return ErrDisabled }
func (Disabled) SetAdminClaim(context.Context, string) error          { return ErrDisabled }
