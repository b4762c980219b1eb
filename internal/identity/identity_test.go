package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
		want   bool
	}{
		{"admin true", map[string]interface{}{"admin": true}, true},
		{"admin false", map[string]interface{}{"admin": false}, false},
		{"admin string", map[string]interface{}{"admin": "true"}, false},
		{"no claims", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{UID: "u1", Claims: tt.claims}
			assert.Equal(t, tt.want, tok.IsAdmin())
		})
	}

	var nilToken *Token
	assert.False(t, nilToken.IsAdmin())
}

func TestDisabledProvider(t *testing.T) {
	var p Provider = Disabled{}
	ctx := context.Background()

	_, err := p.VerifyIDToken(ctx, "x")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, p.DeleteUser(ctx, "u"), ErrDisabled)
	assert.ErrorIs(t, p.SetAdminClaim(ctx, "u"), ErrDisabled)
}
