package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type Firebase struct {
	client *auth.Client
}

// NewFirebase initialises the Admin SDK from a service-account JSON document.
func NewFirebase(ctx context.Context, projectID string, credentialsJSON []byte) (*Firebase, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: projectID},
		option.WithCredentialsJSON(credentialsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &Token{UID: tok.UID, Claims: tok.Claims}, nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

func (f *Firebase) SetAdminClaim(ctx context.Context, uid string) error {
	return f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{AdminClaim: true})
}
