package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"github.com/MUHULILAMRI/Done-Fast/config"
)

// Identity is what a hosted sign-in provider vouches for.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// Verifier checks an ID token issued by a hosted sign-in provider.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

// NewFirebaseVerifier initializes Firebase from inline service account JSON.
func NewFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: cfg.ProjectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("verify id token: %w", err)
	}
	if token.Audience != v.projectID {
		return Identity{}, fmt.Errorf("token audience mismatch: %q", token.Audience)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return Identity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}
