package provider

import (
	"context"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/model"
	"google.golang.org/api/idtoken"
)

type googleFacebookVerifier struct {
	googleClientID string
	facebook       *facebookClient
}

// NewVerifier builds the production verifier for both providers.
func NewVerifier(cfg *configs.Config) Verifier {
	return &googleFacebookVerifier{
		googleClientID: cfg.Providers.GoogleClientID,
		facebook:       newFacebookClient(),
	}
}

func (v *googleFacebookVerifier) VerifyGoogle(ctx context.Context, credential string) (*model.ProviderClaim, error) {
	payload, err := idtoken.Validate(ctx, credential, v.googleClientID)
	if err != nil {
		return nil, apperrors.New("Google sign-in could not be verified", apperrors.CodeInvalidCredential, 401)
	}

	email, _ := payload.Claims["email"].(string)
	firstName, _ := payload.Claims["given_name"].(string)
	lastName, _ := payload.Claims["family_name"].(string)
	sub, _ := payload.Claims["sub"].(string)

	if email == "" || sub == "" {
		return nil, apperrors.New("Google token is missing required claims", apperrors.CodeInvalidCredential, 401)
	}

	return &model.ProviderClaim{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		SubjectID: sub,
		Provider:  model.ProviderGoogle,
	}, nil
}

func (v *googleFacebookVerifier) VerifyFacebook(ctx context.Context, accessToken string) (*model.ProviderClaim, error) {
	return v.facebook.verify(ctx, accessToken)
}
