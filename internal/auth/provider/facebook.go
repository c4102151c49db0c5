package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/model"
	"golang.org/x/oauth2"
)

const graphProfileURL = "https://graph.facebook.com/me?fields=id,first_name,last_name,email"

type facebookClient struct {
	// profileURL is overridable in tests.
	profileURL string
}

func newFacebookClient() *facebookClient {
	return &facebookClient{profileURL: graphProfileURL}
}

type facebookProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Error     *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (f *facebookClient) verify(ctx context.Context, accessToken string) (*model.ProviderClaim, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, ts)

	resp, err := client.Get(f.profileURL)
	if err != nil {
		return nil, apperrors.ProviderError(fmt.Sprintf("Facebook profile fetch failed: %v", err))
	}
	defer resp.Body.Close()

	var profile facebookProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperrors.ProviderError("Facebook returned an unreadable profile")
	}

	if profile.Error != nil {
		return nil, apperrors.ProviderError(fmt.Sprintf("Facebook: %s", profile.Error.Message))
	}
	if resp.StatusCode != http.StatusOK || profile.ID == "" {
		return nil, apperrors.New("Facebook sign-in could not be verified", apperrors.CodeInvalidCredential, 401)
	}

	return &model.ProviderClaim{
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		SubjectID: profile.ID,
		Provider:  model.ProviderFacebook,
	}, nil
}
