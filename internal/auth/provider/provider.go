// Package provider converts third-party credentials into normalized identity
// claims. It verifies the signed token/credential server-side and performs no
// persistence; the linking workflow decides what to do with a claim.
package provider

import (
	"context"

	"github.com/edvora/edvora-api/internal/model"
)

type Verifier interface {
	// VerifyGoogle validates a Google ID token (signature and audience) and
	// extracts the profile claims.
	VerifyGoogle(ctx context.Context, credential string) (*model.ProviderClaim, error)
	// VerifyFacebook fetches the profile behind a Facebook access token from
	// the Graph API.
	VerifyFacebook(ctx context.Context, accessToken string) (*model.ProviderClaim, error)
}
