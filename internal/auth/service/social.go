package service

import (
	"context"
)

// SignupWithGoogle runs provider verification and the Start transition for a
// Google credential.
func (s *AuthService) SignupWithGoogle(ctx context.Context, credential string) (*SignupResult, error) {
	claim, err := s.provider.VerifyGoogle(ctx, credential)
	if err != nil {
		return nil, err
	}
	return s.BeginSocialSignup(ctx, claim)
}

// SignupWithFacebook runs provider verification and the Start transition for
// a Facebook access token.
func (s *AuthService) SignupWithFacebook(ctx context.Context, accessToken string) (*SignupResult, error) {
	claim, err := s.provider.VerifyFacebook(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.BeginSocialSignup(ctx, claim)
}
