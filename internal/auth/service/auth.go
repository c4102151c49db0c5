// Package service implements the identity linking workflow: password
// registration and login, OTP phone verification, social sign-in, and the
// merge of a social identity with a verified phone number into one permanent
// account.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/auth/provider"
	"github.com/edvora/edvora-api/internal/auth/repository"
	"github.com/edvora/edvora-api/internal/configs"
	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/internal/otp"
	"github.com/edvora/edvora-api/pkg/jwt"
	"github.com/edvora/edvora-api/pkg/password"
	"github.com/edvora/edvora-api/pkg/phone"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	LoginStreamKey = "login_events"

	tempIdentityPrefix  = "temp_identity:"
	phoneVerifiedPrefix = "phone_verified:"
	resetGrantPrefix    = "pwreset:"

	// tempIdentityTTL bounds how long a social signup can sit between
	// provider verification and phone verification.
	tempIdentityTTL = 30 * time.Minute

	// grantTTL covers the gap between a verified OTP and the request that
	// consumes the verification (register or password reset).
	grantTTL = 15 * time.Minute
)

type LoginEvent struct {
	UserID    int64     `json:"user_id"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
}

type AuthService struct {
	userRepo repository.UserRepository
	cfg      *configs.Config
	cache    database.CacheService
	otpStore *otp.Store
	provider provider.Verifier
	sfGroup  singleflight.Group // collapses concurrent duplicate checks
}

func NewAuthService(
	userRepo repository.UserRepository,
	cfg *configs.Config,
	cache database.CacheService,
	otpStore *otp.Store,
	providerVerifier provider.Verifier,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otpStore: otpStore,
		provider: providerVerifier,
	}
}

func (s *AuthService) Cache() database.CacheService { return s.cache }

func (s *AuthService) Users() repository.UserRepository { return s.userRepo }

// outcomeError maps an OTP verification outcome to the client-facing error.
// The distinct codes matter: the UI branches between "resend" and "re-enter".
func outcomeError(outcome otp.Outcome) error {
	switch outcome {
	case otp.Valid:
		return nil
	case otp.Expired:
		return apperrors.OtpExpired
	case otp.NotFound:
		return apperrors.OtpNotFound
	default:
		return apperrors.OtpMismatch
	}
}

// SendOtp issues and dispatches a code. userID is non-zero only for
// password-reset flows where the caller already proved the number belongs to
// an account.
func (s *AuthService) SendOtp(ctx context.Context, rawPhone string, userID int64) error {
	_, err := s.otpStore.Issue(ctx, rawPhone, userID)
	if err != nil {
		if errors.Is(err, phone.ErrInvalidNumber) {
			return apperrors.BadRequest("Please provide a valid phone number")
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ProviderError("Could not send the verification code, please try again")
	}
	return nil
}

// VerifyOtp consumes a registration code and leaves a short-lived verified
// marker for the canonical number, which Register later requires. The wire
// flow is three requests, so the marker is what keeps a user from being
// created against an unverified phone.
func (s *AuthService) VerifyOtp(ctx context.Context, rawPhone, code string) error {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return apperrors.BadRequest("Please provide a valid phone number")
	}

	outcome, _, err := s.otpStore.Verify(ctx, canonical, code)
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if outcome != otp.Valid {
		return outcomeError(outcome)
	}

	return s.cache.Set(ctx, phoneVerifiedPrefix+canonical, true, grantTTL)
}

// Register persists a permanent user after the phone has been verified.
func (s *AuthService) Register(ctx context.Context, input model.RegisterRequest) (*model.User, string, error) {
	canonical, err := phone.Normalize(input.PhoneNumber)
	if err != nil {
		return nil, "", apperrors.BadRequest("Please provide a valid phone number")
	}

	var verified bool
	if err := s.cache.Get(ctx, phoneVerifiedPrefix+canonical, &verified); err != nil || !verified {
		return nil, "", apperrors.PhoneNotVerified
	}

	if err := s.ensureIdentityAvailable(ctx, input.Email, canonical); err != nil {
		return nil, "", err
	}

	hash, err := password.HashPassword(input.Password)
	if err != nil {
		return nil, "", apperrors.SomethingWentWrong
	}

	user := &model.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        canonical,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The verified marker is kept so a retry does not force the user
		// back through a fresh OTP for an already-consumed code.
		log.Printf("user creation failed for %s: %v", input.Email, err)
		return nil, "", apperrors.SomethingWentWrong
	}

	_ = s.cache.Delete(ctx, phoneVerifiedPrefix+canonical)

	token, err := s.mintUserToken(user)
	if err != nil {
		return nil, "", err
	}
	s.publishLoginEvent(ctx, user.ID, "password")
	return user, token, nil
}

// LoginWithPassword is the plain email+password short-circuit.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, pw string) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.InvalidCredentials
	}
	if err := password.CheckPasswordHash(pw, user.PasswordHash); err != nil {
		return nil, "", apperrors.InvalidCredentials
	}
	return s.completeLogin(ctx, user, "password")
}

// LoginWithOtp authenticates an existing user by proving phone control.
func (s *AuthService) LoginWithOtp(ctx context.Context, rawPhone, code string) (*model.User, string, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, "", apperrors.BadRequest("Please provide a valid phone number")
	}

	user, err := s.userRepo.GetByPhone(ctx, canonical)
	if err != nil {
		return nil, "", apperrors.UserNotFound
	}

	outcome, _, err := s.otpStore.Verify(ctx, canonical, code)
	if err != nil {
		return nil, "", apperrors.SomethingWentWrong
	}
	if outcome != otp.Valid {
		return nil, "", outcomeError(outcome)
	}

	return s.completeLogin(ctx, user, "otp")
}

// LoginWithGoogle verifies the credential and logs in the matching account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*model.User, string, error) {
	claim, err := s.provider.VerifyGoogle(ctx, credential)
	if err != nil {
		return nil, "", err
	}
	return s.loginWithClaim(ctx, claim)
}

func (s *AuthService) loginWithClaim(ctx context.Context, claim *model.ProviderClaim) (*model.User, string, error) {
	user, err := s.userRepo.FindByProviderID(ctx, claim.Provider, claim.SubjectID)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.userRepo.GetByEmail(ctx, claim.Email)
		if err == nil {
			// Same email, first time through this provider: link the id.
			_ = s.userRepo.LinkProvider(ctx, user.ID, claim.Provider, claim.SubjectID)
		}
	}
	if err != nil {
		return nil, "", apperrors.New(
			"No account found for this identity, please sign up first",
			apperrors.CodeNotFound, 404,
		)
	}
	return s.completeLogin(ctx, user, string(claim.Provider))
}

// SignupResult is either a completed login (the identity already had an
// account) or a temporary identity awaiting phone verification.
type SignupResult struct {
	User     *model.User
	Token    string
	TempUser *model.PublicTempUser
}

// BeginSocialSignup runs the Start transition for a social credential. A
// known email short-circuits to login; otherwise the verified claim is held
// server-side under an opaque linking token and the flow moves to
// AwaitingPhone.
func (s *AuthService) BeginSocialSignup(ctx context.Context, claim *model.ProviderClaim) (*SignupResult, error) {
	// Accounts are keyed by email, so a claim without one (the user declined
	// the email permission) cannot proceed.
	if claim.Email == "" {
		return nil, apperrors.New(
			fmt.Sprintf("Your %s account did not share an email address, please grant email access and try again", claim.Provider),
			apperrors.CodeProviderError, 400,
		)
	}

	if user, err := s.userRepo.GetByEmail(ctx, claim.Email); err == nil {
		_ = s.userRepo.LinkProvider(ctx, user.ID, claim.Provider, claim.SubjectID)
		u, token, err := s.completeLogin(ctx, user, string(claim.Provider))
		if err != nil {
			return nil, err
		}
		return &SignupResult{User: u, Token: token}, nil
	}

	linkToken := uuid.NewString()
	temp := model.TemporaryIdentity{
		Email:               claim.Email,
		FirstName:           claim.FirstName,
		LastName:            claim.LastName,
		Provider:            claim.Provider,
		SubjectID:           claim.SubjectID,
		PlaceholderPassword: uuid.NewString(),
		CreatedAt:           time.Now(),
	}
	if err := s.cache.Set(ctx, tempIdentityPrefix+linkToken, temp, tempIdentityTTL); err != nil {
		return nil, apperrors.SomethingWentWrong
	}

	return &SignupResult{
		TempUser: &model.PublicTempUser{
			LinkToken: linkToken,
			Email:     temp.Email,
			FirstName: temp.FirstName,
			LastName:  temp.LastName,
			Provider:  string(temp.Provider),
		},
	}, nil
}

// CompleteSocialSignup verifies the OTP and persists the permanent user from
// the server-held claim in one call. Client-echoed identity fields are
// ignored; only the linking token is trusted. A failed OTP leaves the
// temporary identity in place so the client can request a new code without
// restarting the provider flow.
func (s *AuthService) CompleteSocialSignup(ctx context.Context, linkToken, rawPhone, code string) (*model.User, string, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, "", apperrors.BadRequest("Please provide a valid phone number")
	}

	var temp model.TemporaryIdentity
	if err := s.cache.Get(ctx, tempIdentityPrefix+linkToken, &temp); err != nil {
		return nil, "", apperrors.New(
			"This signup session has expired, please sign in again",
			apperrors.CodeInvalidCredential, 401,
		)
	}

	// Availability is checked before the code is spent: a duplicate email or
	// phone must not burn a still-valid OTP.
	if err := s.ensureIdentityAvailable(ctx, temp.Email, canonical); err != nil {
		return nil, "", err
	}

	// A verified marker from an earlier completion attempt (whose create
	// failed after the code was consumed) stands in for a live code, so the
	// retry does not demand a fresh OTP.
	grantKey := phoneVerifiedPrefix + canonical
	var verified bool
	if err := s.cache.Get(ctx, grantKey, &verified); err != nil || !verified {
		outcome, _, err := s.otpStore.Verify(ctx, canonical, code)
		if err != nil {
			return nil, "", apperrors.SomethingWentWrong
		}
		if outcome != otp.Valid {
			return nil, "", outcomeError(outcome)
		}
		_ = s.cache.Set(ctx, grantKey, true, grantTTL)
	}

	hash, err := password.HashPassword(temp.PlaceholderPassword)
	if err != nil {
		return nil, "", apperrors.SomethingWentWrong
	}

	user := &model.User{
		FirstName:    temp.FirstName,
		LastName:     temp.LastName,
		Email:        temp.Email,
		Phone:        canonical,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
	}
	switch temp.Provider {
	case model.ProviderGoogle:
		user.GoogleID = temp.SubjectID
	case model.ProviderFacebook:
		user.FacebookID = temp.SubjectID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Both the temporary identity and the verified marker stay: the
		// phone is proven and the write is retriable, so the retry must not
		// demand a fresh OTP.
		log.Printf("social user creation failed for %s: %v", temp.Email, err)
		return nil, "", apperrors.SomethingWentWrong
	}

	// Consumed exactly once, and only after the permanent write landed.
	_ = s.cache.Delete(ctx, tempIdentityPrefix+linkToken, grantKey)

	token, err := s.mintUserToken(user)
	if err != nil {
		return nil, "", err
	}
	s.publishLoginEvent(ctx, user.ID, string(temp.Provider))
	return user, token, nil
}

// ForgotPasswordSend issues a reset code linked to the account owning the
// phone number.
func (s *AuthService) ForgotPasswordSend(ctx context.Context, rawPhone string) error {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return apperrors.BadRequest("Please provide a valid phone number")
	}

	user, err := s.userRepo.GetByPhone(ctx, canonical)
	if err != nil {
		return apperrors.UserNotFound
	}

	return s.SendOtp(ctx, canonical, user.ID)
}

// ForgotPasswordVerify consumes the reset code and leaves a single-use grant
// for the linked user, so the follow-up reset request cannot be replayed
// cold.
func (s *AuthService) ForgotPasswordVerify(ctx context.Context, rawPhone, code string) (int64, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return 0, apperrors.BadRequest("Please provide a valid phone number")
	}

	outcome, userID, err := s.otpStore.Verify(ctx, canonical, code)
	if err != nil {
		return 0, apperrors.SomethingWentWrong
	}
	if outcome != otp.Valid {
		return 0, outcomeError(outcome)
	}
	if userID == 0 {
		return 0, apperrors.OtpNotFound
	}

	if err := s.cache.Set(ctx, fmt.Sprintf("%s%d", resetGrantPrefix, userID), true, grantTTL); err != nil {
		return 0, apperrors.SomethingWentWrong
	}
	return userID, nil
}

// ResetPassword requires and consumes the grant left by ForgotPasswordVerify.
func (s *AuthService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	grantKey := fmt.Sprintf("%s%d", resetGrantPrefix, userID)

	var granted bool
	if err := s.cache.Get(ctx, grantKey, &granted); err != nil || !granted {
		return apperrors.New(
			"Password reset has not been verified for this account",
			apperrors.CodeForbidden, 403,
		)
	}

	hash, err := password.HashPassword(newPassword)
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return apperrors.SomethingWentWrong
	}

	return s.cache.Delete(ctx, grantKey)
}

// RefreshToken reissues a full-lifetime token for a still-valid bearer.
func (s *AuthService) RefreshToken(ctx context.Context, tokenString string) (*model.User, string, error) {
	fresh, claims, err := jwt.Refresh(tokenString)
	if err != nil {
		return nil, "", apperrors.InvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, "", apperrors.UserNotFound
	}
	return user, fresh, nil
}

func (s *AuthService) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.UserNotFound
	}
	return user, nil
}

func (s *AuthService) completeLogin(ctx context.Context, user *model.User, method string) (*model.User, string, error) {
	if user.Status == model.UserStatusBlocked {
		return nil, "", apperrors.New("This account has been disabled", apperrors.CodeForbidden, 403)
	}
	token, err := s.mintUserToken(user)
	if err != nil {
		return nil, "", err
	}
	s.publishLoginEvent(ctx, user.ID, method)
	return user, token, nil
}

func (s *AuthService) mintUserToken(user *model.User) (string, error) {
	token, err := jwt.Mint(user.ID, user.Email, jwt.RoleUser, jwt.UserSessionTTL)
	if err != nil {
		log.Printf("token minting failed: %v", err)
		return "", apperrors.SomethingWentWrong
	}
	return token, nil
}

// ensureIdentityAvailable rejects registration against an email or phone
// already bound to an account. Checks run before any external call and are
// collapsed under singleflight when the same identity is hammered
// concurrently.
func (s *AuthService) ensureIdentityAvailable(ctx context.Context, email, canonicalPhone string) error {
	key := "identity_check:" + email + ":" + canonicalPhone
	result, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		if email != "" {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return apperrors.EmailExists, nil
			}
		}
		exists, err := s.userRepo.ExistsByPhone(ctx, canonicalPhone)
		if err != nil {
			return nil, err
		}
		if exists {
			return apperrors.PhoneExists, nil
		}
		return nil, nil
	})
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if appErr, ok := result.(*apperrors.AppError); ok && appErr != nil {
		return appErr
	}
	return nil
}

// publishLoginEvent pushes the login onto the Redis stream for the
// background consumer. Without a raw Redis client (tests, single-process
// dev) the last-login update happens inline instead.
func (s *AuthService) publishLoginEvent(ctx context.Context, userID int64, method string) {
	event := LoginEvent{
		UserID:    userID,
		Method:    method,
		Timestamp: time.Now(),
		EventType: "user_last_login",
	}

	client := s.cache.RawClient()
	if client == nil {
		_ = s.userRepo.UpdateLoginTime(ctx, userID)
		_ = s.userRepo.InsertLoginLog(ctx, &model.LoginLog{
			UserID:   userID,
			Method:   method,
			LoggedAt: event.Timestamp,
		})
		return
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal login event: %v", err)
		return
	}

	if err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: LoginStreamKey,
		MaxLen: 100000,
		Values: map[string]interface{}{"event": eventData},
	}).Err(); err != nil {
		log.Printf("failed to publish login event: %v", err)
	}
}

// RecordLogin is called by the stream consumer.
func (s *AuthService) RecordLogin(ctx context.Context, event LoginEvent) error {
	if err := s.userRepo.UpdateLoginTime(ctx, event.UserID); err != nil {
		return err
	}
	return s.userRepo.InsertLoginLog(ctx, &model.LoginLog{
		UserID:   event.UserID,
		Method:   event.Method,
		LoggedAt: event.Timestamp,
	})
}
