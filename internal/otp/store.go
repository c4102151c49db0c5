package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edvora/edvora-api/internal/database"
	"github.com/edvora/edvora-api/pkg/phone"
	"github.com/edvora/edvora-api/pkg/sms"
	"github.com/edvora/edvora-api/pkg/verification"
)

const (
	// Validity is the logical expiry window for a code.
	Validity = 5 * time.Minute

	// MaxAttempts failed verifications delete the record; the caller must
	// request a fresh code.
	MaxAttempts = 5

	keyPrefix = "otp:"
)

// The physical cache TTL outlives the logical window so a verify between
// Validity and the TTL reports Expired rather than NotFound.
const physicalTTL = 2 * Validity

type Outcome int

const (
	Valid Outcome = iota
	Expired
	NotFound
	Mismatch
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	case NotFound:
		return "not_found"
	default:
		return "mismatch"
	}
}

// Record is the single live OTP for a phone number. Overwritten on resend,
// deleted on successful consumption.
type Record struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issuedAt"`
	Attempts int       `json:"attempts"`
	// UserID links password-reset codes to an existing account; zero for
	// registration flows where no user exists yet.
	UserID int64 `json:"userId,omitempty"`
}

// Store issues, validates, and expires one-time phone-verification codes.
// Keys are canonical phone numbers; issue and verify share the same
// normalization so they can never disagree on the key.
type Store struct {
	cache  database.CacheService
	sender sms.Sender

	// now is swappable for expiry tests.
	now func() time.Time
}

func NewStore(cache database.CacheService, sender sms.Sender) *Store {
	return &Store{cache: cache, sender: sender, now: time.Now}
}

// WithNow overrides the store clock; tests only.
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

// Issue generates a fresh code for the number, superseding any live record
// (last-issued wins), and dispatches it via the SMS collaborator. A failed
// dispatch removes the record so a resend starts clean.
func (s *Store) Issue(ctx context.Context, rawPhone string, userID int64) (string, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return "", err
	}

	code := verification.GenerateCode()
	record := Record{
		Code:     code,
		IssuedAt: s.now(),
		Attempts: 0,
		UserID:   userID,
	}

	key := keyPrefix + canonical
	if err := s.cache.Set(ctx, key, record, physicalTTL); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your Edvora verification code is %s. It expires in %d minutes.", code, int(Validity.Minutes()))
	if err := s.sender.Send(ctx, phone.Display(canonical), body); err != nil {
		_ = s.cache.Delete(ctx, key)
		return "", err
	}

	return code, nil
}

// Verify checks a submitted code. Valid consumes the record (one-time use)
// and returns any linked user id. Expiry is evaluated before the code
// comparison, so a matching-but-stale code is Expired, never Valid or
// Mismatch.
func (s *Store) Verify(ctx context.Context, rawPhone, code string) (Outcome, int64, error) {
	canonical, err := phone.Normalize(rawPhone)
	if err != nil {
		return NotFound, 0, err
	}
	key := keyPrefix + canonical

	var record Record
	if err := s.cache.Get(ctx, key, &record); err != nil {
		if errors.Is(err, database.ErrCacheMiss) {
			return NotFound, 0, nil
		}
		return NotFound, 0, err
	}

	if s.now().Sub(record.IssuedAt) > Validity {
		_ = s.cache.Delete(ctx, key)
		return Expired, 0, nil
	}

	if record.Code != code {
		record.Attempts++
		if record.Attempts >= MaxAttempts {
			_ = s.cache.Delete(ctx, key)
		} else {
			remaining := physicalTTL - s.now().Sub(record.IssuedAt)
			_ = s.cache.Set(ctx, key, record, remaining)
		}
		return Mismatch, 0, nil
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return NotFound, 0, err
	}
	return Valid, record.UserID, nil
}
