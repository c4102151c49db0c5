package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/course"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "rzp-test-secret"
	good := sign("order_abc", "pay_xyz", secret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", good, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", good, "other-secret"))
	assert.False(t, VerifySignature("order_other", "pay_xyz", good, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "deadbeef", secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret))
}

type stubGateway struct {
	orders int
	err    error
}

func (s *stubGateway) CreateOrder(int64, string, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.orders++
	return fmt.Sprintf("order_stub_%d", s.orders), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB, course.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))

	courseRepo := course.NewRepository(db)
	svc := NewService(db, courseRepo, &stubGateway{}, nil, "rzp_test_key", "rzp-test-secret")
	return svc, db, courseRepo
}

func seedEnrollment(t *testing.T, db *gorm.DB, price int64) (*model.User, *model.Enrollment) {
	t.Helper()
	user := &model.User{Email: "payer@example.com", Phone: "919876543210"}
	require.NoError(t, db.Create(user).Error)

	c := &model.Course{Title: "Physics Crash Course", PriceInPaise: price, Published: true}
	require.NoError(t, db.Create(c).Error)

	enrollment := &model.Enrollment{UserID: user.ID, CourseID: c.ID, Status: model.EnrollmentPending}
	require.NoError(t, db.Create(enrollment).Error)
	return user, enrollment
}

func TestCreateOrder(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	user, enrollment := seedEnrollment(t, db, 49900)

	resp, err := svc.CreateOrder(ctx, user.ID, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_stub_1", resp.OrderID)
	assert.Equal(t, int64(49900), resp.AmountInPaise)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.KeyID)

	var payment model.Payment
	require.NoError(t, db.Where("order_id = ?", resp.OrderID).First(&payment).Error)
	assert.Equal(t, model.PaymentCreated, payment.Status)
	assert.Equal(t, enrollment.ID, payment.EnrollmentID)

	// Someone else's enrollment is invisible.
	_, err = svc.CreateOrder(ctx, user.ID+1, enrollment.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCreateOrderFreeCourse(t *testing.T) {
	svc, db, _ := newTestService(t)
	user, enrollment := seedEnrollment(t, db, 0)

	_, err := svc.CreateOrder(context.Background(), user.ID, enrollment.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
}

func TestVerifyPaymentActivatesEnrollment(t *testing.T) {
	svc, db, courseRepo := newTestService(t)
	ctx := context.Background()
	user, enrollment := seedEnrollment(t, db, 49900)

	resp, err := svc.CreateOrder(ctx, user.ID, enrollment.ID)
	require.NoError(t, err)

	payment, err := svc.VerifyPayment(ctx, user.ID, &model.VerifyPaymentRequest{
		OrderID:   resp.OrderID,
		PaymentID: "pay_123",
		Signature: sign(resp.OrderID, "pay_123", "rzp-test-secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCaptured, payment.Status)
	assert.Equal(t, "pay_123", payment.PaymentID)

	got, err := courseRepo.GetEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, got.Status)

	// Re-verifying a captured payment is a no-op success.
	again, err := svc.VerifyPayment(ctx, user.ID, &model.VerifyPaymentRequest{
		OrderID:   resp.OrderID,
		PaymentID: "pay_123",
		Signature: "irrelevant-now",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCaptured, again.Status)
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	svc, db, courseRepo := newTestService(t)
	ctx := context.Background()
	user, enrollment := seedEnrollment(t, db, 49900)

	resp, err := svc.CreateOrder(ctx, user.ID, enrollment.ID)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, user.ID, &model.VerifyPaymentRequest{
		OrderID:   resp.OrderID,
		PaymentID: "pay_123",
		Signature: sign(resp.OrderID, "pay_123", "wrong-secret"),
	})
	require.Error(t, err)

	var payment model.Payment
	require.NoError(t, db.Where("order_id = ?", resp.OrderID).First(&payment).Error)
	assert.Equal(t, model.PaymentFailed, payment.Status)

	got, err := courseRepo.GetEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPending, got.Status)
}
